package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func sendMessage(conn net.Conn, msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}
	data = append(data, '\n')
	_, err = conn.Write(data)
	if err != nil {
		log.Printf("Failed to write message: %v", err)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env: %v", err)
	}

	rand.Seed(time.Now().UnixNano())
	cfg := loadGameConfig("config.json")

	log.Println("=================================")
	log.Println(cfg.ServerName)
	log.Println("Status: STARTED")
	log.Println("=================================")

	chronicle := newChronicle(cfg.RedisAddr)
	defer chronicle.Close()

	log.Printf("World: %d locations, %d night and %d day creatures",
		len(worldMap), len(nightBestiary), len(dayBestiary))

	if cfg.WSListenPort > 0 {
		go startWebSocketServer(cfg.WSListenPort, chronicle)
	}

	listenAddr := fmt.Sprintf(":%d", cfg.ListenPort)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalf("Failed to start game server: %v", err)
	}
	log.Printf("Game server listening on %s", listenAddr)

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					log.Printf("Accept error: %v", err)
					continue
				}
			}
			go handleClient(conn, chronicle)
		}
	}()

	<-sigChan
	cancel()
	listener.Close()
	log.Println("Game server shut down cleanly")
}

func handleClient(conn net.Conn, chronicle *Chronicle) {
	defer conn.Close()
	log.Printf("Client connected: %s", conn.RemoteAddr())

	session := NewGameSession(func(msg ServerMessage) {
		sendMessage(conn, msg)
	})
	defer func() {
		if session.Character == nil {
			return
		}
		if err := persistCharacter(session.Character); err != nil {
			log.Printf("Failed to persist character %s: %v", session.Character.Name, err)
		}
	}()

	session.Send(ServerMessage{Command: RespWelcome, Payload: MsgCreateFirst})

	reader := bufio.NewScanner(conn)
	reader.Buffer(make([]byte, 0, 4096), 1024*1024)

	for session.Active {
		if !reader.Scan() {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(reader.Bytes(), &msg); err != nil {
			continue
		}
		cmd := strings.ToUpper(msg.Command)
		if !session.allowCommand(time.Now()) {
			session.Send(ServerMessage{Command: RespRateLimited, Payload: MsgTooManyRequests})
			continue
		}

		handled, modified := handleCommand(session, chronicle, cmd, msg.Payload)
		if !handled {
			session.Send(ServerMessage{Command: RespError, Payload: MsgUnknownCommand})
			continue
		}

		if modified && session.Character != nil {
			if err := persistCharacter(session.Character); err != nil {
				log.Printf("Failed to persist character %s: %v", session.Character.Name, err)
			}
		}
	}

	if err := reader.Err(); err != nil {
		log.Printf("Client read error from %s: %v", conn.RemoteAddr(), err)
	}

	log.Printf("Client disconnected: %s", conn.RemoteAddr())
}

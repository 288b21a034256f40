package main

import (
	"encoding/json"
	"os"
)

type GameConfig struct {
	ServerName   string `json:"server_name"`
	ListenPort   int    `json:"listen_port"`
	WSListenPort int    `json:"ws_listen_port"`
	RedisAddr    string `json:"redis_addr"`
}

func loadGameConfig(path string) GameConfig {
	cfg := GameConfig{
		ServerName: "Dynastyfall Game Server",
		ListenPort: 7878,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return GameConfig{
			ServerName: "Dynastyfall Game Server",
			ListenPort: 7878,
		}
	}

	if cfg.ServerName == "" {
		cfg.ServerName = "Dynastyfall Game Server"
	}
	if cfg.ListenPort <= 0 {
		cfg.ListenPort = 7878
	}
	if cfg.WSListenPort < 0 {
		cfg.WSListenPort = 0
	}

	return cfg
}

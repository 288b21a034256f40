package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Chronicle keys. The fallen board is scored by final level, victories by
// lifetime kill count; fall records keep the last hundred deaths as JSON.
const (
	chronicleFallenKey    = "chronicle:fallen"
	chronicleVictoriesKey = "chronicle:victories"
	chronicleRecordsKey   = "chronicle:fall_records"

	chronicleRecordCap = 100
	chronicleBoardSize = 10
)

// Chronicle is the hall of records, backed by redis. A nil client (no
// redis_addr configured, or the ping failed) makes every method a no-op so
// the game runs fine without it.
type Chronicle struct {
	client *redis.Client
	ctx    context.Context
}

type FallRecord struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Job    string `json:"job"`
	Level  int    `json:"level"`
	Cause  string `json:"cause"`
	FellAt string `json:"fell_at"`
}

func newChronicle(addr string) *Chronicle {
	if addr == "" {
		return &Chronicle{ctx: context.Background()}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Chronicle disabled, redis unreachable at %s: %v", addr, err)
		_ = client.Close()
		return &Chronicle{ctx: context.Background()}
	}

	log.Printf("Chronicle connected to redis at %s", addr)
	return &Chronicle{client: client, ctx: context.Background()}
}

func (ch *Chronicle) enabled() bool {
	return ch != nil && ch.client != nil
}

// RecordVictory bumps the character's lifetime victory count.
func (ch *Chronicle) RecordVictory(name string) {
	if !ch.enabled() {
		return
	}
	if err := ch.client.ZIncrBy(ch.ctx, chronicleVictoriesKey, 1, name).Err(); err != nil {
		log.Printf("Chronicle victory write failed for %q: %v", name, err)
	}
}

// RecordFall writes a death to both the fallen board and the capped record
// list.
func (ch *Chronicle) RecordFall(c *Character, cause string) {
	if !ch.enabled() {
		return
	}

	if err := ch.client.ZAdd(ch.ctx, chronicleFallenKey, &redis.Z{
		Score:  float64(c.Level),
		Member: c.Name,
	}).Err(); err != nil {
		log.Printf("Chronicle fall write failed for %q: %v", c.Name, err)
		return
	}

	record := FallRecord{
		Name:   c.Name,
		Origin: string(c.Origin),
		Job:    c.Job.String(),
		Level:  c.Level,
		Cause:  cause,
		FellAt: worldMap[c.Location].Name,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	pipe := ch.client.Pipeline()
	pipe.LPush(ch.ctx, chronicleRecordsKey, data)
	pipe.LTrim(ch.ctx, chronicleRecordsKey, 0, chronicleRecordCap-1)
	if _, err := pipe.Exec(ch.ctx); err != nil {
		log.Printf("Chronicle record write failed for %q: %v", c.Name, err)
	}
}

// Board returns the requested leaderboard, top entries first.
func (ch *Chronicle) Board(board string) ([]map[string]interface{}, bool, string) {
	if !ch.enabled() {
		return nil, false, ReasonHallUnavailable
	}

	var key string
	switch board {
	case "fallen", "":
		key = chronicleFallenKey
	case "victories":
		key = chronicleVictoriesKey
	default:
		return nil, false, ReasonUnknownBoard
	}

	members, err := ch.client.ZRevRangeWithScores(ch.ctx, key, 0, chronicleBoardSize-1).Result()
	if err != nil {
		log.Printf("Chronicle read failed for %s: %v", key, err)
		return nil, false, ReasonHallUnavailable
	}

	entries := []map[string]interface{}{}
	for i, member := range members {
		name, _ := member.Member.(string)
		entries = append(entries, map[string]interface{}{
			"rank":  i + 1,
			"name":  name,
			"score": int(member.Score),
		})
	}
	return entries, true, "OK"
}

// RecentFalls returns the newest fall records, newest first.
func (ch *Chronicle) RecentFalls(limit int) []FallRecord {
	if !ch.enabled() {
		return nil
	}
	if limit <= 0 || limit > chronicleRecordCap {
		limit = chronicleBoardSize
	}
	raw, err := ch.client.LRange(ch.ctx, chronicleRecordsKey, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("Chronicle record read failed: %v", err)
		return nil
	}
	records := []FallRecord{}
	for _, item := range raw {
		var r FallRecord
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records
}

func (ch *Chronicle) Close() {
	if ch.enabled() {
		_ = ch.client.Close()
	}
}

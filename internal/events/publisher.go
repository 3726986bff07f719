// Package events publishes ingestion notifications on Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChannelBronzeLoaded carries one message per committed load.
const ChannelBronzeLoaded = "EVENT_BRONZE_LOADED"

// BronzeLoaded is the payload published after a load commits.
type BronzeLoaded struct {
	Table    string    `json:"table"`
	Loaded   int       `json:"loaded"`
	Skipped  int       `json:"skipped"`
	Rejected int       `json:"rejected"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Publisher is the subset of *redis.Client used here.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher sends BronzeLoaded events to ChannelBronzeLoaded.
type RedisPublisher struct {
	rdb Publisher
}

// NewRedisPublisher wraps a Redis client.
func NewRedisPublisher(rdb Publisher) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// NotifyLoaded publishes ev as JSON.
func (p *RedisPublisher) NotifyLoaded(ctx context.Context, ev BronzeLoaded) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ChannelBronzeLoaded, err)
	}
	if err := p.rdb.Publish(ctx, ChannelBronzeLoaded, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ChannelBronzeLoaded, err)
	}
	return nil
}

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisBus carries access events over a Redis pub/sub channel so that SSE
// connections on different nodes all see admin writes.
type RedisBus struct {
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(addr, channel string) (*RedisBus, error) {
	if channel == "" {
		channel = "surah_access"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBus{rdb: rdb, channel: channel}, nil
}

func (b *RedisBus) Publish(ctx context.Context, event AccessEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *RedisBus) Subscribe() (<-chan AccessEvent, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := b.rdb.Subscribe(ctx, b.channel)
	out := make(chan AccessEvent, 16)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event AccessEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[ACCESS-BUS] Dropping malformed event: %v", err)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() {
		cancel()
		_ = sub.Close()
	}
}

func (b *RedisBus) Close() error {
	return b.rdb.Close()
}

// Package redis implements the assistant activity log as a capped Redis list.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/pkg/logger"
)

// DefaultKey is the list key used when none is configured.
const DefaultKey = "trello-agent:activity"

// ActivityLog stores events as JSON in a Redis list, newest at the head,
// trimmed to maxEntries on every write.
type ActivityLog struct {
	client     *goredis.Client
	key        string
	maxEntries int64
}

// NewActivityLog wraps an existing client.
func NewActivityLog(client *goredis.Client, key string, maxEntries int) *ActivityLog {
	if key == "" {
		key = DefaultKey
	}
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &ActivityLog{client: client, key: key, maxEntries: int64(maxEntries)}
}

// NewActivityLogFromURL connects to Redis and verifies the connection.
func NewActivityLogFromURL(redisURL, key string, maxEntries int) (*ActivityLog, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger.Info("activity log connected to redis", "addr", opts.Addr, "list", key)
	return NewActivityLog(client, key, maxEntries), nil
}

func (a *ActivityLog) Record(ctx context.Context, ev *domain.ActivityEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	_, err = a.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, a.key, data)
		pipe.LTrim(ctx, a.key, 0, a.maxEntries-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func (a *ActivityLog) Recent(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	out := []domain.ActivityEvent{}
	if limit <= 0 {
		return out, nil
	}
	raw, err := a.client.LRange(ctx, a.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	for _, s := range raw {
		var ev domain.ActivityEvent
		if err := json.Unmarshal([]byte(s), &ev); err != nil {
			logger.Warn("skipping malformed activity entry", "key", a.key, "error", err)
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (a *ActivityLog) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (a *ActivityLog) Close() error {
	return a.client.Close()
}

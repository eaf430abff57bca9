package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lazharichir/pokerodds/odds"
	"github.com/redis/go-redis/v9"
)

// Redis is a ResultCache shared between processes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the server described by a redis:// URL.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %w", err)
	}
	return &Redis{client: redis.NewClient(opt), ttl: ttl}, nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) (*odds.EquityReport, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error getting report: %w", err)
	}

	var report odds.EquityReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false, fmt.Errorf("error unmarshaling report: %w", err)
	}
	return &report, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, report *odds.EquityReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect parses a redis:// URL and verifies the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	const op = "cache.Connect"

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

// EventGuard claims webhook event ids so a redelivered event that was
// already processed is skipped.
type EventGuard interface {
	// Claim reports false when id has already been claimed. A claim that is
	// never confirmed lapses after a short in-flight window.
	Claim(ctx context.Context, id string) (bool, error)
	// Confirm marks id as processed for the guard's full retention.
	Confirm(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
}

const (
	eventKeyPrefix = "webhook:event:"

	// InFlightTTL bounds how long an unconfirmed claim blocks redeliveries.
	InFlightTTL = 5 * time.Minute

	stateInFlight  = "in-flight"
	stateProcessed = "processed"
)

type RedisEventGuard struct {
	client   *redis.Client
	ttl      time.Duration
	inFlight time.Duration
}

func NewRedisEventGuard(client *redis.Client, ttl time.Duration) *RedisEventGuard {
	return &RedisEventGuard{client: client, ttl: ttl, inFlight: min(InFlightTTL, ttl)}
}

func (g *RedisEventGuard) Claim(ctx context.Context, id string) (bool, error) {
	const op = "cache.Claim"
	ok, err := g.client.SetNX(ctx, eventKeyPrefix+id, stateInFlight, g.inFlight).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

func (g *RedisEventGuard) Confirm(ctx context.Context, id string) error {
	const op = "cache.Confirm"
	if err := g.client.Set(ctx, eventKeyPrefix+id, stateProcessed, g.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (g *RedisEventGuard) Release(ctx context.Context, id string) error {
	const op = "cache.Release"
	if err := g.client.Del(ctx, eventKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NoopEventGuard claims every event. It is used when Redis is not configured.
type NoopEventGuard struct{}

func (NoopEventGuard) Claim(context.Context, string) (bool, error) { return true, nil }

func (NoopEventGuard) Confirm(context.Context, string) error { return nil }

func (NoopEventGuard) Release(context.Context, string) error { return nil }

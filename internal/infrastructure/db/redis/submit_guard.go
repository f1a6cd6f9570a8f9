package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmitGuard rejects duplicate submissions across instances.
// Key format: <prefix>:submit:<key>
type SubmitGuard struct {
	client *redis.Client
	prefix string
}

// NewSubmitGuard creates a SubmitGuard wrapping the given Redis client.
func NewSubmitGuard(client *redis.Client, prefix string) *SubmitGuard {
	return &SubmitGuard{client: client, prefix: prefix}
}

// Acquire reports whether key was free and is now held for ttl.
func (g *SubmitGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("submit guard acquire: %w", err)
	}
	return ok, nil
}

// Release frees key before its ttl expires.
func (g *SubmitGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, g.key(key)).Err()
}

func (g *SubmitGuard) key(key string) string {
	return fmt.Sprintf("%s:submit:%s", g.prefix, key)
}

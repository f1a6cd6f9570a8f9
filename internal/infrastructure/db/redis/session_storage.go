package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spabook/portal/internal/core/ports"
)

// SessionStorage stores session keys in Redis.
// Key format: <prefix>:session:<session_id>:<key>
type SessionStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStorage returns a provider whose keys expire after ttl (0 keeps
// them forever).
func NewSessionStorage(client *redis.Client, prefix string, ttl time.Duration) *SessionStorage {
	return &SessionStorage{client: client, prefix: prefix, ttl: ttl}
}

func (s *SessionStorage) ForSession(sessionID string) ports.KeyValueStore {
	return &sessionKeys{s: s, id: sessionID}
}

type sessionKeys struct {
	s  *SessionStorage
	id string
}

func (k *sessionKeys) key(name string) string {
	return fmt.Sprintf("%s:session:%s:%s", k.s.prefix, k.id, name)
}

func (k *sessionKeys) Get(ctx context.Context, name string) (string, bool, error) {
	v, err := k.s.client.Get(ctx, k.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", name, err)
	}
	return v, true, nil
}

// SetMany writes all values inside one MULTI/EXEC so readers never observe
// a partial pair.
func (k *sessionKeys) SetMany(ctx context.Context, values map[string]string) error {
	_, err := k.s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, v := range values {
			pipe.Set(ctx, k.key(name), v, k.s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (k *sessionKeys) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = k.key(n)
	}
	if err := k.s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

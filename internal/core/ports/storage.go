package ports

import (
	"context"
	"time"
)

// KeyValueStore is the durable storage backing a single session. Keys are
// unqualified (`user`, `auth_token`); implementations namespace them.
type KeyValueStore interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetMany writes every pair in one atomic operation.
	SetMany(ctx context.Context, values map[string]string) error
	// Delete removes the keys in one operation. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// SessionStorageProvider hands out the KeyValueStore of a session id.
type SessionStorageProvider interface {
	ForSession(sessionID string) KeyValueStore
}

// SubmitGuard rejects duplicate submissions for the same key while one is
// still being processed.
type SubmitGuard interface {
	// Acquire reports false when the key is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

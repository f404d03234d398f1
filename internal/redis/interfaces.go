package redis

import (
	"context"
	"time"
)

// Cache stores JSON documents under string keys.
// Implemented by Client (Redis) and MemoryCache.
type Cache interface {
	// GetJSON decodes the value at key into dst and reports whether the key existed.
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)

	// SetJSON encodes v and stores it under key for ttl.
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Cache = (*Client)(nil)
	_ Cache = (*MemoryCache)(nil)
)

package cache

import (
	"context"
	"time"
)

// Provider is a single cache tier. Get returns the raw value and whether the
// key was present; tiers never surface transport errors to callers — a broken
// tier reads as a miss.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Connected() bool
}

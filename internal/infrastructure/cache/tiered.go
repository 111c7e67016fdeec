package cache

import (
	"context"
	"time"
)

// Tiered reads local-first with shared-tier fallback. The shared tier is a
// cross-instance consistency aid, never a correctness requirement: it is only
// consulted while it reports connected, and its failures are swallowed.
type Tiered struct {
	local  Provider
	shared Provider // nil when no shared tier is configured
}

func NewTiered(local, shared Provider) *Tiered {
	return &Tiered{local: local, shared: shared}
}

// Get checks the local tier, then the shared tier. A shared-tier hit is
// written back into the local tier before being returned.
func (t *Tiered) Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool) {
	if val, ok := t.local.Get(ctx, key); ok {
		return val, true
	}
	if t.shared == nil || !t.shared.Connected() {
		return nil, false
	}
	val, ok := t.shared.Get(ctx, key)
	if !ok {
		return nil, false
	}
	t.local.Set(ctx, key, val, ttl)
	return val, true
}

// Set writes the local tier unconditionally and the shared tier best-effort.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	t.local.Set(ctx, key, value, ttl)
	if t.shared != nil && t.shared.Connected() {
		t.shared.Set(ctx, key, value, ttl)
	}
}

// Invalidate deletes the key from both tiers.
func (t *Tiered) Invalidate(ctx context.Context, key string) {
	t.local.Delete(ctx, key)
	if t.shared != nil && t.shared.Connected() {
		t.shared.Delete(ctx, key)
	}
}

// SharedConnected reports whether the shared tier is currently reachable.
func (t *Tiered) SharedConnected() bool {
	return t.shared != nil && t.shared.Connected()
}

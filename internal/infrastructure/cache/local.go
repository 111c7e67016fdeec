package cache

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	value    []byte
	deadline time.Time
}

// Local is the in-process cache tier: a mutex-guarded map with per-entry TTL.
// Expired entries are dropped lazily on read and swept opportunistically on
// write once the map grows.
type Local struct {
	mu      sync.Mutex
	entries map[string]localEntry
}

func NewLocal() *Local {
	return &Local{entries: make(map[string]localEntry)}
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.deadline) {
		delete(l.entries, key)
		return nil, false
	}
	return e.value, true
}

func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) >= sweepThreshold {
		l.sweepLocked()
	}
	l.entries[key] = localEntry{value: value, deadline: time.Now().Add(ttl)}
}

func (l *Local) Delete(_ context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// Connected always reports true — the local tier cannot be unreachable.
func (l *Local) Connected() bool { return true }

const sweepThreshold = 4096

func (l *Local) sweepLocked() {
	now := time.Now()
	for k, e := range l.entries {
		if now.After(e.deadline) {
			delete(l.entries, k)
		}
	}
}

package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared cache tier backed by a Redis server. All operations are
// best-effort: transport failures read as misses and are never raised.
type Redis struct {
	client *redis.Client

	mu          sync.Mutex
	reachable   bool
	lastProbeAt time.Time
}

const (
	opTimeout     = 500 * time.Millisecond
	probeInterval = 5 * time.Second
)

// Connect parses the Redis URL, pings the server, and returns the shared tier.
// A failed initial ping is not fatal — the tier starts disconnected and the
// periodic probe in Connected() picks the server up when it returns.
func Connect(ctx context.Context, url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	r := &Redis{client: client}
	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	r.reachable = client.Ping(pingCtx).Err() == nil
	r.lastProbeAt = time.Now()
	return r, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.markUnreachable()
		}
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("WARN: redis set %s: %v", key, err)
		r.markUnreachable()
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		log.Printf("WARN: redis del %s: %v", key, err)
		r.markUnreachable()
	}
}

// Connected reports reachability. The answer is refreshed by pinging at most
// once per probeInterval so callers can gate every cache call on it without
// paying a round-trip each time.
func (r *Redis) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.lastProbeAt) < probeInterval {
		return r.reachable
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	r.reachable = r.client.Ping(ctx).Err() == nil
	r.lastProbeAt = time.Now()
	return r.reachable
}

func (r *Redis) markUnreachable() {
	r.mu.Lock()
	r.reachable = false
	r.lastProbeAt = time.Now()
	r.mu.Unlock()
}

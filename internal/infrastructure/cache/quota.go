package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuotaCounter counts uses of a limited resource inside fixed windows
type QuotaCounter interface {
	// Consume adds one use under key and reports whether the total is within limit.
	// The window starts with the first use and the key expires when it ends.
	Consume(ctx context.Context, key string, limit int64, window time.Duration) (used int64, allowed bool, err error)
	// Used returns the current count for key
	Used(ctx context.Context, key string) (int64, error)
}

// NewQuotaCounter returns a Redis counter when client is set, otherwise an in-memory one
func NewQuotaCounter(client *redis.Client) QuotaCounter {
	if client == nil {
		return NewMemoryQuotaCounter()
	}
	return NewRedisQuotaCounter(client)
}

const quotaPrefix = "desa:quota:"

// RedisQuotaCounter shares quotas across replicas with INCR and EXPIRE
type RedisQuotaCounter struct {
	client *redis.Client
}

// NewRedisQuotaCounter creates a counter on an existing client
func NewRedisQuotaCounter(client *redis.Client) *RedisQuotaCounter {
	return &RedisQuotaCounter{client: client}
}

// Consume increments the key and sets its expiry on the first use
func (q *RedisQuotaCounter) Consume(ctx context.Context, key string, limit int64, window time.Duration) (int64, bool, error) {
	var incr *redis.IntCmd
	_, err := q.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, quotaPrefix+key)
		p.ExpireNX(ctx, quotaPrefix+key, window)
		return nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("consume quota %s: %w", key, err)
	}
	used := incr.Val()
	return used, limit <= 0 || used <= limit, nil
}

// Used returns the current count for key
func (q *RedisQuotaCounter) Used(ctx context.Context, key string) (int64, error) {
	n, err := q.client.Get(ctx, quotaPrefix+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read quota %s: %w", key, err)
	}
	return n, nil
}

type window struct {
	count     int64
	expiresAt time.Time
}

// MemoryQuotaCounter keeps quotas in process memory
type MemoryQuotaCounter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryQuotaCounter creates an empty in-memory counter
func NewMemoryQuotaCounter() *MemoryQuotaCounter {
	return &MemoryQuotaCounter{windows: make(map[string]*window), now: time.Now}
}

// Consume adds one use under key
func (q *MemoryQuotaCounter) Consume(_ context.Context, key string, limit int64, d time.Duration) (int64, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	w, ok := q.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		w = &window{expiresAt: now.Add(d)}
		q.windows[key] = w
	}
	w.count++
	return w.count, limit <= 0 || w.count <= limit, nil
}

// Used returns the current count for key
func (q *MemoryQuotaCounter) Used(_ context.Context, key string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	w, ok := q.windows[key]
	if !ok || !q.now().Before(w.expiresAt) {
		return 0, nil
	}
	return w.count, nil
}

var (
	_ QuotaCounter = (*RedisQuotaCounter)(nil)
	_ QuotaCounter = (*MemoryQuotaCounter)(nil)
)

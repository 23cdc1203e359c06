package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultValueTTL        = 5 * time.Minute
	valueKeyPrefix         = "desa:cache:"
)

// ValueCache stores JSON-encodable values for a limited time
type ValueCache interface {
	// Get decodes the cached value into dst. found is false on a miss.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	// Set stores value for ttl. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NewValueCache returns a Redis cache when client is set, otherwise an in-process one
func NewValueCache(client *redis.Client, logger *zap.Logger) ValueCache {
	if client == nil {
		return NewMemoryValueCache(WithValueCacheLogger(logger))
	}
	return NewRedisValueCache(client, logger)
}

// cacheEntry wraps an encoded value with its expiry
type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryValueCache keeps values in a sync.Map and sweeps expired entries in the background
type MemoryValueCache struct {
	entries  sync.Map // map[string]*cacheEntry
	logger   *zap.Logger
	interval time.Duration
	clock    func() time.Time
	stopCh   chan struct{}
	stopped  int32

	hits   int64
	misses int64
}

// MemoryValueCacheOption configures a MemoryValueCache
type MemoryValueCacheOption func(*MemoryValueCache)

// WithValueCacheLogger sets the logger
func WithValueCacheLogger(logger *zap.Logger) MemoryValueCacheOption {
	return func(c *MemoryValueCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCleanupInterval sets how often expired entries are removed
func WithCleanupInterval(d time.Duration) MemoryValueCacheOption {
	return func(c *MemoryValueCache) {
		if d > 0 {
			c.interval = d
		}
	}
}

// NewMemoryValueCache creates an in-process cache. Call Close to stop the sweeper.
func NewMemoryValueCache(opts ...MemoryValueCacheOption) *MemoryValueCache {
	c := &MemoryValueCache{
		logger:   zap.NewNop(),
		interval: defaultCleanupInterval,
		clock:    time.Now,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.cleanupExpired()
	return c
}

// Get decodes a live entry into dst
func (c *MemoryValueCache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c.entries.Load(key)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return false, nil
	}
	entry := v.(*cacheEntry)
	if entry.expired(c.clock()) {
		c.entries.Delete(key)
		atomic.AddInt64(&c.misses, 1)
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dst); err != nil {
		c.entries.Delete(key)
		return false, fmt.Errorf("failed to decode cached value %s: %w", key, err)
	}
	atomic.AddInt64(&c.hits, 1)
	return true, nil
}

// Set encodes and stores value
func (c *MemoryValueCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultValueTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cached value %s: %w", key, err)
	}
	c.entries.Store(key, &cacheEntry{data: data, expiresAt: c.clock().Add(ttl)})
	return nil
}

// Delete removes key
func (c *MemoryValueCache) Delete(_ context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (c *MemoryValueCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns hit and miss counts
func (c *MemoryValueCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Len counts stored entries, expired ones included until the next sweep
func (c *MemoryValueCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *MemoryValueCache) cleanupExpired() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup", zap.Any("panic", r))
					}
				}()
				c.sweep()
			}()
		}
	}
}

func (c *MemoryValueCache) sweep() int {
	now := c.clock()
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry).expired(now) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("Removed expired cache entries", zap.Int("removed", removed))
	}
	return removed
}

// RedisValueCache stores JSON values under a shared key prefix
type RedisValueCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisValueCache wraps an existing client. The caller keeps ownership of it.
func NewRedisValueCache(client *redis.Client, logger *zap.Logger) *RedisValueCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisValueCache{client: client, logger: logger}
}

// Get decodes the stored value into dst
func (c *RedisValueCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, valueKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Failed to read cached value", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("failed to read cached value %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// drop the corrupted entry so the next read repopulates it
		_ = c.client.Del(ctx, valueKeyPrefix+key)
		return false, fmt.Errorf("failed to decode cached value %s: %w", key, err)
	}
	return true, nil
}

// Set stores value with ttl
func (c *RedisValueCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultValueTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cached value %s: %w", key, err)
	}
	if err := c.client.Set(ctx, valueKeyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to write cached value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write cached value %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (c *RedisValueCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, valueKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cached value %s: %w", key, err)
	}
	return nil
}

var (
	_ ValueCache = (*MemoryValueCache)(nil)
	_ ValueCache = (*RedisValueCache)(nil)
)

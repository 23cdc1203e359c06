package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned by WaitAcquire when the lock stays taken until ctx ends
var ErrLockHeld = errors.New("lock is held by another owner")

// Locker provides short-lived mutual exclusion keyed by name
type Locker interface {
	// TryAcquire takes the lock for ttl. ok is false when another owner holds it.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// NewLocker returns a Redis locker when client is set, otherwise an in-process one
func NewLocker(client *redis.Client) Locker {
	if client == nil {
		return NewMemoryLocker()
	}
	return NewRedisLocker(client)
}

// WaitAcquire retries TryAcquire every interval until the lock is taken or ctx ends
func WaitAcquire(ctx context.Context, l Locker, key string, ttl, interval time.Duration) (func(), error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		release, ok, err := l.TryAcquire(ctx, key, ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return release, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockHeld, key)
		case <-ticker.C:
		}
	}
}

const lockPrefix = "desa:lock:"

// releaseScript deletes the key only when it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker implements Locker with SET NX and a compare-and-delete release
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a locker on an existing client
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// TryAcquire takes the lock when it is free
func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{lockPrefix + key}, token).Err()
	}
	return release, true, nil
}

// MemoryLocker implements Locker inside one process
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryLease
	clock func() time.Time
}

type memoryLease struct {
	token     uuid.UUID
	expiresAt time.Time
}

// NewMemoryLocker creates an in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]memoryLease), clock: time.Now}
}

// TryAcquire takes the lock when it is free or its lease expired
func (l *MemoryLocker) TryAcquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if lease, ok := l.held[key]; ok && now.Before(lease.expiresAt) {
		return nil, false, nil
	}
	token := uuid.New()
	l.held[key] = memoryLease{token: token, expiresAt: now.Add(ttl)}
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if lease, ok := l.held[key]; ok && lease.token == token {
			delete(l.held, key)
		}
	}
	return release, true, nil
}

var (
	_ Locker = (*RedisLocker)(nil)
	_ Locker = (*MemoryLocker)(nil)
)

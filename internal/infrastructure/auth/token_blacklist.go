package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by JTI for ttl
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// InvalidateUser revokes every token of a user issued up to now
	InvalidateUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserTokenInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const blacklistPrefix = "desa:token:"

// RedisTokenBlacklist stores revocations in Redis so every replica sees them
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist creates a blacklist on an existing client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// AddToBlacklist revokes one token by JTI
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, blacklistPrefix+"jti:"+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted checks whether a JTI was revoked
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}

// InvalidateUser stores the revocation time of a user's sessions
func (b *RedisTokenBlacklist) InvalidateUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, blacklistPrefix+"user:"+userID, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("invalidate user tokens: %w", err)
	}
	return nil
}

// IsUserTokenInvalidated reports whether a token predates the user's revocation time
func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, blacklistPrefix+"user:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user token invalidation: %w", err)
	}
	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse invalidation timestamp: %w", err)
	}
	return issuedAt.Unix() <= at, nil
}

// InMemoryTokenBlacklist is the single-instance fallback used when Redis is not configured
type InMemoryTokenBlacklist struct {
	mu    sync.Mutex
	jtis  map[string]time.Time
	users map[string]time.Time
}

// NewInMemoryTokenBlacklist creates an empty in-memory blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:  make(map[string]time.Time),
		users: make(map[string]time.Time),
	}
}

// AddToBlacklist revokes one token by JTI
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = time.Now().Add(ttl)
	return nil
}

// IsBlacklisted checks whether a JTI was revoked and the entry is still live
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// InvalidateUser stores the revocation time of a user's sessions
func (b *InMemoryTokenBlacklist) InvalidateUser(_ context.Context, userID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[userID] = time.Now()
	return nil
}

// IsUserTokenInvalidated reports whether a token predates the user's revocation time
func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	at, ok := b.users[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(at), nil
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
)

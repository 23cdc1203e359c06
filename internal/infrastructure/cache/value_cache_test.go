package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsDoc struct {
	Population int64            `json:"population"`
	Business   map[string]int64 `json:"business"`
}

func TestMemoryValueCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryValueCache(WithCleanupInterval(time.Hour))
	defer c.Close()
	now := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return now }

	var got statsDoc
	found, err := c.Get(ctx, "public:stats:t1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	in := statsDoc{Population: 1200, Business: map[string]int64{"koperasi": 3}}
	require.NoError(t, c.Set(ctx, "public:stats:t1", in, time.Minute))

	found, err = c.Get(ctx, "public:stats:t1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, got)

	hits, misses := c.Stats()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 1, misses)

	now = now.Add(2 * time.Minute)
	found, err = c.Get(ctx, "public:stats:t1", &got)
	require.NoError(t, err)
	assert.False(t, found, "expired")
	assert.Zero(t, c.Len(), "expired entries are dropped on read")
}

func TestMemoryValueCache_DefaultTTLAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryValueCache()
	defer c.Close()
	now := time.Now()
	c.clock = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", 7, 0))
	now = now.Add(defaultValueTTL - time.Second)
	var n int
	found, _ := c.Get(ctx, "k", &n)
	assert.True(t, found)
	assert.Equal(t, 7, n)

	require.NoError(t, c.Delete(ctx, "k"))
	found, _ = c.Get(ctx, "k", &n)
	assert.False(t, found)
}

func TestMemoryValueCache_Sweep(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryValueCache()
	defer c.Close()
	now := time.Now()
	c.clock = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", "a", time.Second))
	require.NoError(t, c.Set(ctx, "long", "b", time.Hour))
	now = now.Add(time.Minute)

	assert.Equal(t, 1, c.sweep())
	assert.Equal(t, 1, c.Len())
}

func TestMemoryValueCache_DecodeError(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryValueCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", "text", time.Minute))
	var n int
	found, err := c.Get(ctx, "k", &n)
	assert.Error(t, err)
	assert.False(t, found)
	assert.Zero(t, c.Len())
}

func TestMemoryValueCache_EncodeError(t *testing.T) {
	c := NewMemoryValueCache()
	defer c.Close()
	assert.Error(t, c.Set(context.Background(), "k", make(chan int), time.Minute))
}

func TestNewValueCache_FallsBackToMemory(t *testing.T) {
	c := NewValueCache(nil, nil)
	m, ok := c.(*MemoryValueCache)
	require.True(t, ok)
	m.Close()
}

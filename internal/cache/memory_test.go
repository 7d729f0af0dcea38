package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore(DefaultMemoryConfig())
	ctx := context.Background()

	val, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	val, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{MaxSize: 10, DefaultTTL: time.Hour})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, val, "expired entry must read as absent")
	assert.Equal(t, 0, s.Len(), "expired entry must be evicted lazily on lookup")
}

func TestMemoryStore_CapacityFIFO(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{MaxSize: 3, DefaultTTL: time.Hour})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
	}

	// Read k0 repeatedly; FIFO eviction must not bump it.
	for i := 0; i < 5; i++ {
		_, _ = s.Get(ctx, "k0")
	}

	require.NoError(t, s.Set(ctx, "k3", []byte("v"), 0))

	assert.Equal(t, 3, s.Len(), "size must never exceed maxSize")
	val, _ := s.Get(ctx, "k0")
	assert.Nil(t, val, "oldest-inserted entry must be evicted first")
	val, _ = s.Get(ctx, "k1")
	assert.NotNil(t, val)
}

func TestMemoryStore_SizeBoundHoldsAfterEveryPut(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{MaxSize: 5, DefaultTTL: time.Hour})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, s.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
		assert.LessOrEqual(t, s.Len(), 5)
	}
}

func TestMemoryStore_OverwriteDoesNotGrow(t *testing.T) {
	s := NewMemoryStore(MemoryConfig{MaxSize: 2, DefaultTTL: time.Hour})
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), 0))
	require.NoError(t, s.Set(ctx, "k", []byte("v2"), 0))
	assert.Equal(t, 1, s.Len())

	val, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("v2"), val)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(DefaultMemoryConfig())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, s.Len())

	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestMemoryStore_CopyOnRead(t *testing.T) {
	s := NewMemoryStore(DefaultMemoryConfig())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("abc"), 0))
	val, _ := s.Get(ctx, "k")
	val[0] = 'x'

	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_Stats(t *testing.T) {
	s := NewMemoryStore(DefaultMemoryConfig())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
	_, _ = s.Get(ctx, "k")
	_, _ = s.Get(ctx, "nope")

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

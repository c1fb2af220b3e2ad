package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "greeting", "hello", time.Minute))
	val, err := c.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)

	val, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "session", "abc", 10*time.Second))

	now = now.Add(11 * time.Second)
	val, err := c.Get(ctx, "session")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))

	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestMemoryCache_IncrWindow(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		got, err := c.Incr(ctx, "rate:1.2.3.4", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// A new window starts after the old one expires.
	now = now.Add(2 * time.Hour)
	got, err := c.Incr(ctx, "rate:1.2.3.4", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

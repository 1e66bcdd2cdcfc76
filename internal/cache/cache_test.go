package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string]()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	value, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[int64]()

	require.NoError(t, c.Set(ctx, "k", 42, -time.Second))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string]()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoresStructs(t *testing.T) {
	type snapshot struct {
		Rank    int
		Balance int64
	}

	ctx := context.Background()
	c := NewMemory[snapshot]()

	require.NoError(t, c.Set(ctx, "top", snapshot{Rank: 1, Balance: 900}, time.Minute))
	value, err := c.Get(ctx, "top")
	require.NoError(t, err)
	assert.Equal(t, snapshot{Rank: 1, Balance: 900}, value)
}

func TestFetchBuildsOnMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string]()

	builds := 0
	build := func(ctx context.Context) (string, error) {
		builds++
		return "built", nil
	}

	value, err := Fetch(ctx, c, "k", time.Minute, build)
	require.NoError(t, err)
	assert.Equal(t, "built", value)
	assert.Equal(t, 1, builds)

	// Second call is served from cache.
	value, err = Fetch(ctx, c, "k", time.Minute, build)
	require.NoError(t, err)
	assert.Equal(t, "built", value)
	assert.Equal(t, 1, builds)
}

func TestFetchPropagatesBuildError(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[string]()

	boom := errors.New("boom")
	_, err := Fetch(ctx, c, "k", time.Minute, func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	// The failed build left nothing behind.
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseCacheLocal(t *testing.T) {
	ctx := context.Background()
	cash := NewCacheLocal(16, time.Minute)

	calls := 0
	compute := func() (bool, error) {
		calls++
		return true, nil
	}

	v, err := UseCache(ctx, cash, "login", time.Minute, compute)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = UseCache(ctx, cash, "login", time.Minute, compute)
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, 1, calls)

	require.NoError(t, cash.Delete(ctx, "login"))
	_, err = UseCache(ctx, cash, "login", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestUseCacheSkipsErrors(t *testing.T) {
	ctx := context.Background()
	cash := NewCacheLocal(16, time.Minute)
	boom := errors.New("boom")

	calls := 0
	failing := func() (bool, error) {
		calls++
		return false, boom
	}

	_, err := UseCache(ctx, cash, "login", time.Minute, failing)
	assert.ErrorIs(t, err, boom)
	_, err = UseCache(ctx, cash, "login", time.Minute, failing)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alchemorsel/personalization/internal/infrastructure/config"
	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRepository(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), config.RedisConfig{
		Host: mr.Host(),
		Port: mustPort(t, mr.Port()),
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewCacheRepository(client, "test:", zaptest.NewLogger(t)), mr
}

func mustPort(t *testing.T, raw string) int {
	t.Helper()
	port, err := strconv.Atoi(raw)
	require.NoError(t, err)
	return port
}

func TestCacheRepository_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t)

	require.NoError(t, repo.Set(ctx, "pantry:slug:system", []byte("7a1f0d3e"), time.Minute))
	assert.True(t, mr.Exists("test:pantry:slug:system"))

	got, err := repo.Get(ctx, "pantry:slug:system")
	require.NoError(t, err)
	assert.Equal(t, []byte("7a1f0d3e"), got)

	exists, err := repo.Exists(ctx, "pantry:slug:system")
	require.NoError(t, err)
	assert.True(t, exists)

	mr.FastForward(2 * time.Minute)

	_, err = repo.Get(ctx, "pantry:slug:system")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, repo.Delete(ctx, "k"))

	exists, err := repo.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheRepository_ServerDown(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t)
	mr.Close()

	_, err := repo.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, outbound.ErrCacheMiss)
}

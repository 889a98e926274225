package pantry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alchemorsel/personalization/internal/domain/catalog"
	"github.com/alchemorsel/personalization/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/personalization/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestResolver_CachesPantryID(t *testing.T) {
	ctx := context.Background()
	pantryID := uuid.New()

	repo := new(testutils.MockCatalogRepository)
	repo.On("FindPantryIDBySlug", mock.Anything, "system").Return(pantryID, nil).Once()

	cache := memory.NewCacheRepository()
	defer cache.Close()

	resolver := NewResolver(repo, cache, "system", time.Minute, zaptest.NewLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := resolver.SystemPantryID(ctx)
			assert.NoError(t, err)
			assert.Equal(t, pantryID, id)
		}()
	}
	wg.Wait()

	id, err := resolver.SystemPantryID(ctx)
	require.NoError(t, err)
	assert.Equal(t, pantryID, id)
	repo.AssertNumberOfCalls(t, "FindPantryIDBySlug", 1)
}

func TestResolver_ReloadsAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	repo := new(testutils.MockCatalogRepository)
	repo.On("FindPantryIDBySlug", mock.Anything, "system").Return(first, nil).Once()
	repo.On("FindPantryIDBySlug", mock.Anything, "system").Return(second, nil).Once()

	cache := memory.NewCacheRepository()
	defer cache.Close()
	resolver := NewResolver(repo, cache, "system", time.Minute, zaptest.NewLogger(t))

	id, err := resolver.SystemPantryID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, id)

	require.NoError(t, resolver.Invalidate(ctx))

	id, err = resolver.SystemPantryID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, id)
}

func TestResolver_MissingPantry(t *testing.T) {
	repo := new(testutils.MockCatalogRepository)
	repo.On("FindPantryIDBySlug", mock.Anything, "system").Return(uuid.Nil, catalog.ErrPantryNotFound)

	cache := new(testutils.MockCacheRepository)
	cache.On("Get", mock.Anything, "pantry:slug:system").Return(nil, errors.New("miss"))

	resolver := NewResolver(repo, cache, "system", time.Minute, zaptest.NewLogger(t))

	_, err := resolver.SystemPantryID(context.Background())
	assert.ErrorIs(t, err, catalog.ErrPantryNotFound)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

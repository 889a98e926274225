// Package pantry resolves the system pantry whose inventory is offered to users
package pantry

import (
	"context"
	"fmt"
	"time"

	"github.com/alchemorsel/personalization/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Resolver implements outbound.PantryProvider. The pantry id is cached for
// the configured TTL; concurrent misses share one database lookup.
type Resolver struct {
	catalog outbound.CatalogRepository
	cache   outbound.CacheRepository
	slug    string
	ttl     time.Duration
	group   singleflight.Group
	logger  *zap.Logger
}

var _ outbound.PantryProvider = (*Resolver)(nil)

// NewResolver creates a resolver for the pantry identified by slug
func NewResolver(catalog outbound.CatalogRepository, cache outbound.CacheRepository, slug string, ttl time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		cache:   cache,
		slug:    slug,
		ttl:     ttl,
		logger:  logger.Named("pantry"),
	}
}

func (r *Resolver) cacheKey() string {
	return "pantry:slug:" + r.slug
}

// SystemPantryID returns the cached id, loading it on a miss
func (r *Resolver) SystemPantryID(ctx context.Context) (uuid.UUID, error) {
	if id, ok := r.cached(ctx); ok {
		return id, nil
	}

	v, err, _ := r.group.Do(r.slug, func() (interface{}, error) {
		// another flight may have filled the cache since the first check
		if id, ok := r.cached(ctx); ok {
			return id, nil
		}
		id, err := r.catalog.FindPantryIDBySlug(ctx, r.slug)
		if err != nil {
			return uuid.Nil, fmt.Errorf("resolve pantry %q: %w", r.slug, err)
		}
		if err := r.cache.Set(ctx, r.cacheKey(), []byte(id.String()), r.ttl); err != nil {
			r.logger.Warn("Failed to cache pantry id", zap.Error(err))
		}
		r.logger.Debug("Resolved system pantry", zap.String("slug", r.slug), zap.String("pantry_id", id.String()))
		return id, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return v.(uuid.UUID), nil
}

func (r *Resolver) cached(ctx context.Context) (uuid.UUID, bool) {
	raw, err := r.cache.Get(ctx, r.cacheKey())
	if err != nil || len(raw) == 0 {
		return uuid.Nil, false
	}
	id, err := uuid.ParseBytes(raw)
	if err != nil {
		r.logger.Warn("Discarding malformed cached pantry id", zap.String("slug", r.slug))
		return uuid.Nil, false
	}
	return id, true
}

// Invalidate drops the cached id so the next call reloads it
func (r *Resolver) Invalidate(ctx context.Context) error {
	return r.cache.Delete(ctx, r.cacheKey())
}

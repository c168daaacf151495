package renewal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

const (
	plansCacheKey = "plans:all"
	plansCacheTTL = time.Hour
)

// Cache — кеш каталога тарифов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CachedPlans читает каталог тарифов через кеш. Ошибки кеша не мешают чтению из базы.
type CachedPlans struct {
	store Plans
	cache Cache
	log   *slog.Logger
}

// NewCachedPlans создаёт CachedPlans.
func NewCachedPlans(store Plans, cache Cache, log *slog.Logger) *CachedPlans {
	return &CachedPlans{store: store, cache: cache, log: log}
}

// ListPlans возвращает каталог тарифов.
func (c *CachedPlans) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "renewal.ListPlans"
	log := c.log.With(slog.String("op", op))

	var cached []*models.Plan
	found, err := c.cache.Get(ctx, plansCacheKey, &cached)
	if err != nil {
		log.Warn("plans cache read failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	plans, err := c.store.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := c.cache.Set(ctx, plansCacheKey, plans, plansCacheTTL); err != nil {
		log.Warn("plans cache write failed", sl.Err(err))
	}
	return plans, nil
}

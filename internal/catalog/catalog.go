package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	sl "shop_service/internal/lib/logger"
	"shop_service/internal/models"
	"shop_service/internal/storage/redis"
)

type Catalog struct {
	log      *slog.Logger
	saver    ProductSaver
	provider ProductProvider
	cache    ProductCache
	cacheTTL time.Duration
}

type ProductSaver interface {
	SaveProduct(ctx context.Context, name string, price float64, imageURL string) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ProductProvider interface {
	Product(ctx context.Context, id uuid.UUID) (models.Product, error)
	Products(ctx context.Context) ([]models.Product, error)
}

type ProductCache interface {
	Product(ctx context.Context, id uuid.UUID) (models.Product, error)
	SetProduct(ctx context.Context, p models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

func New(
	log *slog.Logger,
	saver ProductSaver,
	provider ProductProvider,
	cache ProductCache,
	cacheTTL time.Duration,
) *Catalog {
	return &Catalog{
		log:      log,
		saver:    saver,
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (c *Catalog) Create(ctx context.Context, name string, price float64, imageURL string) (uuid.UUID, error) {
	const op = "catalog.Create"

	log := c.log.With(slog.String("op", op))

	id, err := c.saver.SaveProduct(ctx, name, price, imageURL)
	if err != nil {
		log.Error("failed to save product", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("product created", slog.String("id", id.String()))

	return id, nil
}

// Get serves reads through the cache; a cache failure degrades to the
// database path instead of failing the request.
func (c *Catalog) Get(ctx context.Context, id uuid.UUID) (models.Product, error) {
	const op = "catalog.Get"

	log := c.log.With(slog.String("op", op))

	cached, err := c.cache.Product(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		log.Warn("cache read failed", sl.Err(err))
	}

	p, err := c.provider.Product(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.cache.SetProduct(ctx, p, c.cacheTTL); err != nil {
		log.Warn("cache write failed", sl.Err(err))
	}

	return p, nil
}

func (c *Catalog) List(ctx context.Context) ([]models.Product, error) {
	const op = "catalog.List"

	products, err := c.provider.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

func (c *Catalog) Update(ctx context.Context, id uuid.UUID, patch models.ProductPatch) error {
	const op = "catalog.Update"

	log := c.log.With(slog.String("op", op))

	if err := c.saver.UpdateProduct(ctx, id, patch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.cache.DeleteProduct(ctx, id); err != nil {
		log.Warn("cache invalidation failed", sl.Err(err))
	}

	log.Info("product updated", slog.String("id", id.String()))

	return nil
}

func (c *Catalog) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "catalog.Delete"

	log := c.log.With(slog.String("op", op))

	if err := c.saver.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.cache.DeleteProduct(ctx, id); err != nil {
		log.Warn("cache invalidation failed", sl.Err(err))
	}

	log.Info("product deleted", slog.String("id", id.String()))

	return nil
}

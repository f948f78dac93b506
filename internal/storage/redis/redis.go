package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shop_service/internal/models"
)

// ErrCacheMiss is returned when the requested product is not cached.
var ErrCacheMiss = errors.New("cache miss")

type RedisRepo struct {
	client *redis.Client
}

func New(ctx context.Context, addr, pass string, db int) (*RedisRepo, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisRepo{
		client: client,
	}, nil
}

func (r *RedisRepo) Product(ctx context.Context, id uuid.UUID) (models.Product, error) {
	const op = "storage.redis.Product"

	data, err := r.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Product{}, ErrCacheMiss
		}

		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (r *RedisRepo) SetProduct(ctx context.Context, p models.Product, ttl time.Duration) error {
	const op = "storage.redis.SetProduct"

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.client.Set(ctx, productKey(p.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	const op = "storage.redis.DeleteProduct"

	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisRepo) Close() {
	r.client.Close()
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
)

const (
	productKeyPrefix = "product:barcode:"
	productCacheTTL  = 15 * time.Minute
)

// RedisAdapter caches catalog lookups keyed by barcode. A stale entry is
// bounded by the TTL; writes through ProductService invalidate eagerly.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	data, err := r.client.Get(ctx, productKeyPrefix+barcode).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get cached product")
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, errors.Wrap(err, "decode cached product")
	}
	return &product, nil
}

func (r *RedisAdapter) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return errors.Wrap(err, "encode product")
	}
	return r.client.Set(ctx, productKeyPrefix+product.Barcode, data, productCacheTTL).Err()
}

func (r *RedisAdapter) InvalidateProduct(ctx context.Context, barcode string) error {
	return r.client.Del(ctx, productKeyPrefix+barcode).Err()
}

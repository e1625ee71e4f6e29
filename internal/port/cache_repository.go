package port

import (
	"context"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
)

// CacheRepository fronts the product catalog for the barcode-scan hot path.
type CacheRepository interface {
	// GetProduct returns the cached product for a barcode, or (nil, nil) on a miss.
	GetProduct(ctx context.Context, barcode string) (*domain.Product, error)

	SetProduct(ctx context.Context, product *domain.Product) error

	InvalidateProduct(ctx context.Context, barcode string) error
}

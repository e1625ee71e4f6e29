package port

import (
	"context"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
)

type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error

	List(ctx context.Context) ([]domain.Store, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error

	// Update writes the product conditionally on its version and bumps it;
	// a stale version yields domain.ErrVersionConflict.
	Update(ctx context.Context, product *domain.Product) error

	Delete(ctx context.Context, id string) error

	FindByID(ctx context.Context, id string) (*domain.Product, error)

	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)

	List(ctx context.Context) ([]domain.Product, error)

	ListByStore(ctx context.Context, storeID string) ([]domain.Product, error)
}

type InventoryRepository interface {
	// CreateBatch persists newly provisioned serialized units.
	CreateBatch(ctx context.Context, units []domain.InventoryUnit) error

	FindBySerial(ctx context.Context, serialNumber string) (*domain.InventoryUnit, error)

	// MarkSold transitions every unit AVAILABLE -> SOLD with a compare-and-swap
	// on status and version, all inside one transaction. If any unit loses the
	// swap the whole batch is rolled back and domain.ErrVersionConflict is
	// returned: either all units end up SOLD or none do.
	MarkSold(ctx context.Context, units []domain.InventoryUnit) error
}

type CartRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.Cart, error)

	// Upsert saves the cart for its user, creating it if absent.
	Upsert(ctx context.Context, cart *domain.Cart) error

	// Clear empties the cart conditionally on the version the caller observed;
	// a cart modified in between yields domain.ErrVersionConflict.
	Clear(ctx context.Context, cart *domain.Cart) error
}

type OrderRepository interface {
	// Create persists a new order. A non-empty idempotency key that already
	// exists yields domain.ErrDuplicateIdempotencyKey (storage-level unique
	// index, not a read-then-write check).
	Create(ctx context.Context, order *domain.Order) error

	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)

	ListByStore(ctx context.Context, storeID string) ([]domain.Order, error)
}

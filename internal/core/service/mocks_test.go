package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
	"github.com/premsinghsengar10/scan-and-bill/internal/port"
)

var (
	_ port.OrderRepository     = &mockOrderRepo{}
	_ port.CartRepository      = &mockCartRepo{}
	_ port.InventoryRepository = &mockInventoryRepo{}
	_ port.ProductRepository   = &mockProductRepo{}
	_ port.CacheRepository     = &mockCacheRepo{}
)

type mockOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]*domain.Order // by id
	byKey       map[string]*domain.Order
	createCalls int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[string]*domain.Order),
		byKey:  make(map[string]*domain.Order),
	}
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++

	if order.IdempotencyKey != "" {
		if _, exists := m.byKey[order.IdempotencyKey]; exists {
			return domain.ErrDuplicateIdempotencyKey
		}
	}

	stored := cloneOrder(order)
	m.orders[order.ID] = stored
	if order.IdempotencyKey != "" {
		m.byKey[order.IdempotencyKey] = stored
	}
	return nil
}

func (m *mockOrderRepo) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.byKey[key]; ok {
		return cloneOrder(order), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *mockOrderRepo) ListByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []domain.Order
	for _, order := range m.orders {
		if order.StoreID == storeID {
			orders = append(orders, *cloneOrder(order))
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.CartItem(nil), order.Items...)
	return &clone
}

type mockCartRepo struct {
	mu          sync.Mutex
	carts       map[string]*domain.Cart
	upsertCalls int
	clearCalls  int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*domain.Cart)}
}

func (m *mockCartRepo) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[userID]; ok {
		return cloneCart(cart), nil
	}
	return nil, domain.ErrCartNotFound
}

func (m *mockCartRepo) Upsert(ctx context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++

	stored := cloneCart(cart)
	if existing, ok := m.carts[cart.UserID]; ok {
		stored.Version = existing.Version + 1
	}
	m.carts[cart.UserID] = stored
	return nil
}

func (m *mockCartRepo) Clear(ctx context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++

	existing, ok := m.carts[cart.UserID]
	if !ok {
		return domain.ErrCartNotFound
	}
	if existing.Version != cart.Version {
		return domain.ErrVersionConflict
	}
	existing.Items = nil
	existing.TotalAmount = 0
	existing.Version++
	return nil
}

func (m *mockCartRepo) get(userID string) *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[userID]; ok {
		return cloneCart(cart)
	}
	return nil
}

func (m *mockCartRepo) put(cart *domain.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.UserID] = cloneCart(cart)
}

func cloneCart(cart *domain.Cart) *domain.Cart {
	clone := *cart
	clone.Items = append([]domain.CartItem(nil), cart.Items...)
	return &clone
}

type mockInventoryRepo struct {
	mu            sync.Mutex
	units         map[string]*domain.InventoryUnit
	markSoldCalls int
}

func newMockInventoryRepo() *mockInventoryRepo {
	return &mockInventoryRepo{units: make(map[string]*domain.InventoryUnit)}
}

func (m *mockInventoryRepo) put(unit domain.InventoryUnit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := unit
	m.units[unit.SerialNumber] = &stored
}

func (m *mockInventoryRepo) get(serialNumber string) *domain.InventoryUnit {
	m.mu.Lock()
	defer m.mu.Unlock()
	if unit, ok := m.units[serialNumber]; ok {
		clone := *unit
		return &clone
	}
	return nil
}

func (m *mockInventoryRepo) CreateBatch(ctx context.Context, units []domain.InventoryUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, unit := range units {
		stored := unit
		m.units[unit.SerialNumber] = &stored
	}
	return nil
}

func (m *mockInventoryRepo) FindBySerial(ctx context.Context, serialNumber string) (*domain.InventoryUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if unit, ok := m.units[serialNumber]; ok {
		clone := *unit
		return &clone, nil
	}
	return nil, domain.ErrUnitNotFound
}

// MarkSold mirrors the MySQL adapter: every unit must still be AVAILABLE at
// its observed version or the whole batch fails untouched.
func (m *mockInventoryRepo) MarkSold(ctx context.Context, units []domain.InventoryUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markSoldCalls++

	for _, unit := range units {
		stored, ok := m.units[unit.SerialNumber]
		if !ok {
			return errors.Wrapf(domain.ErrVersionConflict, "serial %s", unit.SerialNumber)
		}
		if stored.Status != domain.UnitStatusAvailable || stored.Version != unit.Version {
			return errors.Wrapf(domain.ErrVersionConflict, "serial %s", unit.SerialNumber)
		}
	}
	for _, unit := range units {
		stored := m.units[unit.SerialNumber]
		stored.Status = domain.UnitStatusSold
		stored.Version++
	}
	return nil
}

type mockProductRepo struct {
	mu               sync.Mutex
	products         map[string]*domain.Product // by id
	findBarcodeCalls int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]*domain.Product)}
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Barcode == product.Barcode {
			return domain.ErrDuplicateBarcode
		}
	}
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if existing.Version != product.Version {
		return domain.ErrVersionConflict
	}
	clone := *product
	clone.Version++
	m.products[product.ID] = &clone
	product.Version++
	return nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[id]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductRepo) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findBarcodeCalls++
	for _, product := range m.products {
		if product.Barcode == barcode {
			clone := *product
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []domain.Product
	for _, product := range m.products {
		products = append(products, *product)
	}
	return products, nil
}

func (m *mockProductRepo) ListByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []domain.Product
	for _, product := range m.products {
		if product.StoreID == storeID {
			products = append(products, *product)
		}
	}
	return products, nil
}

type mockCacheRepo struct {
	mu       sync.Mutex
	byBC     map[string]*domain.Product
	getCalls int
	setCalls int
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{byBC: make(map[string]*domain.Product)}
}

func (m *mockCacheRepo) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if product, ok := m.byBC[barcode]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, nil
}

func (m *mockCacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	clone := *product
	m.byBC[product.Barcode] = &clone
	return nil
}

func (m *mockCacheRepo) InvalidateProduct(ctx context.Context, barcode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byBC, barcode)
	return nil
}

func (m *mockCacheRepo) cached(barcode string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byBC[barcode]
	return ok
}

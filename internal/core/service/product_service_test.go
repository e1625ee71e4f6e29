package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
)

func newProductFixture() (*ProductService, *mockProductRepo, *mockInventoryRepo, *mockCacheRepo) {
	products := newMockProductRepo()
	inventory := newMockInventoryRepo()
	cache := newMockCacheRepo()
	svc := NewProductService(products, inventory, cache, testLogger())
	return svc, products, inventory, cache
}

func TestAddProductWithStock(t *testing.T) {
	svc, _, inventory, _ := newProductFixture()

	created, err := svc.AddProductWithStock(context.Background(), &domain.Product{
		Barcode: "A001",
		Name:    "Premium Item 1",
		Price:   30.0,
		StoreID: "s1",
	}, 3)

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	for i := 1; i <= 3; i++ {
		unit := inventory.get(fmt.Sprintf("A001-%03d", i))
		require.NotNil(t, unit, "unit %d must be provisioned", i)
		assert.Equal(t, domain.UnitStatusAvailable, unit.Status)
		assert.Equal(t, "A001", unit.Barcode)
		assert.Equal(t, "s1", unit.StoreID)
	}
	assert.Nil(t, inventory.get("A001-004"))
}

func TestAddProductWithStock_DuplicateBarcode(t *testing.T) {
	svc, _, _, _ := newProductFixture()

	_, err := svc.AddProductWithStock(context.Background(), &domain.Product{Barcode: "A001", StoreID: "s1"}, 1)
	require.NoError(t, err)

	_, err = svc.AddProductWithStock(context.Background(), &domain.Product{Barcode: "A001", StoreID: "s1"}, 1)
	assert.ErrorIs(t, err, domain.ErrDuplicateBarcode)
}

func TestProductByBarcode_ReadThroughCache(t *testing.T) {
	svc, products, _, cache := newProductFixture()
	_, err := svc.AddProductWithStock(context.Background(), &domain.Product{Barcode: "A001", Name: "Item", StoreID: "s1"}, 0)
	require.NoError(t, err)

	// First lookup misses the cache and fills it.
	first, err := svc.ProductByBarcode(context.Background(), "A001")
	require.NoError(t, err)
	assert.True(t, cache.cached("A001"))

	dbCalls := products.findBarcodeCalls

	// Second lookup is served from the cache.
	second, err := svc.ProductByBarcode(context.Background(), "A001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, dbCalls, products.findBarcodeCalls, "cache hit must not reach the database")
}

func TestProductByBarcode_NotFound(t *testing.T) {
	svc, _, _, _ := newProductFixture()

	_, err := svc.ProductByBarcode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	svc, _, _, cache := newProductFixture()
	created, err := svc.AddProductWithStock(context.Background(), &domain.Product{Barcode: "A001", Name: "Old", Price: 10, StoreID: "s1"}, 0)
	require.NoError(t, err)

	_, err = svc.ProductByBarcode(context.Background(), "A001")
	require.NoError(t, err)
	require.True(t, cache.cached("A001"))

	updated, err := svc.UpdateProduct(context.Background(), created.ID, &domain.Product{Name: "New", Price: 15})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, 15.0, updated.Price)
	assert.Equal(t, "A001", updated.Barcode, "barcode is not editable")
	assert.False(t, cache.cached("A001"), "stale cache entry must be dropped")
}

func TestDeleteProduct(t *testing.T) {
	svc, _, _, cache := newProductFixture()
	created, err := svc.AddProductWithStock(context.Background(), &domain.Product{Barcode: "A001", StoreID: "s1"}, 0)
	require.NoError(t, err)
	_, err = svc.ProductByBarcode(context.Background(), "A001")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))

	assert.False(t, cache.cached("A001"))
	err = svc.DeleteProduct(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAddStock(t *testing.T) {
	svc, _, inventory, _ := newProductFixture()
	_, err := svc.AddProductWithStock(context.Background(), &domain.Product{Barcode: "A001", StoreID: "s1"}, 2)
	require.NoError(t, err)

	t.Run("unknown barcode", func(t *testing.T) {
		err := svc.AddStock(context.Background(), "NOPE", 5, "s1")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("restock serials never collide", func(t *testing.T) {
		require.NoError(t, svc.AddStock(context.Background(), "A001", 3, "s1"))

		var restocked int
		for serial, unit := range inventory.units {
			if unit.Barcode != "A001" {
				continue
			}
			if serial != "A001-001" && serial != "A001-002" {
				restocked++
				assert.Contains(t, serial, "A001-ADD-")
				assert.Equal(t, domain.UnitStatusAvailable, unit.Status)
			}
		}
		assert.Equal(t, 3, restocked)
	})
}

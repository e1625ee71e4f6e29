package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
	"github.com/premsinghsengar10/scan-and-bill/internal/port"
)

// ProductService manages the catalog and provisions serialized stock for it.
type ProductService struct {
	products  port.ProductRepository
	inventory port.InventoryRepository
	cache     port.CacheRepository
	log       logrus.FieldLogger
}

func NewProductService(
	products port.ProductRepository,
	inventory port.InventoryRepository,
	cache port.CacheRepository,
	log logrus.FieldLogger,
) *ProductService {
	return &ProductService{
		products:  products,
		inventory: inventory,
		cache:     cache,
		log:       log,
	}
}

// ProductByBarcode is the scan hot path: read-through cache in front of the
// database. Cache failures are logged and fall back to the database.
func (s *ProductService) ProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	cached, err := s.cache.GetProduct(ctx, barcode)
	if err != nil {
		s.log.WithError(err).WithField("barcode", barcode).Warn("product cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	product, err := s.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.log.WithError(err).WithField("barcode", barcode).Warn("product cache write failed")
	}
	return product, nil
}

// List returns the whole catalog, or one store's slice of it when storeID is
// non-empty.
func (s *ProductService) List(ctx context.Context, storeID string) ([]domain.Product, error) {
	if storeID == "" {
		return s.products.List(ctx)
	}
	return s.products.ListByStore(ctx, storeID)
}

// AddProductWithStock creates the product and provisions its initial batch of
// serialized units ("BARCODE-001" ...), all AVAILABLE.
func (s *ProductService) AddProductWithStock(ctx context.Context, product *domain.Product, initialStock int) (*domain.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	if initialStock > 0 {
		units := make([]domain.InventoryUnit, 0, initialStock)
		for i := 1; i <= initialStock; i++ {
			units = append(units, domain.InventoryUnit{
				SerialNumber: fmt.Sprintf("%s-%03d", product.Barcode, i),
				Barcode:      product.Barcode,
				Status:       domain.UnitStatusAvailable,
				StoreID:      product.StoreID,
			})
		}
		if err := s.inventory.CreateBatch(ctx, units); err != nil {
			return nil, err
		}
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"barcode":    product.Barcode,
		"store_id":   product.StoreID,
		"units":      initialStock,
	}).Info("product created with initial stock")

	return product, nil
}

// UpdateProduct applies the editable fields and invalidates the barcode cache.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, details *domain.Product) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = details.Name
	product.Price = details.Price
	product.Category = details.Category
	product.BasePrice = details.BasePrice
	product.TaxRate = details.TaxRate
	product.CostPrice = details.CostPrice
	product.ImageURL = details.ImageURL

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateProduct(ctx, product.Barcode); err != nil {
		s.log.WithError(err).WithField("barcode", product.Barcode).Warn("product cache invalidation failed")
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateProduct(ctx, product.Barcode); err != nil {
		s.log.WithError(err).WithField("barcode", product.Barcode).Warn("product cache invalidation failed")
	}
	return nil
}

// AddStock provisions additional units for an existing product. Restock
// serials carry a timestamp so they never collide with the initial batch.
func (s *ProductService) AddStock(ctx context.Context, barcode string, quantity int, storeID string) error {
	if _, err := s.products.FindByBarcode(ctx, barcode); err != nil {
		return err
	}

	ts := time.Now().UnixMilli()
	units := make([]domain.InventoryUnit, 0, quantity)
	for i := 1; i <= quantity; i++ {
		units = append(units, domain.InventoryUnit{
			SerialNumber: fmt.Sprintf("%s-ADD-%d-%d", barcode, ts, i),
			Barcode:      barcode,
			Status:       domain.UnitStatusAvailable,
			StoreID:      storeID,
		})
	}
	if err := s.inventory.CreateBatch(ctx, units); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"barcode":  barcode,
		"store_id": storeID,
		"units":    quantity,
	}).Info("stock added")
	return nil
}

package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
	"github.com/premsinghsengar10/scan-and-bill/internal/port"
)

// CartService maintains the single active cart per user.
type CartService struct {
	carts     port.CartRepository
	products  port.ProductRepository
	inventory port.InventoryRepository
	log       logrus.FieldLogger
}

func NewCartService(
	carts port.CartRepository,
	products port.ProductRepository,
	inventory port.InventoryRepository,
	log logrus.FieldLogger,
) *CartService {
	return &CartService{
		carts:     carts,
		products:  products,
		inventory: inventory,
		log:       log,
	}
}

func (s *CartService) Cart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.carts.FindByUser(ctx, userID)
}

// AddItem scans one serialized unit into the user's cart: the unit must exist
// and be AVAILABLE, and the line snapshots the product at scan time. Scanning
// a serial that is already in the cart leaves the cart unchanged.
func (s *CartService) AddItem(ctx context.Context, userID, serialNumber string) (*domain.Cart, error) {
	unit, err := s.inventory.FindBySerial(ctx, serialNumber)
	if err != nil {
		return nil, err
	}
	if unit.Status != domain.UnitStatusAvailable {
		return nil, errors.Wrapf(domain.ErrUnitSold, "serial %s", serialNumber)
	}

	product, err := s.products.FindByBarcode(ctx, unit.Barcode)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		cart = &domain.Cart{UserID: userID, StoreID: unit.StoreID}
	} else if err != nil {
		return nil, err
	}

	if cart.HasSerial(serialNumber) {
		return cart, nil
	}

	cart.Items = append(cart.Items, domain.CartItem{
		ProductID:    product.ID,
		Name:         product.Name,
		Price:        product.Price,
		Quantity:     1,
		SerialNumber: serialNumber,
	})
	cart.RecalculateTotal()

	if err := s.carts.Upsert(ctx, cart); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"serial":  serialNumber,
		"total":   cart.TotalAmount,
	}).Debug("item added to cart")
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, serialNumber string) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, item := range cart.Items {
		if item.SerialNumber == serialNumber {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, errors.Wrapf(domain.ErrCartItemNotFound, "serial %s", serialNumber)
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.RecalculateTotal()

	if err := s.carts.Upsert(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

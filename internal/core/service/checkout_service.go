package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
	"github.com/premsinghsengar10/scan-and-bill/internal/port"
)

// CheckoutService converts a user's cart into a paid order exactly once, even
// under request retries, while preventing sale of an already-sold unit.
type CheckoutService struct {
	orders    port.OrderRepository
	carts     port.CartRepository
	inventory port.InventoryRepository
	log       logrus.FieldLogger
}

func NewCheckoutService(
	orders port.OrderRepository,
	carts port.CartRepository,
	inventory port.InventoryRepository,
	log logrus.FieldLogger,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		carts:     carts,
		inventory: inventory,
		log:       log,
	}
}

// Checkout runs the whole purchase as one logical unit of work:
//
//  1. idempotency short-circuit (before any other read or write)
//  2. cart resolution and emptiness check
//  3. per-unit validation, then an all-or-nothing conditional AVAILABLE->SOLD
//     transition
//  4. order creation (idempotency key guarded by a unique index)
//  5. version-conditional cart clearing
//
// Failures are never retried here; the idempotency key makes a verbatim retry
// by the caller safe.
func (s *CheckoutService) Checkout(
	ctx context.Context,
	userID, customerName, customerMobile, storeID, idempotencyKey string,
) (*domain.Order, error) {
	if idempotencyKey != "" {
		existing, err := s.orders.FindByIdempotencyKey(ctx, idempotencyKey)
		if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
			return nil, errors.Wrap(err, "idempotency lookup")
		}
		if existing != nil {
			s.log.WithFields(logrus.Fields{
				"user_id":         userID,
				"order_id":        existing.ID,
				"idempotency_key": idempotencyKey,
			}).Info("checkout replayed, returning existing order")
			return existing, nil
		}
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	units := make([]domain.InventoryUnit, 0, len(cart.Items))
	for _, item := range cart.Items {
		unit, err := s.inventory.FindBySerial(ctx, item.SerialNumber)
		if err != nil {
			return nil, errors.Wrapf(err, "serial %s", item.SerialNumber)
		}
		if unit.Status != domain.UnitStatusAvailable {
			return nil, errors.Wrapf(domain.ErrUnitSold, "serial %s", unit.SerialNumber)
		}
		units = append(units, *unit)
	}

	// The read above is only a pre-check; the transition itself is a
	// compare-and-swap per unit, so a racing checkout for the same serial
	// loses here and the whole batch rolls back.
	if err := s.inventory.MarkSold(ctx, units); err != nil {
		if idempotencyKey != "" && errors.Is(err, domain.ErrVersionConflict) {
			// A retry racing its own earlier attempt lands here once that
			// attempt has sold the units; hand back its order if it exists.
			if winner, lookupErr := s.orders.FindByIdempotencyKey(ctx, idempotencyKey); lookupErr == nil {
				return winner, nil
			}
		}
		return nil, err
	}

	order := &domain.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		StoreID:        storeID,
		CustomerName:   customerName,
		CustomerMobile: customerMobile,
		Items:          append([]domain.CartItem(nil), cart.Items...),
		TotalAmount:    cart.TotalAmount,
		Status:         domain.OrderStatusPaid,
		CreatedAt:      time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if idempotencyKey != "" && errors.Is(err, domain.ErrDuplicateIdempotencyKey) {
			if winner, lookupErr := s.orders.FindByIdempotencyKey(ctx, idempotencyKey); lookupErr == nil {
				return winner, nil
			}
		}
		return nil, errors.Wrap(err, "create order")
	}

	if err := s.carts.Clear(ctx, cart); err != nil {
		// The order is committed and the units are SOLD; a conflicting clear
		// means the cart changed mid-checkout and keeps only the new lines.
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"order_id": order.ID,
		}).Warn("cart not cleared after checkout")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"store_id":     storeID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"items":        len(order.Items),
	}).Info("checkout completed")

	return order, nil
}

// OrdersByStore lists the completed orders of one store. No ordering beyond
// the store filter is guaranteed.
func (s *CheckoutService) OrdersByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	return s.orders.ListByStore(ctx, storeID)
}

// StoreStats is the admin dashboard aggregate for one store.
type StoreStats struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalOrders  int     `json:"totalOrders"`
}

func (s *CheckoutService) StatsByStore(ctx context.Context, storeID string) (*StoreStats, error) {
	orders, err := s.orders.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	stats := &StoreStats{TotalOrders: len(orders)}
	for _, order := range orders {
		stats.TotalRevenue += order.TotalAmount
	}
	return stats, nil
}

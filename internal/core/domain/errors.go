package domain

import "errors"

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrUnitNotFound     = errors.New("inventory unit not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")

	// ErrCartEmpty is returned when an operation needs at least one line item.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrUnitSold means a referenced unit left the AVAILABLE state; the caller
	// should refresh the cart before retrying.
	ErrUnitSold = errors.New("inventory unit already sold")

	// ErrVersionConflict is the optimistic-lock failure for any versioned row.
	ErrVersionConflict = errors.New("row was modified by another transaction")

	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrDuplicateBarcode        = errors.New("barcode already registered")
)

package domain

import "time"

type OrderStatus string

const (
	OrderStatusPaid OrderStatus = "PAID"
)

// Order is the durable record of a completed checkout. It is immutable after
// creation; Items is a copy of the cart lines, not a reference.
type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	StoreID        string      `json:"storeId"`
	CustomerName   string      `json:"customerName"`
	CustomerMobile string      `json:"customerMobile"`
	Items          []CartItem  `json:"items"`
	TotalAmount    float64     `json:"totalAmount"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
	// IdempotencyKey, when non-empty, maps to at most one order ever created.
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

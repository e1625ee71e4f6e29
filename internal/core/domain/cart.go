package domain

// CartItem is a denormalized snapshot of the product at the time the unit was
// scanned into the cart. Quantity is always 1 for serialized stock.
type CartItem struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	SerialNumber string  `json:"serialNumber"`
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart holds the active line items for one user. There is exactly one cart per
// user id (upsert semantics).
type Cart struct {
	UserID      string     `json:"userId"`
	StoreID     string     `json:"storeId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	Version     int        `json:"-"`
}

// RecalculateTotal restores the invariant that TotalAmount equals the sum of
// the line totals.
func (c *Cart) RecalculateTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	c.TotalAmount = total
}

func (c *Cart) HasSerial(serialNumber string) bool {
	for _, item := range c.Items {
		if item.SerialNumber == serialNumber {
			return true
		}
	}
	return false
}

package domain

type Product struct {
	ID       string  `db:"id" json:"id"`
	Barcode  string  `db:"barcode" json:"barcode"`
	Name     string  `db:"name" json:"name"`
	Price    float64 `db:"price" json:"price"`
	Category string  `db:"category" json:"category"`
	ImageURL string  `db:"image_url" json:"imageUrl"`
	// BasePrice is the pre-discount shelf price shown next to Price.
	BasePrice float64 `db:"base_price" json:"basePrice"`
	StoreID   string  `db:"store_id" json:"storeId"`
	TaxRate   float64 `db:"tax_rate" json:"taxRate"`
	CostPrice float64 `db:"cost_price" json:"costPrice"`
	Version   int     `db:"version" json:"-"`
}

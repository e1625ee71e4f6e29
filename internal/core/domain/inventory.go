package domain

// UnitStatus is the sale state of one serialized unit. A unit only ever moves
// AVAILABLE -> SOLD, and only through a version-checked conditional write.
type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "AVAILABLE"
	UnitStatusSold      UnitStatus = "SOLD"
)

// InventoryUnit is one physical, individually serialized item of stock.
type InventoryUnit struct {
	SerialNumber string     `db:"serial_number" json:"serialNumber"`
	Barcode      string     `db:"barcode" json:"barcode"`
	Status       UnitStatus `db:"status" json:"status"`
	StoreID      string     `db:"store_id" json:"storeId"`
	Version      int        `db:"version" json:"-"`
}

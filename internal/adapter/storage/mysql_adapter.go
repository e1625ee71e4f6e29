package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
)

const mysqlErrDuplicateEntry = 1062

// MySQLAdapter implements every database port over one connection pool.
type MySQLAdapter struct {
	db *sqlx.DB
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// ---- stores ----

type StoreRepo struct {
	*MySQLAdapter
}

// Stores exposes the store repository view of the adapter.
func (m *MySQLAdapter) Stores() *StoreRepo {
	return &StoreRepo{m}
}

func (s *StoreRepo) Create(ctx context.Context, store *domain.Store) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stores (id, name, location) VALUES (?, ?, ?)`,
		store.ID, store.Name, store.Location,
	)
	return errors.Wrap(err, "insert store")
}

func (s *StoreRepo) List(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store
	err := s.db.SelectContext(ctx, &stores, `SELECT id, name, location FROM stores`)
	return stores, errors.Wrap(err, "select stores")
}

// ---- products ----

type ProductRepo struct {
	*MySQLAdapter
}

func (m *MySQLAdapter) Products() *ProductRepo {
	return &ProductRepo{m}
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO products
			(id, barcode, name, price, category, image_url, base_price, store_id, tax_rate, cost_price, version)
		VALUES
			(:id, :barcode, :name, :price, :category, :image_url, :base_price, :store_id, :tax_rate, :cost_price, 0)`,
		product,
	)
	if isDuplicateEntry(err) {
		return domain.ErrDuplicateBarcode
	}
	return errors.Wrap(err, "insert product")
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) error {
	result, err := p.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, price = ?, category = ?, image_url = ?, base_price = ?,
			tax_rate = ?, cost_price = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		product.Name, product.Price, product.Category, product.ImageURL,
		product.BasePrice, product.TaxRate, product.CostPrice,
		product.ID, product.Version,
	)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrVersionConflict
	}
	product.Version++
	return nil
}

func (p *ProductRepo) Delete(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (p *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := p.db.GetContext(ctx, &product, `SELECT * FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	return &product, nil
}

func (p *ProductRepo) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var product domain.Product
	err := p.db.GetContext(ctx, &product, `SELECT * FROM products WHERE barcode = ?`, barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	return &product, nil
}

func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := p.db.SelectContext(ctx, &products, `SELECT * FROM products`)
	return products, errors.Wrap(err, "select products")
}

func (p *ProductRepo) ListByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	var products []domain.Product
	err := p.db.SelectContext(ctx, &products, `SELECT * FROM products WHERE store_id = ?`, storeID)
	return products, errors.Wrap(err, "select products")
}

// ---- inventory units ----

type InventoryRepo struct {
	*MySQLAdapter
}

func (m *MySQLAdapter) Inventory() *InventoryRepo {
	return &InventoryRepo{m}
}

func (i *InventoryRepo) CreateBatch(ctx context.Context, units []domain.InventoryUnit) error {
	if len(units) == 0 {
		return nil
	}
	_, err := i.db.NamedExecContext(ctx, `
		INSERT INTO inventory_units (serial_number, barcode, status, store_id, version)
		VALUES (:serial_number, :barcode, :status, :store_id, 0)`,
		units,
	)
	return errors.Wrap(err, "insert inventory units")
}

func (i *InventoryRepo) FindBySerial(ctx context.Context, serialNumber string) (*domain.InventoryUnit, error) {
	var unit domain.InventoryUnit
	err := i.db.GetContext(ctx, &unit,
		`SELECT * FROM inventory_units WHERE serial_number = ?`, serialNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnitNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select inventory unit")
	}
	return &unit, nil
}

// MarkSold runs one conditional update per unit inside a single transaction.
// Any unit that lost its version or is no longer AVAILABLE aborts the whole
// batch, so no unit is left SOLD by a failed checkout.
func (i *InventoryRepo) MarkSold(ctx context.Context, units []domain.InventoryUnit) error {
	tx, err := i.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	for _, unit := range units {
		result, err := tx.ExecContext(ctx, `
			UPDATE inventory_units
			SET status = ?, version = version + 1
			WHERE serial_number = ? AND status = ? AND version = ?`,
			domain.UnitStatusSold, unit.SerialNumber, domain.UnitStatusAvailable, unit.Version,
		)
		if err != nil {
			return errors.Wrapf(err, "mark sold %s", unit.SerialNumber)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return errors.Wrapf(domain.ErrVersionConflict, "serial %s", unit.SerialNumber)
		}
	}

	return errors.Wrap(tx.Commit(), "commit mark sold")
}

// ---- carts ----

type CartRepo struct {
	*MySQLAdapter
}

func (m *MySQLAdapter) Carts() *CartRepo {
	return &CartRepo{m}
}

type cartRow struct {
	UserID      string  `db:"user_id"`
	StoreID     string  `db:"store_id"`
	Items       []byte  `db:"items"`
	TotalAmount float64 `db:"total_amount"`
	Version     int     `db:"version"`
}

func (c *CartRepo) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var row cartRow
	err := c.db.GetContext(ctx, &row, `SELECT * FROM carts WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select cart")
	}

	cart := &domain.Cart{
		UserID:      row.UserID,
		StoreID:     row.StoreID,
		TotalAmount: row.TotalAmount,
		Version:     row.Version,
	}
	if err := json.Unmarshal(row.Items, &cart.Items); err != nil {
		return nil, errors.Wrap(err, "decode cart items")
	}
	return cart, nil
}

func (c *CartRepo) Upsert(ctx context.Context, cart *domain.Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return errors.Wrap(err, "encode cart items")
	}
	if cart.Items == nil {
		items = []byte("[]")
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, store_id, items, total_amount, version)
		VALUES (?, ?, ?, ?, 0)
		ON DUPLICATE KEY UPDATE
			store_id = VALUES(store_id),
			items = VALUES(items),
			total_amount = VALUES(total_amount),
			version = version + 1`,
		cart.UserID, cart.StoreID, items, cart.TotalAmount,
	)
	return errors.Wrap(err, "upsert cart")
}

// Clear empties the cart only if it still has the version the caller read, so
// a checkout never wipes lines scanned in after its cart snapshot.
func (c *CartRepo) Clear(ctx context.Context, cart *domain.Cart) error {
	result, err := c.db.ExecContext(ctx, `
		UPDATE carts
		SET items = '[]', total_amount = 0, version = version + 1
		WHERE user_id = ? AND version = ?`,
		cart.UserID, cart.Version,
	)
	if err != nil {
		return errors.Wrap(err, "clear cart")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// ---- orders ----

type OrderRepo struct {
	*MySQLAdapter
}

func (m *MySQLAdapter) Orders() *OrderRepo {
	return &OrderRepo{m}
}

type orderRow struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	StoreID        string         `db:"store_id"`
	CustomerName   string         `db:"customer_name"`
	CustomerMobile string         `db:"customer_mobile"`
	Items          []byte         `db:"items"`
	TotalAmount    float64        `db:"total_amount"`
	Status         string         `db:"status"`
	CreatedAt      sql.NullTime   `db:"created_at"`
	IdempotencyKey sql.NullString `db:"idempotency_key"`
}

func (r orderRow) toDomain() (*domain.Order, error) {
	order := &domain.Order{
		ID:             r.ID,
		UserID:         r.UserID,
		StoreID:        r.StoreID,
		CustomerName:   r.CustomerName,
		CustomerMobile: r.CustomerMobile,
		TotalAmount:    r.TotalAmount,
		Status:         domain.OrderStatus(r.Status),
		CreatedAt:      r.CreatedAt.Time,
		IdempotencyKey: r.IdempotencyKey.String,
	}
	if err := json.Unmarshal(r.Items, &order.Items); err != nil {
		return nil, errors.Wrap(err, "decode order items")
	}
	return order, nil
}

func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return errors.Wrap(err, "encode order items")
	}

	// Empty keys insert as NULL so the unique index only constrains real keys.
	key := sql.NullString{String: order.IdempotencyKey, Valid: order.IdempotencyKey != ""}

	_, err = o.db.ExecContext(ctx, `
		INSERT INTO orders
			(id, user_id, store_id, customer_name, customer_mobile, items, total_amount, status, created_at, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.StoreID, order.CustomerName, order.CustomerMobile,
		items, order.TotalAmount, order.Status, order.CreatedAt, key,
	)
	if isDuplicateEntry(err) {
		return domain.ErrDuplicateIdempotencyKey
	}
	return errors.Wrap(err, "insert order")
}

func (o *OrderRepo) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	var row orderRow
	err := o.db.GetContext(ctx, &row, `SELECT * FROM orders WHERE idempotency_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return row.toDomain()
}

func (o *OrderRepo) ListByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	var rows []orderRow
	err := o.db.SelectContext(ctx, &rows, `SELECT * FROM orders WHERE store_id = ?`, storeID)
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}

// Command seed wipes the database and provisions a demo multi-store ecosystem:
// three stores, 25 products each, ten serialized units per product.
package main

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/premsinghsengar10/scan-and-bill/internal/adapter/storage"
	"github.com/premsinghsengar10/scan-and-bill/internal/config"
	"github.com/premsinghsengar10/scan-and-bill/internal/core/domain"
)

const (
	productsPerStore = 25
	unitsPerProduct  = 10
)

var storeConfigs = []struct {
	name     string
	location string
	prefix   string
}{
	{"Alpha Digital", "Metropolis Hub", "A"},
	{"Beta Boutique", "Neo Tokyo", "B"},
	{"Gamma Grocery", "Cyber City", "G"},
}

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	ctx := context.Background()
	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("connect mysql")
	}
	defer db.Close()

	if err := seed(ctx, db, log); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
	log.Info("ecosystem provisioning complete")
}

func seed(ctx context.Context, db *sqlx.DB, log *logrus.Logger) error {
	log.Info("wiping existing data")
	for _, table := range []string{"orders", "carts", "inventory_units", "products", "stores"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	adapter := storage.NewMySQLAdapter(db)
	stores := adapter.Stores()
	products := adapter.Products()
	inventory := adapter.Inventory()

	for _, sc := range storeConfigs {
		store := &domain.Store{ID: uuid.NewString(), Name: sc.name, Location: sc.location}
		if err := stores.Create(ctx, store); err != nil {
			return err
		}

		for i := 1; i <= productsPerStore; i++ {
			category := categoryFor(i)
			product := &domain.Product{
				ID:        uuid.NewString(),
				Barcode:   fmt.Sprintf("%s%03d", sc.prefix, i),
				Name:      fmt.Sprintf("%s Premium Item %d", sc.name, i),
				Price:     20.0 + float64(i)*10,
				Category:  category,
				ImageURL:  imageURLFor(category),
				BasePrice: 10.0 + float64(i)*5,
				StoreID:   store.ID,
				TaxRate:   18.0,
				CostPrice: 10.0 + float64(i)*5,
			}
			if err := products.Create(ctx, product); err != nil {
				return err
			}

			units := make([]domain.InventoryUnit, 0, unitsPerProduct)
			for u := 1; u <= unitsPerProduct; u++ {
				units = append(units, domain.InventoryUnit{
					SerialNumber: fmt.Sprintf("%s-%03d", product.Barcode, u),
					Barcode:      product.Barcode,
					Status:       domain.UnitStatusAvailable,
					StoreID:      store.ID,
				})
			}
			if err := inventory.CreateBatch(ctx, units); err != nil {
				return err
			}
		}

		log.WithFields(logrus.Fields{
			"store":    sc.name,
			"products": productsPerStore,
			"units":    productsPerStore * unitsPerProduct,
		}).Info("store provisioned")
	}
	return nil
}

func categoryFor(i int) string {
	switch {
	case i <= 5:
		return "Electronics"
	case i <= 10:
		return "Apparel"
	case i <= 15:
		return "Home"
	case i <= 20:
		return "Stationery"
	default:
		return "Accessories"
	}
}

func imageURLFor(category string) string {
	switch category {
	case "Electronics":
		return "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=400"
	case "Apparel":
		return "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400"
	case "Home":
		return "https://images.unsplash.com/photo-1534073828943-f801091bb18c?w=400"
	case "Stationery":
		return "https://images.unsplash.com/photo-1583485088034-697b5bc54ccd?w=400"
	default:
		return "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400"
	}
}

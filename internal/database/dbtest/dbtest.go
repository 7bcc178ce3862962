// Package dbtest opens a migrated SQLite database for tests and seeds fixtures.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/database"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func New(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := database.Open(&database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "shop.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

type Variant struct {
	Color    string
	Size     string
	Quantity int
}

// SeedProduct inserts a product with its variants and returns it as stored.
func SeedProduct(t testing.TB, db *sqlx.DB, name string, category model.Category, selling, cost float64, variants ...Variant) *model.Product {
	t.Helper()

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ModelName:    name,
		Category:     category,
		SellingPrice: selling,
		CostPrice:    cost,
	}
	_, err := db.Exec(db.Rebind(`INSERT INTO products (id, model_name, category, selling_price, cost_price, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.ModelName, p.Category, p.SellingPrice, p.CostPrice, nil, now, now)
	require.NoError(t, err)

	for _, v := range variants {
		pv := model.ProductVariant{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			ProductID: p.ID,
			Color:     v.Color,
			Size:      v.Size,
			Quantity:  v.Quantity,
		}
		_, err := db.Exec(db.Rebind(`INSERT INTO product_variants (id, product_id, color, size, quantity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			pv.ID, pv.ProductID, pv.Color, pv.Size, pv.Quantity, now, now)
		require.NoError(t, err)
		p.Variants = append(p.Variants, pv)
		p.TotalStock += pv.Quantity
	}
	return p
}

func VariantQuantity(t testing.TB, db *sqlx.DB, variantID string) int {
	t.Helper()
	var q int
	require.NoError(t, db.Get(&q, db.Rebind(`SELECT quantity FROM product_variants WHERE id = ?`), variantID))
	return q
}

func Count(t testing.TB, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

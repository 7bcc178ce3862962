package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		model_name TEXT NOT NULL CHECK (model_name <> ''),
		category TEXT NOT NULL CHECK (category IN ('T-Shirt', 'Pants', 'Shoes')),
		selling_price NUMERIC(12,2) NOT NULL CHECK (selling_price >= 0),
		cost_price NUMERIC(12,2) NOT NULL CHECK (cost_price >= 0),
		image TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_variants (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		color TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		total_amount NUMERIC(12,2) NOT NULL,
		total_cost NUMERIC(12,2) NOT NULL,
		total_profit NUMERIC(12,2) NOT NULL,
		items_count INTEGER NOT NULL,
		notes TEXT,
		firstname TEXT,
		familyname TEXT,
		contact_phone TEXT,
		address TEXT,
		to_wilaya_name TEXT,
		to_commune_name TEXT,
		is_stopdesk BOOLEAN NOT NULL DEFAULT FALSE,
		yalidine_price NUMERIC(12,2),
		yalidine_tracking TEXT,
		yalidine_status TEXT,
		yalidine_label TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		variant_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		variant_info TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		selling_price NUMERIC(12,2) NOT NULL,
		cost_price NUMERIC(12,2) NOT NULL,
		line_total NUMERIC(12,2) NOT NULL,
		line_cost NUMERIC(12,2) NOT NULL,
		line_profit NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		variant_id TEXT NOT NULL,
		movement_type TEXT NOT NULL,
		quantity_change INTEGER NOT NULL,
		quantity_before INTEGER NOT NULL,
		quantity_after INTEGER NOT NULL,
		reference_type TEXT,
		reference_id TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		model_name TEXT NOT NULL CHECK (model_name <> ''),
		category TEXT NOT NULL CHECK (category IN ('T-Shirt', 'Pants', 'Shoes')),
		selling_price REAL NOT NULL CHECK (selling_price >= 0),
		cost_price REAL NOT NULL CHECK (cost_price >= 0),
		image TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_variants (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		color TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		total_amount REAL NOT NULL,
		total_cost REAL NOT NULL,
		total_profit REAL NOT NULL,
		items_count INTEGER NOT NULL,
		notes TEXT,
		firstname TEXT,
		familyname TEXT,
		contact_phone TEXT,
		address TEXT,
		to_wilaya_name TEXT,
		to_commune_name TEXT,
		is_stopdesk BOOLEAN NOT NULL DEFAULT 0,
		yalidine_price REAL,
		yalidine_tracking TEXT,
		yalidine_status TEXT,
		yalidine_label TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL,
		variant_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		variant_info TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		selling_price REAL NOT NULL,
		cost_price REAL NOT NULL,
		line_total REAL NOT NULL,
		line_cost REAL NOT NULL,
		line_profit REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		variant_id TEXT NOT NULL,
		movement_type TEXT NOT NULL,
		quantity_change INTEGER NOT NULL,
		quantity_before INTEGER NOT NULL,
		quantity_after INTEGER NOT NULL,
		reference_type TEXT,
		reference_id TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_variants_product ON product_variants(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_variant ON stock_movements(variant_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if IsPostgres(db.DriverName()) {
		schema = postgresSchema
	}

	for _, stmt := range append(schema, indexes...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) OrderTotals(ctx context.Context, from, to time.Time) ([]model.OrderTotalsRow, error) {
	query := r.DB.Rebind(`
        SELECT created_at, total_amount, total_cost, total_profit
        FROM orders
        WHERE created_at >= ? AND created_at < ?
        ORDER BY created_at ASC
    `)
	rows := []model.OrderTotalsRow{}
	if err := r.DB.SelectContext(ctx, &rows, query, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SQLRepository) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var count int
	query := r.DB.Rebind(`SELECT COUNT(*) FROM product_variants WHERE quantity <= ?`)
	if err := r.DB.GetContext(ctx, &count, query, threshold); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SQLRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SQLRepository) StockValue(ctx context.Context) (float64, float64, error) {
	var row struct {
		Cost    float64 `db:"cost_value"`
		Selling float64 `db:"selling_value"`
	}
	query := `
        SELECT
            COALESCE(SUM(v.quantity * p.cost_price), 0) AS cost_value,
            COALESCE(SUM(v.quantity * p.selling_price), 0) AS selling_value
        FROM product_variants v
        JOIN products p ON p.id = v.product_id
    `
	if err := r.DB.GetContext(ctx, &row, query); err != nil {
		return 0, 0, err
	}
	return row.Cost, row.Selling, nil
}

func (r *SQLRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]model.TopProduct, error) {
	query := r.DB.Rebind(`
        SELECT
            oi.product_id,
            oi.product_name,
            SUM(oi.quantity) AS total_quantity,
            SUM(oi.line_total) AS total_revenue,
            SUM(oi.line_profit) AS total_profit
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.created_at >= ? AND o.created_at < ?
        GROUP BY oi.product_id, oi.product_name
        ORDER BY total_quantity DESC, total_revenue DESC, oi.product_id
        LIMIT ?
    `)
	products := []model.TopProduct{}
	if err := r.DB.SelectContext(ctx, &products, query, from.UTC(), to.UTC(), limit); err != nil {
		return nil, err
	}
	return products, nil
}

// SalesByCategory joins items to their current product; items of deleted
// products are left out.
func (r *SQLRepository) SalesByCategory(ctx context.Context, from, to time.Time) ([]model.CategorySales, error) {
	query := r.DB.Rebind(`
        SELECT
            p.category,
            SUM(oi.quantity) AS total_quantity,
            SUM(oi.line_total) AS total_revenue,
            SUM(oi.line_profit) AS total_profit
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        JOIN products p ON p.id = oi.product_id
        WHERE o.created_at >= ? AND o.created_at < ?
        GROUP BY p.category
        ORDER BY total_revenue DESC, p.category
    `)
	sales := []model.CategorySales{}
	if err := r.DB.SelectContext(ctx, &sales, query, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	return sales, nil
}

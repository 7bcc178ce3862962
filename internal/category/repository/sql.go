package repository

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Summaries(ctx context.Context) ([]model.CategorySummary, error) {
	query := `
        SELECT
            p.category,
            COUNT(DISTINCT p.id) AS product_count,
            COALESCE(SUM(v.quantity), 0) AS total_stock
        FROM products p
        LEFT JOIN product_variants v ON v.product_id = p.id
        GROUP BY p.category
        ORDER BY p.category
    `
	summaries := []model.CategorySummary{}
	if err := r.DB.SelectContext(ctx, &summaries, query); err != nil {
		return nil, err
	}
	return summaries, nil
}

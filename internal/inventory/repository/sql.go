package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/database"
	"github.com/fekuna/omnipos-shop-service/internal/inventory"
	"github.com/fekuna/omnipos-shop-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) AdjustStockWithMovement(ctx context.Context, variantID string, apply inventory.ApplyFunc) (*model.StockMovement, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
        SELECT v.*, p.model_name, p.category
        FROM product_variants v
        JOIN products p ON p.id = v.product_id
        WHERE v.id = ?`
	if database.IsPostgres(tx.DriverName()) {
		query += ` FOR UPDATE OF v`
	}

	var v model.VariantDetail
	if err := tx.GetContext(ctx, &v, tx.Rebind(query), variantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("variant_not_found", variantID, "variant not found")
		}
		return nil, err
	}

	m, err := apply(&v)
	if err != nil {
		return nil, err
	}

	update := tx.Rebind(`UPDATE product_variants SET quantity = ?, updated_at = ? WHERE id = ?`)
	if _, err := tx.ExecContext(ctx, update, m.QuantityAfter, m.CreatedAt, v.ID); err != nil {
		return nil, fmt.Errorf("update variant quantity: %w", err)
	}

	insert := `
        INSERT INTO stock_movements (
            id, product_id, variant_id, movement_type, quantity_change, quantity_before,
            quantity_after, reference_type, reference_id, notes, created_at
        )
        VALUES (
            :id, :product_id, :variant_id, :movement_type, :quantity_change, :quantity_before,
            :quantity_after, :reference_type, :reference_id, :notes, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insert, m); err != nil {
		return nil, fmt.Errorf("log stock movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *SQLRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = ?")
		args = append(args, f.ProductID)
	}
	if f.VariantID != "" {
		conditions = append(conditions, "variant_id = ?")
		args = append(args, f.VariantID)
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = ?")
		args = append(args, f.MovementType)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind("SELECT count(*) FROM stock_movements"+whereClause), args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	items := []model.StockMovement{}
	if err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(query), args...); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

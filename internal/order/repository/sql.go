package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/database"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/order"
	"github.com/fekuna/omnipos-shop-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.From != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, *f.To)
	}

	query := "SELECT * FROM orders"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	orders := []model.Order{}
	if err := r.DB.SelectContext(ctx, &orders, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := r.DB.GetContext(ctx, &o, r.DB.Rebind(`SELECT * FROM orders WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items := []model.OrderItem{}
	query := r.DB.Rebind(`SELECT * FROM order_items WHERE order_id = ? ORDER BY created_at, id`)
	if err := r.DB.SelectContext(ctx, &items, query, id); err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *SQLRepository) UpdateShipment(ctx context.Context, id string, out *model.ShipmentOutcome) error {
	query := r.DB.Rebind(`
        UPDATE orders
        SET yalidine_tracking = ?, yalidine_status = ?, yalidine_label = ?
        WHERE id = ?
    `)
	res, err := r.DB.ExecContext(ctx, query, out.Tracking, out.Status, out.Label, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("order_not_found", id, "order not found")
	}
	return nil
}

func (r *SQLRepository) RunInTx(ctx context.Context, fn func(tx order.TxRepository) error) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&txRepository{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type txRepository struct {
	tx *sqlx.Tx
}

func (t *txRepository) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	var p model.Product
	if err := t.tx.GetContext(ctx, &p, t.tx.Rebind(`SELECT * FROM products WHERE id = ?`), productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (t *txRepository) GetVariantForUpdate(ctx context.Context, productID, variantID string) (*model.ProductVariant, error) {
	query := `SELECT * FROM product_variants WHERE id = ?`
	args := []interface{}{variantID}
	if productID != "" {
		query += ` AND product_id = ?`
		args = append(args, productID)
	}
	query += database.ForUpdate(t.tx.DriverName())

	var v model.ProductVariant
	if err := t.tx.GetContext(ctx, &v, t.tx.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (t *txRepository) DecrementStock(ctx context.Context, variantID string, qty int, at time.Time) (bool, error) {
	query := t.tx.Rebind(`
        UPDATE product_variants
        SET quantity = quantity - ?, updated_at = ?
        WHERE id = ? AND quantity >= ?
    `)
	return t.execAffected(ctx, query, qty, at, variantID, qty)
}

func (t *txRepository) IncrementStock(ctx context.Context, variantID string, qty int, at time.Time) (bool, error) {
	query := t.tx.Rebind(`
        UPDATE product_variants
        SET quantity = quantity + ?, updated_at = ?
        WHERE id = ?
    `)
	return t.execAffected(ctx, query, qty, at, variantID)
}

func (t *txRepository) LockOrder(ctx context.Context, orderID string) (bool, error) {
	var id string
	query := t.tx.Rebind(`SELECT id FROM orders WHERE id = ?` + database.ForUpdate(t.tx.DriverName()))
	if err := t.tx.GetContext(ctx, &id, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (t *txRepository) InsertOrder(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, order_number, total_amount, total_cost, total_profit, items_count, notes,
            firstname, familyname, contact_phone, address, to_wilaya_name, to_commune_name,
            is_stopdesk, yalidine_price, created_at
        )
        VALUES (
            :id, :order_number, :total_amount, :total_cost, :total_profit, :items_count, :notes,
            :firstname, :familyname, :contact_phone, :address, :to_wilaya_name, :to_commune_name,
            :is_stopdesk, :yalidine_price, :created_at
        )
    `
	if _, err := t.tx.NamedExecContext(ctx, query, o); err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("order_number_conflict", "order number "+o.OrderNumber+" already exists", err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (t *txRepository) InsertItems(ctx context.Context, items []model.OrderItem) error {
	query := `
        INSERT INTO order_items (
            id, order_id, product_id, variant_id, product_name, variant_info, quantity,
            selling_price, cost_price, line_total, line_cost, line_profit, created_at
        )
        VALUES (
            :id, :order_id, :product_id, :variant_id, :product_name, :variant_info, :quantity,
            :selling_price, :cost_price, :line_total, :line_cost, :line_profit, :created_at
        )
    `
	for i := range items {
		if _, err := t.tx.NamedExecContext(ctx, query, &items[i]); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (t *txRepository) GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	query := t.tx.Rebind(`SELECT * FROM order_items WHERE order_id = ? ORDER BY created_at, id`)
	if err := t.tx.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

func (t *txRepository) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(`DELETE FROM order_items WHERE order_id = ?`), orderID); err != nil {
		return false, fmt.Errorf("delete order items: %w", err)
	}
	return t.execAffected(ctx, t.tx.Rebind(`DELETE FROM orders WHERE id = ?`), orderID)
}

func (t *txRepository) InsertMovements(ctx context.Context, movements []model.StockMovement) error {
	query := `
        INSERT INTO stock_movements (
            id, product_id, variant_id, movement_type, quantity_change, quantity_before,
            quantity_after, reference_type, reference_id, notes, created_at
        )
        VALUES (
            :id, :product_id, :variant_id, :movement_type, :quantity_change, :quantity_before,
            :quantity_after, :reference_type, :reference_id, :notes, :created_at
        )
    `
	for i := range movements {
		if _, err := t.tx.NamedExecContext(ctx, query, &movements[i]); err != nil {
			return fmt.Errorf("insert stock movement: %w", err)
		}
	}
	return nil
}

func (t *txRepository) execAffected(ctx context.Context, query string, args ...interface{}) (bool, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/product/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const productColumns = `p.*, COALESCE((SELECT SUM(v.quantity) FROM product_variants v WHERE v.product_id = p.id), 0) AS total_stock`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO products (id, model_name, category, selling_price, cost_price, image, created_at, updated_at)
        VALUES (:id, :model_name, :category, :selling_price, :cost_price, :image, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	for i := range p.Variants {
		if err := insertVariant(ctx, tx, &p.Variants[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertVariant(ctx context.Context, tx *sqlx.Tx, v *model.ProductVariant) error {
	query := `
        INSERT INTO product_variants (id, product_id, color, size, quantity, created_at, updated_at)
        VALUES (:id, :product_id, :color, :size, :quantity, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, v); err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products p WHERE p.id = ?`)
	if err := r.DB.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	products := []model.Product{p}
	if err := r.attachVariants(ctx, products, false); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "p.category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		conditions = append(conditions, "LOWER(p.model_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Search)+"%")
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []model.Product{}, nil
		}
		conditions = append(conditions, "p.id IN (?)")
		args = append(args, f.IDs)
	}

	query := `SELECT ` + productColumns + ` FROM products p`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(query), args...); err != nil {
		return nil, err
	}
	if err := r.attachVariants(ctx, products, false); err != nil {
		return nil, err
	}
	return products, nil
}

// attachVariants loads variants for all products in one query.
func (r *SQLRepository) attachVariants(ctx context.Context, products []model.Product, inStockOnly bool) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	base := `SELECT * FROM product_variants WHERE product_id IN (?)`
	if inStockOnly {
		base += ` AND quantity > 0`
	}
	base += ` ORDER BY color, size`

	query, args, err := sqlx.In(base, ids)
	if err != nil {
		return err
	}

	var variants []model.ProductVariant
	if err := r.DB.SelectContext(ctx, &variants, r.DB.Rebind(query), args...); err != nil {
		return err
	}

	byProduct := make(map[string][]model.ProductVariant, len(products))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
		if products[i].Variants == nil {
			products[i].Variants = []model.ProductVariant{}
		}
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Product, syncVariants bool) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := tx.Rebind(`
        UPDATE products
        SET model_name = ?,
            category = ?,
            selling_price = ?,
            cost_price = ?,
            image = COALESCE(?, image),
            updated_at = ?
        WHERE id = ?
    `)
	if _, err := tx.ExecContext(ctx, query, p.ModelName, p.Category, p.SellingPrice, p.CostPrice, p.Image, p.UpdatedAt, p.ID); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if syncVariants {
		if err := syncProductVariants(ctx, tx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func syncProductVariants(ctx context.Context, tx *sqlx.Tx, p *model.Product) error {
	keep := []string{}
	for _, v := range p.Variants {
		if v.ID != "" {
			keep = append(keep, v.ID)
		}
	}

	if len(keep) == 0 {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM product_variants WHERE product_id = ?`), p.ID); err != nil {
			return fmt.Errorf("delete variants: %w", err)
		}
	} else {
		query, args, err := sqlx.In(`DELETE FROM product_variants WHERE product_id = ? AND id NOT IN (?)`, p.ID, keep)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("delete variants: %w", err)
		}
	}

	update := tx.Rebind(`
        UPDATE product_variants
        SET color = ?, size = ?, quantity = ?, updated_at = ?
        WHERE id = ? AND product_id = ?
    `)
	for i := range p.Variants {
		v := &p.Variants[i]
		v.ProductID = p.ID
		if v.ID != "" {
			res, err := tx.ExecContext(ctx, update, v.Color, v.Size, v.Quantity, v.UpdatedAt, v.ID, p.ID)
			if err != nil {
				return fmt.Errorf("update variant: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n > 0 {
				continue
			}
		}
		// unknown id: store as a new variant
		v.ID = uuid.New().String()
		if err := insertVariant(ctx, tx, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLRepository) ListLowStock(ctx context.Context, threshold int) ([]model.VariantDetail, error) {
	query := r.DB.Rebind(`
        SELECT v.*, p.model_name, p.category
        FROM product_variants v
        JOIN products p ON p.id = v.product_id
        WHERE v.quantity <= ?
        ORDER BY v.quantity ASC, p.model_name, v.color, v.size
    `)
	items := []model.VariantDetail{}
	if err := r.DB.SelectContext(ctx, &items, query, threshold); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SQLRepository) ListForOrder(ctx context.Context) ([]model.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products p
        WHERE EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND v.quantity > 0)
        ORDER BY p.model_name, p.id
    `
	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}
	if err := r.attachVariants(ctx, products, true); err != nil {
		return nil, err
	}
	return products, nil
}

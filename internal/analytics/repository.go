package analytics

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/model"
)

// Repository reads committed order and stock data. Time bounds are
// half-open: from inclusive, to exclusive.
type Repository interface {
	OrderTotals(ctx context.Context, from, to time.Time) ([]model.OrderTotalsRow, error)
	CountLowStock(ctx context.Context, threshold int) (int, error)
	CountProducts(ctx context.Context) (int, error)
	// StockValue is the on-hand quantity valued at cost and at selling price.
	StockValue(ctx context.Context) (cost, selling float64, err error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]model.TopProduct, error)
	SalesByCategory(ctx context.Context, from, to time.Time) ([]model.CategorySales, error)
}

package inventory

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-shop-service/internal/model"
)

// ApplyFunc inspects the locked variant and returns the movement to record.
// The variant's quantity is set to the movement's QuantityAfter.
type ApplyFunc func(v *model.VariantDetail) (*model.StockMovement, error)

type Repository interface {
	// AdjustStockWithMovement locks the variant row, runs apply and persists
	// the new quantity with its movement in one transaction.
	AdjustStockWithMovement(ctx context.Context, variantID string, apply ApplyFunc) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}

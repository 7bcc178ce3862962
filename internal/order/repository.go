package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/order/dto"
)

type Repository interface {
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, error)
	// FindByID returns nil, nil when the order does not exist.
	FindByID(ctx context.Context, id string) (*model.Order, error)
	UpdateShipment(ctx context.Context, id string, outcome *model.ShipmentOutcome) error

	// RunInTx executes fn in one transaction; any error rolls everything back.
	RunInTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository is the set of statements the order engine runs inside its transaction.
type TxRepository interface {
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	// GetVariantForUpdate locks the variant row. productID may be empty.
	GetVariantForUpdate(ctx context.Context, productID, variantID string) (*model.ProductVariant, error)
	// DecrementStock subtracts qty only if enough is left; false means it was not.
	DecrementStock(ctx context.Context, variantID string, qty int, at time.Time) (bool, error)
	IncrementStock(ctx context.Context, variantID string, qty int, at time.Time) (bool, error)

	LockOrder(ctx context.Context, orderID string) (bool, error)
	InsertOrder(ctx context.Context, order *model.Order) error
	InsertItems(ctx context.Context, items []model.OrderItem) error
	GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	DeleteOrder(ctx context.Context, orderID string) (bool, error)

	InsertMovements(ctx context.Context, movements []model.StockMovement) error
}

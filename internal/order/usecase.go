package order

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, input *dto.ListOrdersInput) ([]model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// ShipmentScheduler queues a best-effort parcel creation for a committed order.
type ShipmentScheduler interface {
	Schedule(orderID string) bool
}

type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (orderID string, claimed bool, err error)
	Complete(ctx context.Context, key, orderID string) error
	Release(ctx context.Context, key string) error
}

// StockObserver is told when committed orders moved stock.
type StockObserver interface {
	InvalidateCache(ctx context.Context)
}

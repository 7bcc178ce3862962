package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-shop-service/internal/model"
)

type UseCase interface {
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) (*dto.MovementPage, error)
}

// Locker is a distributed mutex. *cache.RedisClient satisfies it.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// StockObserver is told after an adjustment changed stock.
type StockObserver interface {
	InvalidateCache(ctx context.Context)
}

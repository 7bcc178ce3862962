package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/inventory"
	"github.com/fekuna/omnipos-shop-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	referenceManual = "manual_adjustment"
	defaultReason   = "Manual adjustment"

	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond

	defaultPageSize = 50
	maxPageSize     = 200
)

type inventoryUseCase struct {
	repo   inventory.Repository
	locker inventory.Locker
	stock  inventory.StockObserver
	now    func() time.Time
	logger logger.ZapLogger
}

type Option func(*inventoryUseCase)

// WithLocker serialises adjustments of one variant across instances.
func WithLocker(l inventory.Locker) Option {
	return func(uc *inventoryUseCase) { uc.locker = l }
}

func WithStockObserver(o inventory.StockObserver) Option {
	return func(uc *inventoryUseCase) { uc.stock = o }
}

func WithClock(now func() time.Time) Option {
	return func(uc *inventoryUseCase) { uc.now = now }
}

func NewInventoryUseCase(repo inventory.Repository, log logger.ZapLogger, opts ...Option) inventory.UseCase {
	uc := &inventoryUseCase{
		repo:   repo,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StockMovement, error) {
	if strings.TrimSpace(input.VariantID) == "" {
		return nil, apperr.Validation("validation_failed", "variant_id", "variant_id is required")
	}
	if input.QuantityChange == 0 {
		return nil, apperr.Validation("validation_failed", "quantity_change", "quantity_change must not be zero")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = defaultReason
	}

	unlock, err := uc.lock(ctx, "lock:inventory:"+input.VariantID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	at := uc.now().UTC().Truncate(time.Microsecond)
	ref := referenceManual

	m, err := uc.repo.AdjustStockWithMovement(ctx, input.VariantID, func(v *model.VariantDetail) (*model.StockMovement, error) {
		after := v.Quantity + input.QuantityChange
		if after < 0 {
			return nil, apperr.InsufficientStock(v.ModelName, v.Info(), v.Quantity)
		}
		return &model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      v.ProductID,
			VariantID:      v.ID,
			MovementType:   model.MovementAdjustment,
			QuantityChange: input.QuantityChange,
			QuantityBefore: v.Quantity,
			QuantityAfter:  after,
			ReferenceType:  &ref,
			Notes:          reason,
			CreatedAt:      at,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("inventory adjusted",
		zap.String("variant_id", m.VariantID),
		zap.Int("change", m.QuantityChange),
		zap.Int("quantity", m.QuantityAfter),
	)
	if uc.stock != nil {
		uc.stock.InvalidateCache(context.WithoutCancel(ctx))
	}
	return m, nil
}

// lock takes the per-variant lock when a locker is configured. Without one
// the database row lock is the only guard.
func (uc *inventoryUseCase) lock(ctx context.Context, key string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	value := uuid.New().String()
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, value); err != nil {
					uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	return nil, apperr.Conflict("inventory_busy", "variant is being adjusted, try again", nil)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) (*dto.MovementPage, error) {
	f := *filters
	if f.MovementType != "" {
		switch f.MovementType {
		case model.MovementSale, model.MovementSaleReversal, model.MovementAdjustment:
		default:
			return nil, apperr.Validation("validation_failed", "movement_type", "unknown movement type "+f.MovementType)
		}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	items, total, err := uc.repo.ListMovements(ctx, &f)
	if err != nil {
		return nil, err
	}
	return &dto.MovementPage{
		Movements: items,
		Total:     total,
		Page:      f.Page,
		PageSize:  f.PageSize,
	}, nil
}

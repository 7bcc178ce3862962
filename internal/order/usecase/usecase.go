package usecase

import (
	"context"
	"math"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/calc"
	"github.com/fekuna/omnipos-shop-service/internal/daterange"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/order"
	"github.com/fekuna/omnipos-shop-service/internal/order/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	referenceOrder = "order"
	publishTimeout = 10 * time.Second
)

type orderUseCase struct {
	repo      order.Repository
	events    order.EventPublisher
	shipments order.ShipmentScheduler
	idem      order.IdempotencyStore
	stock     order.StockObserver
	loc       *time.Location
	now       func() time.Time
	logger    logger.ZapLogger
}

type Option func(*orderUseCase)

// WithEvents publishes OrderCreated/OrderDeleted after commit.
func WithEvents(p order.EventPublisher) Option {
	return func(uc *orderUseCase) { uc.events = p }
}

// WithShipments schedules parcel creation for shippable orders after commit.
func WithShipments(s order.ShipmentScheduler) Option {
	return func(uc *orderUseCase) { uc.shipments = s }
}

func WithIdempotency(s order.IdempotencyStore) Option {
	return func(uc *orderUseCase) { uc.idem = s }
}

func WithStockObserver(o order.StockObserver) Option {
	return func(uc *orderUseCase) { uc.stock = o }
}

// WithLocation sets the shop timezone used for calendar filters and order numbers.
func WithLocation(loc *time.Location) Option {
	return func(uc *orderUseCase) { uc.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(uc *orderUseCase) { uc.now = now }
}

func NewOrderUseCase(repo order.Repository, log logger.ZapLogger, opts ...Option) order.UseCase {
	uc := &orderUseCase{
		repo:   repo,
		loc:    time.UTC,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func validateItems(items []dto.OrderItemInput) error {
	if len(items) == 0 {
		return apperr.Validation("items_required", "items", "order must contain at least one item")
	}
	for _, it := range items {
		if it.ProductID == "" {
			return apperr.Validation("validation_failed", "product_id", "product_id is required")
		}
		if it.VariantID == "" {
			return apperr.Validation("validation_failed", "variant_id", "variant_id is required")
		}
		if it.Quantity <= 0 {
			return apperr.Validation("invalid_quantity", "quantity", "quantity must be a positive integer")
		}
		for _, p := range []*float64{it.SellingPrice, it.CostPrice} {
			if p != nil && (*p < 0 || math.IsNaN(*p) || math.IsInf(*p, 0)) {
				return apperr.Validation("invalid_price", "price", "prices must be zero or greater")
			}
		}
	}
	return nil
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if p := input.Customer.YalidinePrice; p != nil && (*p < 0 || math.IsNaN(*p) || math.IsInf(*p, 0)) {
		return nil, apperr.Validation("invalid_price", "yalidine_price", "yalidine_price must be zero or greater")
	}

	if input.IdempotencyKey != "" && uc.idem != nil {
		existing, claimed, err := uc.idem.Claim(ctx, input.IdempotencyKey)
		if err != nil {
			uc.logger.Warn("idempotency store unavailable, continuing without it", zap.Error(err))
		} else if !claimed {
			if existing == "" {
				return nil, apperr.Conflict("idempotency_in_progress", "request with this idempotency key is in progress", nil)
			}
			return uc.replay(ctx, existing)
		} else {
			o, err := uc.createOrder(ctx, input)
			if err != nil {
				if rerr := uc.idem.Release(context.Background(), input.IdempotencyKey); rerr != nil {
					uc.logger.Warn("failed to release idempotency key", zap.Error(rerr))
				}
				return nil, err
			}
			if cerr := uc.idem.Complete(context.Background(), input.IdempotencyKey, o.ID); cerr != nil {
				uc.logger.Warn("failed to bind idempotency key", zap.Error(cerr))
			}
			return o, nil
		}
	}

	return uc.createOrder(ctx, input)
}

func (uc *orderUseCase) replay(ctx context.Context, orderID string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("order_not_found", orderID, "order not found")
	}
	return o, nil
}

func (uc *orderUseCase) createOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	now := uc.now().UTC().Truncate(time.Microsecond)
	c := input.Customer

	o := &model.Order{
		ID:            uuid.New().String(),
		OrderNumber:   calc.NewOrderNumber(now.In(uc.loc)),
		Notes:         c.Notes,
		Firstname:     c.Firstname,
		Familyname:    c.Familyname,
		ContactPhone:  c.ContactPhone,
		Address:       c.Address,
		ToWilayaName:  c.ToWilayaName,
		ToCommuneName: c.ToCommuneName,
		IsStopdesk:    c.IsStopdesk,
		YalidinePrice: c.YalidinePrice,
		CreatedAt:     now,
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	movements := make([]model.StockMovement, 0, len(input.Items))

	err := uc.repo.RunInTx(ctx, func(tx order.TxRepository) error {
		lines := make([]calc.Line, 0, len(input.Items))

		for _, req := range input.Items {
			p, err := tx.GetProduct(ctx, req.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return apperr.NotFound("product_not_found", req.ProductID, "product not found: "+req.ProductID)
			}

			v, err := tx.GetVariantForUpdate(ctx, req.ProductID, req.VariantID)
			if err != nil {
				return err
			}
			if v == nil {
				return apperr.NotFound("variant_not_found", req.VariantID, "variant not found: "+req.VariantID)
			}
			if v.Quantity < req.Quantity {
				return apperr.InsufficientStock(p.ModelName, v.Info(), v.Quantity)
			}

			selling, cost := p.SellingPrice, p.CostPrice
			if req.SellingPrice != nil {
				selling = *req.SellingPrice
			}
			if req.CostPrice != nil {
				cost = *req.CostPrice
			}
			totals := calc.LineItemTotals(req.Quantity, selling, cost)

			ok, err := tx.DecrementStock(ctx, v.ID, req.Quantity, now)
			if err != nil {
				return err
			}
			if !ok {
				// stock moved between the read and the guarded update
				return apperr.InsufficientStock(p.ModelName, v.Info(), v.Quantity)
			}

			items = append(items, model.OrderItem{
				ID:           newItemID(),
				OrderID:      o.ID,
				ProductID:    p.ID,
				VariantID:    v.ID,
				ProductName:  p.ModelName,
				VariantInfo:  v.Info(),
				Quantity:     req.Quantity,
				SellingPrice: selling,
				CostPrice:    cost,
				LineTotal:    totals.LineTotal,
				LineCost:     totals.LineCost,
				LineProfit:   totals.LineProfit,
				CreatedAt:    now,
			})
			movements = append(movements, newMovement(model.MovementSale, v, -req.Quantity, o, now))
			lines = append(lines, calc.Line{Quantity: req.Quantity, LineTotals: totals})
		}

		sum := calc.OrderTotals(lines)
		o.TotalAmount = sum.TotalAmount
		o.TotalCost = sum.TotalCost
		o.TotalProfit = sum.TotalProfit
		o.ItemsCount = sum.ItemsCount

		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.InsertItems(ctx, items); err != nil {
			return err
		}
		return tx.InsertMovements(ctx, movements)
	})
	if err != nil {
		return nil, err
	}

	o.Items = items
	uc.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total_amount", o.TotalAmount),
		zap.Int("items_count", o.ItemsCount),
	)

	uc.afterCommit(model.EventOrderCreated, o)
	if o.Shippable() && uc.shipments != nil {
		if !uc.shipments.Schedule(o.ID) {
			uc.logger.Warn("shipment dispatch not scheduled", zap.String("order_id", o.ID))
		}
	}
	return o, nil
}

// newItemID returns time-ordered ids so items read back in request order.
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func newMovement(kind string, v *model.ProductVariant, change int, o *model.Order, at time.Time) model.StockMovement {
	ref := referenceOrder
	id := o.ID
	return model.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      v.ProductID,
		VariantID:      v.ID,
		MovementType:   kind,
		QuantityChange: change,
		QuantityBefore: v.Quantity,
		QuantityAfter:  v.Quantity + change,
		ReferenceType:  &ref,
		ReferenceID:    &id,
		Notes:          o.OrderNumber,
		CreatedAt:      at,
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *orderUseCase) ListOrders(ctx context.Context, input *dto.ListOrdersInput) ([]model.Order, error) {
	r, err := daterange.Resolve(input.Date, input.From, input.To, uc.loc)
	if err != nil {
		return nil, err
	}
	return uc.repo.FindAll(ctx, &dto.OrderFilters{From: r.From, To: r.To})
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id string) error {
	existing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("order_not_found", id, "order not found")
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	err = uc.repo.RunInTx(ctx, func(tx order.TxRepository) error {
		found, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return apperr.NotFound("order_not_found", id, "order not found")
		}

		items, err := tx.GetItems(ctx, id)
		if err != nil {
			return err
		}

		movements := make([]model.StockMovement, 0, len(items))
		for _, item := range items {
			v, err := tx.GetVariantForUpdate(ctx, "", item.VariantID)
			if err != nil {
				return err
			}
			if v == nil {
				uc.logger.Warn("variant gone, stock not restored",
					zap.String("order_id", id),
					zap.String("variant_id", item.VariantID),
					zap.Int("quantity", item.Quantity),
				)
				continue
			}
			if _, err := tx.IncrementStock(ctx, v.ID, item.Quantity, now); err != nil {
				return err
			}
			movements = append(movements, newMovement(model.MovementSaleReversal, v, item.Quantity, existing, now))
		}

		deleted, err := tx.DeleteOrder(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound("order_not_found", id, "order not found")
		}
		return tx.InsertMovements(ctx, movements)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("order deleted", zap.String("order_id", id), zap.String("order_number", existing.OrderNumber))
	uc.afterCommit(model.EventOrderDeleted, existing)
	return nil
}

// afterCommit runs the detached side effects of a committed change. Failures
// are logged and never reach the caller.
func (uc *orderUseCase) afterCommit(eventType string, o *model.Order) {
	if uc.stock != nil {
		go uc.stock.InvalidateCache(context.Background())
	}
	if uc.events == nil {
		return
	}

	event := newEvent(eventType, o, uc.now())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := uc.events.Publish(ctx, o.ID, event); err != nil {
			uc.logger.Error("failed to publish order event",
				zap.String("event_type", eventType),
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
		}
	}()
}

func newEvent(eventType string, o *model.Order, at time.Time) *model.OrderEvent {
	payload := model.OrderPayload{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		TotalAmount: o.TotalAmount,
		ItemsCount:  o.ItemsCount,
		Shippable:   o.Shippable(),
		Items:       make([]model.OrderItemPayload, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, model.OrderItemPayload{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}
	return &model.OrderEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: at.UTC(),
	}
}

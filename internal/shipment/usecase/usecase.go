package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/order"
	"github.com/fekuna/omnipos-shop-service/internal/shipment"
	"go.uber.org/zap"
)

const defaultStatus = "submitted"

type shipmentUseCase struct {
	orders  order.Repository
	partner shipment.Partner
	logger  logger.ZapLogger
}

func NewShipmentUseCase(orders order.Repository, partner shipment.Partner, log logger.ZapLogger) shipment.UseCase {
	return &shipmentUseCase{
		orders:  orders,
		partner: partner,
		logger:  log,
	}
}

func (uc *shipmentUseCase) DispatchOrder(ctx context.Context, orderID string) error {
	o, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	switch {
	case o == nil:
		uc.logger.Debug("skip dispatch, order gone", zap.String("order_id", orderID))
		return nil
	case o.YalidineTracking != nil && *o.YalidineTracking != "":
		uc.logger.Debug("skip dispatch, already tracked", zap.String("order_id", orderID))
		return nil
	case !o.Shippable():
		return nil
	case !uc.partner.IsConfigured():
		uc.logger.Debug("skip dispatch, partner not configured", zap.String("order_id", orderID))
		return nil
	}

	result, err := uc.partner.CreateParcel(ctx, o, ProductList(o.Items))
	if err != nil {
		return err
	}
	if result == nil || result.Tracking == "" {
		uc.logger.Warn("parcel created without tracking", zap.String("order_number", o.OrderNumber))
		return nil
	}

	status := result.State
	if status == "" {
		status = defaultStatus
	}
	if err := uc.orders.UpdateShipment(ctx, o.ID, &model.ShipmentOutcome{
		Tracking: result.Tracking,
		Status:   status,
		Label:    result.Label,
	}); err != nil {
		return fmt.Errorf("store tracking for %s: %w", o.OrderNumber, err)
	}

	uc.logger.Info("parcel created",
		zap.String("order_number", o.OrderNumber),
		zap.String("tracking", result.Tracking),
	)
	return nil
}

// ProductList renders "name (variant) xN, ..." for the parcel description.
func ProductList(items []model.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%s) x%d", it.ProductName, it.VariantInfo, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

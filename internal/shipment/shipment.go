package shipment

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/shipment/yalidine"
)

type UseCase interface {
	// DispatchOrder submits a parcel for a committed order. Orders that are
	// gone, already tracked or missing shipping fields are skipped.
	DispatchOrder(ctx context.Context, orderID string) error
}

// Partner is the parcel API. *yalidine.Client satisfies it.
type Partner interface {
	IsConfigured() bool
	CreateParcel(ctx context.Context, o *model.Order, productList string) (*yalidine.ParcelResult, error)
	Wilayas(ctx context.Context) ([]json.RawMessage, error)
	Communes(ctx context.Context, wilayaID string) ([]json.RawMessage, error)
	Centers(ctx context.Context, wilayaID, communeID string) ([]json.RawMessage, error)
	Tracking(ctx context.Context, tracking string) (json.RawMessage, error)
}

type Scheduler interface {
	Schedule(orderID string) bool
}

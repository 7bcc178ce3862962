package dto

import "time"

type OrderItemInput struct {
	ProductID    string   `json:"product_id"`
	VariantID    string   `json:"variant_id"`
	Quantity     int      `json:"quantity"`
	SellingPrice *float64 `json:"selling_price,omitempty"`
	CostPrice    *float64 `json:"cost_price,omitempty"`
}

type CustomerInput struct {
	Notes         *string  `json:"notes"`
	Firstname     *string  `json:"firstname"`
	Familyname    *string  `json:"familyname"`
	ContactPhone  *string  `json:"contact_phone"`
	Address       *string  `json:"address"`
	ToWilayaName  *string  `json:"to_wilaya_name"`
	ToCommuneName *string  `json:"to_commune_name"`
	IsStopdesk    bool     `json:"is_stopdesk"`
	YalidinePrice *float64 `json:"yalidine_price"`
}

type CreateOrderInput struct {
	Items          []OrderItemInput
	Customer       CustomerInput
	IdempotencyKey string
}

// OrderFilters holds an optional creation-time window. Bounds are already
// resolved to instants: From inclusive, To exclusive.
type OrderFilters struct {
	From *time.Time
	To   *time.Time
}

// ListOrdersInput carries calendar dates (YYYY-MM-DD) in the shop timezone.
type ListOrdersInput struct {
	Date string
	From string
	To   string
}

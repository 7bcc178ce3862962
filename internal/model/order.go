package model

import (
	"strings"
	"time"
)

type Order struct {
	ID          string  `db:"id" json:"id"`
	OrderNumber string  `db:"order_number" json:"order_number"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
	TotalCost   float64 `db:"total_cost" json:"total_cost"`
	TotalProfit float64 `db:"total_profit" json:"total_profit"`
	ItemsCount  int     `db:"items_count" json:"items_count"`
	Notes       *string `db:"notes" json:"notes"`

	// Shipping
	Firstname     *string  `db:"firstname" json:"firstname"`
	Familyname    *string  `db:"familyname" json:"familyname"`
	ContactPhone  *string  `db:"contact_phone" json:"contact_phone"`
	Address       *string  `db:"address" json:"address"`
	ToWilayaName  *string  `db:"to_wilaya_name" json:"to_wilaya_name"`
	ToCommuneName *string  `db:"to_commune_name" json:"to_commune_name"`
	IsStopdesk    bool     `db:"is_stopdesk" json:"is_stopdesk"`
	YalidinePrice *float64 `db:"yalidine_price" json:"yalidine_price"`

	// Written back by the shipment dispatcher
	YalidineTracking *string `db:"yalidine_tracking" json:"yalidine_tracking"`
	YalidineStatus   *string `db:"yalidine_status" json:"yalidine_status"`
	YalidineLabel    *string `db:"yalidine_label" json:"yalidine_label"`

	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	Items     []OrderItem `db:"-" json:"items,omitempty"`
}

// Shippable reports whether every field the parcel request needs is present.
func (o *Order) Shippable() bool {
	for _, f := range []*string{o.Firstname, o.Familyname, o.ContactPhone, o.Address, o.ToWilayaName, o.ToCommuneName} {
		if f == nil || strings.TrimSpace(*f) == "" {
			return false
		}
	}
	return true
}

type OrderItem struct {
	ID           string    `db:"id" json:"id"`
	OrderID      string    `db:"order_id" json:"order_id"`
	ProductID    string    `db:"product_id" json:"product_id"`
	VariantID    string    `db:"variant_id" json:"variant_id"`
	ProductName  string    `db:"product_name" json:"product_name"`
	VariantInfo  string    `db:"variant_info" json:"variant_info"`
	Quantity     int       `db:"quantity" json:"quantity"`
	SellingPrice float64   `db:"selling_price" json:"selling_price"`
	CostPrice    float64   `db:"cost_price" json:"cost_price"`
	LineTotal    float64   `db:"line_total" json:"line_total"`
	LineCost     float64   `db:"line_cost" json:"line_cost"`
	LineProfit   float64   `db:"line_profit" json:"line_profit"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ShipmentOutcome is what the dispatcher writes back after the partner accepted a parcel.
type ShipmentOutcome struct {
	Tracking string
	Status   string
	Label    *string
}

package dto

// AdjustInventoryInput is a manual stock correction. A negative change
// removes units.
type AdjustInventoryInput struct {
	VariantID      string `json:"variant_id"`
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason"`
}

package dto

// RangeInput carries inclusive calendar days (YYYY-MM-DD) in the shop
// timezone. Empty bounds default to the last 30 days.
type RangeInput struct {
	From string
	To   string
}

type TopProductsInput struct {
	RangeInput
	Limit int
}

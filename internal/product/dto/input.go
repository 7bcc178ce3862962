package dto

import "github.com/fekuna/omnipos-shop-service/internal/model"

type ProductFilters struct {
	Category model.Category `json:"category,omitempty"`
	Search   string         `json:"search,omitempty"` // model_name substring
	IDs      []string       `json:"ids,omitempty"`
}

type VariantInput struct {
	ID       string `json:"id,omitempty"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type CreateProductInput struct {
	ModelName    string
	Category     model.Category
	SellingPrice float64
	CostPrice    float64
	Image        *string
	Variants     []VariantInput
}

type UpdateProductInput struct {
	ID           string
	ModelName    string
	Category     model.Category
	SellingPrice float64
	CostPrice    float64
	Image        *string
	// nil leaves stored variants untouched
	Variants []VariantInput
}

package dto

import "github.com/fekuna/omnipos-shop-service/internal/model"

type MovementFilters struct {
	ProductID    string
	VariantID    string
	MovementType string
	Page         int
	PageSize     int
}

type MovementPage struct {
	Movements []model.StockMovement `json:"movements"`
	Total     int                   `json:"total"`
	Page      int                   `json:"page"`
	PageSize  int                   `json:"page_size"`
}

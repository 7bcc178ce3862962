package analytics

import (
	"context"

	"github.com/fekuna/omnipos-shop-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-shop-service/internal/model"
)

type UseCase interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	RevenueByDay(ctx context.Context, input *dto.RangeInput) ([]model.DailyRevenue, error)
	TopProducts(ctx context.Context, input *dto.TopProductsInput) ([]model.TopProduct, error)
	SalesByCategory(ctx context.Context, input *dto.RangeInput) ([]model.CategorySales, error)
	MonthlySummary(ctx context.Context, year int) ([]model.MonthlySummary, error)
}

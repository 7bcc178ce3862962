package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/analytics"
	"github.com/fekuna/omnipos-shop-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-shop-service/internal/analytics/repository"
	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	orderdto "github.com/fekuna/omnipos-shop-service/internal/order/dto"
	orderrepo "github.com/fekuna/omnipos-shop-service/internal/order/repository"
	orderuc "github.com/fekuna/omnipos-shop-service/internal/order/usecase"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shop is one hour ahead of UTC so late-evening UTC orders land on the next local day.
var shop = time.FixedZone("shop", 3600)

var now = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func placeOrder(t *testing.T, db *sqlx.DB, at time.Time, items ...orderdto.OrderItemInput) {
	t.Helper()
	uc := orderuc.NewOrderUseCase(orderrepo.NewSQLRepository(db), logger.NewNop(),
		orderuc.WithClock(func() time.Time { return at }))
	_, err := uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{Items: items})
	require.NoError(t, err)
}

func item(p *model.Product, variant, qty int) orderdto.OrderItemInput {
	return orderdto.OrderItemInput{ProductID: p.ID, VariantID: p.Variants[variant].ID, Quantity: qty}
}

func setup(t *testing.T) analytics.UseCase {
	t.Helper()
	db := dbtest.New(t)

	tee := dbtest.SeedProduct(t, db, "Tee", model.CategoryTShirt, 100, 60, dbtest.Variant{Color: "Red", Size: "M", Quantity: 20})
	shoe := dbtest.SeedProduct(t, db, "Shoe", model.CategoryShoes, 350, 180,
		dbtest.Variant{Color: "Black", Size: "42", Quantity: 5},
		dbtest.Variant{Color: "White", Size: "40", Quantity: 2})

	placeOrder(t, db, time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC), item(tee, 0, 2))
	placeOrder(t, db, time.Date(2026, time.March, 14, 23, 30, 0, 0, time.UTC), item(shoe, 0, 1))
	placeOrder(t, db, time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC), item(tee, 0, 1), item(shoe, 1, 1))
	placeOrder(t, db, time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC), item(tee, 0, 3))

	return NewAnalyticsUseCase(repository.NewSQLRepository(db), logger.NewNop(),
		WithLocation(shop),
		WithClock(func() time.Time { return now }),
	)
}

func TestDashboard(t *testing.T) {
	uc := setup(t)

	d, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 550.0, d.TodayRevenue)
	assert.Equal(t, 250.0, d.TodayProfit)
	assert.Equal(t, 2, d.TodayOrders)
	// Tee has 14 left, Shoe variants 4 and 1
	assert.Equal(t, 2, d.LowStockCount)
	assert.Equal(t, 2, d.TotalProducts)
	assert.Equal(t, 1740.0, d.StockValue)
	assert.Equal(t, 3150.0, d.StockValueSelling)
}

func TestDashboardThreshold(t *testing.T) {
	db := dbtest.New(t)
	dbtest.SeedProduct(t, db, "Tee", model.CategoryTShirt, 100, 60,
		dbtest.Variant{Color: "Red", Size: "M", Quantity: 8},
		dbtest.Variant{Color: "Blue", Size: "M", Quantity: 12})

	uc := NewAnalyticsUseCase(repository.NewSQLRepository(db), logger.NewNop(), WithLowStockThreshold(10))
	d, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Zero(t, d.TodayOrders)
	assert.Zero(t, d.TodayRevenue)
}

func TestRevenueByDay(t *testing.T) {
	uc := setup(t)

	days, err := uc.RevenueByDay(context.Background(), &dto.RangeInput{From: "2026-03-10", To: "2026-03-15"})
	require.NoError(t, err)
	require.Len(t, days, 6)

	assert.Equal(t, model.DailyRevenue{Date: "2026-03-10", Revenue: 450, Cost: 240, Profit: 210, OrderCount: 1}, days[0])
	assert.Equal(t, model.DailyRevenue{Date: "2026-03-14"}, days[4])
	assert.Equal(t, model.DailyRevenue{Date: "2026-03-15", Revenue: 550, Cost: 300, Profit: 250, OrderCount: 2}, days[5])
}

func TestRevenueByDayDefaultWindow(t *testing.T) {
	uc := setup(t)

	days, err := uc.RevenueByDay(context.Background(), &dto.RangeInput{})
	require.NoError(t, err)
	require.Len(t, days, 31)
	assert.Equal(t, "2026-02-13", days[0].Date)
	assert.Equal(t, "2026-03-15", days[30].Date)
}

func TestRangeValidation(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	_, err := uc.RevenueByDay(ctx, &dto.RangeInput{From: "2026-03-16", To: "2026-03-15"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = uc.SalesByCategory(ctx, &dto.RangeInput{From: "15/03/2026"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = uc.TopProducts(ctx, &dto.TopProductsInput{RangeInput: dto.RangeInput{From: "2000-01-01"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTopProducts(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	top, err := uc.TopProducts(ctx, &dto.TopProductsInput{})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Tee", top[0].ProductName)
	assert.Equal(t, 3, top[0].TotalQuantity)
	assert.Equal(t, 300.0, top[0].TotalRevenue)
	assert.Equal(t, 120.0, top[0].TotalProfit)
	assert.Equal(t, "Shoe", top[1].ProductName)
	assert.Equal(t, 700.0, top[1].TotalRevenue)

	top, err = uc.TopProducts(ctx, &dto.TopProductsInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, top, 1)

	top, err = uc.TopProducts(ctx, &dto.TopProductsInput{RangeInput: dto.RangeInput{From: "2026-01-01", To: "2026-01-31"}})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 3, top[0].TotalQuantity)
}

func TestSalesByCategory(t *testing.T) {
	uc := setup(t)

	sales, err := uc.SalesByCategory(context.Background(), &dto.RangeInput{})
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, model.CategorySales{Category: model.CategoryShoes, TotalQuantity: 2, TotalRevenue: 700, TotalProfit: 340}, sales[0])
	assert.Equal(t, model.CategorySales{Category: model.CategoryTShirt, TotalQuantity: 3, TotalRevenue: 300, TotalProfit: 120}, sales[1])
}

func TestMonthlySummary(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	months, err := uc.MonthlySummary(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []model.MonthlySummary{
		{Month: "01", Revenue: 300, Profit: 120, OrderCount: 1},
		{Month: "03", Revenue: 1000, Profit: 460, OrderCount: 3},
	}, months)

	months, err = uc.MonthlySummary(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, months)

	_, err = uc.MonthlySummary(ctx, 12)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

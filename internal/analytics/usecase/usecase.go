package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/analytics"
	"github.com/fekuna/omnipos-shop-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/calc"
	"github.com/fekuna/omnipos-shop-service/internal/daterange"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/shopspring/decimal"
)

const (
	defaultWindowDays = 30
	defaultTopLimit   = 10
	maxTopLimit       = 100
	maxRangeDays      = 366 * 5
)

type analyticsUseCase struct {
	repo              analytics.Repository
	lowStockThreshold int
	loc               *time.Location
	now               func() time.Time
	logger            logger.ZapLogger
}

type Option func(*analyticsUseCase)

// WithLocation sets the shop timezone used to cut calendar days.
func WithLocation(loc *time.Location) Option {
	return func(uc *analyticsUseCase) { uc.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(uc *analyticsUseCase) { uc.now = now }
}

// WithLowStockThreshold overrides the default of 5.
func WithLowStockThreshold(n int) Option {
	return func(uc *analyticsUseCase) { uc.lowStockThreshold = n }
}

func NewAnalyticsUseCase(repo analytics.Repository, log logger.ZapLogger, opts ...Option) analytics.UseCase {
	uc := &analyticsUseCase{
		repo:              repo,
		lowStockThreshold: 5,
		loc:               time.UTC,
		now:               time.Now,
		logger:            log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *analyticsUseCase) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	today := daterange.StartOfDay(uc.now(), uc.loc)
	rows, err := uc.repo.OrderTotals(ctx, today, daterange.NextDay(today))
	if err != nil {
		return nil, err
	}
	s := summarize(rows)

	lowStock, err := uc.repo.CountLowStock(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	products, err := uc.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	costValue, sellingValue, err := uc.repo.StockValue(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		TodayRevenue:      s.revenue(),
		TodayProfit:       s.profit(),
		TodayOrders:       s.count,
		LowStockCount:     lowStock,
		TotalProducts:     products,
		StockValue:        calc.RoundMoney(costValue),
		StockValueSelling: calc.RoundMoney(sellingValue),
	}, nil
}

// RevenueByDay returns one entry per calendar day of the range, zero-filled.
func (uc *analyticsUseCase) RevenueByDay(ctx context.Context, input *dto.RangeInput) ([]model.DailyRevenue, error) {
	from, to, err := uc.window(input)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.OrderTotals(ctx, from, daterange.NextDay(to))
	if err != nil {
		return nil, err
	}

	buckets := map[string]*sums{}
	for _, row := range rows {
		key := row.CreatedAt.In(uc.loc).Format(daterange.Layout)
		b, ok := buckets[key]
		if !ok {
			b = &sums{}
			buckets[key] = b
		}
		b.add(row)
	}

	days := daterange.Days(from, to)
	out := make([]model.DailyRevenue, 0, len(days))
	for _, day := range days {
		b, ok := buckets[day]
		if !ok {
			b = &sums{}
		}
		out = append(out, model.DailyRevenue{
			Date:       day,
			Revenue:    b.revenue(),
			Cost:       b.cost(),
			Profit:     b.profit(),
			OrderCount: b.count,
		})
	}
	return out, nil
}

func (uc *analyticsUseCase) TopProducts(ctx context.Context, input *dto.TopProductsInput) ([]model.TopProduct, error) {
	from, to, err := uc.window(&input.RangeInput)
	if err != nil {
		return nil, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	products, err := uc.repo.TopProducts(ctx, from, daterange.NextDay(to), limit)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].TotalRevenue = calc.RoundMoney(products[i].TotalRevenue)
		products[i].TotalProfit = calc.RoundMoney(products[i].TotalProfit)
	}
	return products, nil
}

func (uc *analyticsUseCase) SalesByCategory(ctx context.Context, input *dto.RangeInput) ([]model.CategorySales, error) {
	from, to, err := uc.window(input)
	if err != nil {
		return nil, err
	}
	sales, err := uc.repo.SalesByCategory(ctx, from, daterange.NextDay(to))
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].TotalRevenue = calc.RoundMoney(sales[i].TotalRevenue)
		sales[i].TotalProfit = calc.RoundMoney(sales[i].TotalProfit)
	}
	return sales, nil
}

// MonthlySummary lists the months of year that had orders, "01".."12".
// A zero year means the current one.
func (uc *analyticsUseCase) MonthlySummary(ctx context.Context, year int) ([]model.MonthlySummary, error) {
	if year == 0 {
		year = uc.now().In(uc.loc).Year()
	}
	if year < 1970 || year > 9999 {
		return nil, apperr.Validation("validation_failed", "year", fmt.Sprintf("invalid year %d", year))
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, uc.loc)
	rows, err := uc.repo.OrderTotals(ctx, start, start.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	var months [12]sums
	for _, row := range rows {
		months[row.CreatedAt.In(uc.loc).Month()-1].add(row)
	}

	out := []model.MonthlySummary{}
	for i, m := range months {
		if m.count == 0 {
			continue
		}
		out = append(out, model.MonthlySummary{
			Month:      fmt.Sprintf("%02d", i+1),
			Revenue:    m.revenue(),
			Profit:     m.profit(),
			OrderCount: m.count,
		})
	}
	return out, nil
}

// window resolves an inclusive day range, defaulting to the last 30 days
// ending today. Both returned values are midnights in the shop timezone.
func (uc *analyticsUseCase) window(input *dto.RangeInput) (time.Time, time.Time, error) {
	today := daterange.StartOfDay(uc.now(), uc.loc)

	to := today
	if input.To != "" {
		d, err := daterange.ParseDay(input.To, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = d
	}

	from := time.Date(today.Year(), today.Month(), today.Day()-defaultWindowDays, 0, 0, 0, 0, uc.loc)
	if input.From != "" {
		d, err := daterange.ParseDay(input.From, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, apperr.Validation("invalid_date", "from", "from is after to")
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, apperr.Validation("invalid_date", "from", "date range too large")
	}
	return from, to, nil
}

// sums accumulates header totals exactly; values are rounded once on read.
type sums struct {
	revenueSum decimal.Decimal
	costSum    decimal.Decimal
	profitSum  decimal.Decimal
	count      int
}

func (s *sums) add(row model.OrderTotalsRow) {
	s.revenueSum = s.revenueSum.Add(decimal.NewFromFloat(row.TotalAmount))
	s.costSum = s.costSum.Add(decimal.NewFromFloat(row.TotalCost))
	s.profitSum = s.profitSum.Add(decimal.NewFromFloat(row.TotalProfit))
	s.count++
}

func (s *sums) revenue() float64 { return money(s.revenueSum) }
func (s *sums) cost() float64    { return money(s.costSum) }
func (s *sums) profit() float64  { return money(s.profitSum) }

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func summarize(rows []model.OrderTotalsRow) *sums {
	s := &sums{}
	for _, row := range rows {
		s.add(row)
	}
	return s
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-shop-service/internal/analytics/repository"
	"github.com/fekuna/omnipos-shop-service/internal/analytics/usecase"
	"github.com/fekuna/omnipos-shop-service/internal/database/dbtest"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/i18n"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db := dbtest.New(t)
	dbtest.SeedProduct(t, db, "Tee", model.CategoryTShirt, 100, 60, dbtest.Variant{Color: "Red", Size: "M", Quantity: 3})

	log := logger.NewNop()
	tr, err := i18n.New()
	require.NoError(t, err)

	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	uc := usecase.NewAnalyticsUseCase(repository.NewSQLRepository(db), log,
		usecase.WithClock(func() time.Time { return now }))

	e := echo.New()
	NewAnalyticsHandler(uc, httpx.NewResponder(tr, log), log).RegisterRoutes(e.Group("/api/analytics"))
	return e
}

func get(t *testing.T, e *echo.Echo, path string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestAnalyticsEndpoints(t *testing.T) {
	e := newServer(t)

	status, env := get(t, e, "/api/analytics/dashboard")
	require.Equal(t, http.StatusOK, status)
	var d model.Dashboard
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, 1, d.TotalProducts)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, 180.0, d.StockValue)

	status, env = get(t, e, "/api/analytics/revenue?from=2026-03-14&to=2026-03-15")
	require.Equal(t, http.StatusOK, status)
	var days []model.DailyRevenue
	require.NoError(t, json.Unmarshal(env.Data, &days))
	assert.Len(t, days, 2)

	for _, path := range []string{
		"/api/analytics/top-products?limit=abc",
		"/api/analytics/categories",
		"/api/analytics/monthly?year=2026",
	} {
		status, env = get(t, e, path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.JSONEq(t, `[]`, string(env.Data), path)
	}
}

func TestAnalyticsBadInput(t *testing.T) {
	e := newServer(t)

	status, env := get(t, e, "/api/analytics/revenue?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Dates must use the YYYY-MM-DD format", env.Error)

	status, env = get(t, e, "/api/analytics/monthly?year=last")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid value for year", env.Error)
}

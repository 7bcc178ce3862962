package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-shop-service/internal/analytics"
	"github.com/fekuna/omnipos-shop-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/labstack/echo/v4"
)

type AnalyticsHandler struct {
	uc     analytics.UseCase
	resp   *httpx.Responder
	logger logger.ZapLogger
}

func NewAnalyticsHandler(uc analytics.UseCase, resp *httpx.Responder, log logger.ZapLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		uc:     uc,
		resp:   resp,
		logger: log,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.GetDashboard)
	g.GET("/revenue", h.GetRevenue)
	g.GET("/top-products", h.GetTopProducts)
	g.GET("/categories", h.GetCategories)
	g.GET("/monthly", h.GetMonthly)
}

func rangeInput(c echo.Context) *dto.RangeInput {
	return &dto.RangeInput{From: c.QueryParam("from"), To: c.QueryParam("to")}
}

func (h *AnalyticsHandler) GetDashboard(c echo.Context) error {
	d, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, d)
}

func (h *AnalyticsHandler) GetRevenue(c echo.Context) error {
	days, err := h.uc.RevenueByDay(c.Request().Context(), rangeInput(c))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, days)
}

func (h *AnalyticsHandler) GetTopProducts(c echo.Context) error {
	// a missing or malformed limit falls back to the default
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	products, err := h.uc.TopProducts(c.Request().Context(), &dto.TopProductsInput{
		RangeInput: *rangeInput(c),
		Limit:      limit,
	})
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, products)
}

func (h *AnalyticsHandler) GetCategories(c echo.Context) error {
	sales, err := h.uc.SalesByCategory(c.Request().Context(), rangeInput(c))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, sales)
}

func (h *AnalyticsHandler) GetMonthly(c echo.Context) error {
	var year int
	if raw := c.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return h.resp.Error(c, apperr.Validation("validation_failed", "year", "year must be a number"))
		}
		year = y
	}

	months, err := h.uc.MonthlySummary(c.Request().Context(), year)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, months)
}

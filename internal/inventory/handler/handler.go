package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/inventory"
	"github.com/fekuna/omnipos-shop-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/labstack/echo/v4"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	resp   *httpx.Responder
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, resp *httpx.Responder, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		resp:   resp,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/adjustments", h.AdjustInventory)
	g.GET("/movements", h.ListMovements)
}

func (h *InventoryHandler) AdjustInventory(c echo.Context) error {
	var input dto.AdjustInventoryInput
	if err := c.Bind(&input); err != nil {
		return h.resp.Fail(c, http.StatusBadRequest, "invalid_body", "Malformed request body")
	}

	m, err := h.uc.AdjustInventory(c.Request().Context(), &input)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusCreated, m)
}

func (h *InventoryHandler) ListMovements(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	result, err := h.uc.ListMovements(c.Request().Context(), &dto.MovementFilters{
		ProductID:    c.QueryParam("product_id"),
		VariantID:    c.QueryParam("variant_id"),
		MovementType: c.QueryParam("movement_type"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, result)
}

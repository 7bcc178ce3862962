package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/order"
	"github.com/fekuna/omnipos-shop-service/internal/order/dto"
	"github.com/labstack/echo/v4"
)

const headerIdempotencyKey = "Idempotency-Key"

type OrderHandler struct {
	uc     order.UseCase
	resp   *httpx.Responder
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, resp *httpx.Responder, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		resp:   resp,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListOrders)
	g.GET("/:id", h.GetOrder)
	g.POST("", h.CreateOrder)
	g.DELETE("/:id", h.DeleteOrder)
}

type createOrderRequest struct {
	Items []dto.OrderItemInput `json:"items"`
	dto.CustomerInput
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.uc.ListOrders(c.Request().Context(), &dto.ListOrdersInput{
		Date: c.QueryParam("date"),
		From: c.QueryParam("from"),
		To:   c.QueryParam("to"),
	})
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id := c.Param("id")
	o, err := h.uc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return h.resp.Error(c, err)
	}
	if o == nil {
		return h.resp.Error(c, apperr.NotFound("order_not_found", id, "order not found"))
	}
	return h.resp.OK(c, http.StatusOK, o)
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return h.resp.Fail(c, http.StatusBadRequest, "invalid_body", "Malformed request body")
	}

	o, err := h.uc.CreateOrder(c.Request().Context(), &dto.CreateOrderInput{
		Items:          req.Items,
		Customer:       req.CustomerInput,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusCreated, o)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	if err := h.uc.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Message(c, "order_deleted", "Order deleted and stock restored")
}

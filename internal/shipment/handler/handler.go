package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/order"
	"github.com/fekuna/omnipos-shop-service/internal/shipment"
	"github.com/labstack/echo/v4"
)

type ShipmentHandler struct {
	partner   shipment.Partner
	orders    order.UseCase
	scheduler shipment.Scheduler
	resp      *httpx.Responder
	logger    logger.ZapLogger
}

func NewShipmentHandler(partner shipment.Partner, orders order.UseCase, scheduler shipment.Scheduler, resp *httpx.Responder, log logger.ZapLogger) *ShipmentHandler {
	return &ShipmentHandler{
		partner:   partner,
		orders:    orders,
		scheduler: scheduler,
		resp:      resp,
		logger:    log,
	}
}

func (h *ShipmentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/wilayas", h.ListWilayas)
	g.GET("/communes", h.ListCommunes)
	g.GET("/centers", h.ListCenters)
	g.GET("/tracking/:tracking", h.GetTracking)
	g.GET("/status", h.GetStatus)
	g.POST("/orders/:id/dispatch", h.DispatchOrder)
}

func (h *ShipmentHandler) ListWilayas(c echo.Context) error {
	wilayas, err := h.partner.Wilayas(c.Request().Context())
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, wilayas)
}

func (h *ShipmentHandler) ListCommunes(c echo.Context) error {
	wilayaID := c.QueryParam("wilaya_id")
	if wilayaID == "" {
		return h.resp.Fail(c, http.StatusBadRequest, "wilaya_id_required", "wilaya_id is required")
	}
	communes, err := h.partner.Communes(c.Request().Context(), wilayaID)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, communes)
}

func (h *ShipmentHandler) ListCenters(c echo.Context) error {
	wilayaID := c.QueryParam("wilaya_id")
	if wilayaID == "" {
		return h.resp.Fail(c, http.StatusBadRequest, "wilaya_id_required", "wilaya_id is required")
	}
	centers, err := h.partner.Centers(c.Request().Context(), wilayaID, c.QueryParam("commune_id"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, centers)
}

func (h *ShipmentHandler) GetTracking(c echo.Context) error {
	data, err := h.partner.Tracking(c.Request().Context(), c.Param("tracking"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, data)
}

type statusResponse struct {
	Configured bool `json:"configured"`
}

func (h *ShipmentHandler) GetStatus(c echo.Context) error {
	return h.resp.OK(c, http.StatusOK, statusResponse{Configured: h.partner.IsConfigured()})
}

// DispatchOrder re-queues parcel creation for an existing order.
func (h *ShipmentHandler) DispatchOrder(c echo.Context) error {
	id := c.Param("id")
	o, err := h.orders.GetOrder(c.Request().Context(), id)
	if err != nil {
		return h.resp.Error(c, err)
	}
	if o == nil {
		return h.resp.Error(c, apperr.NotFound("order_not_found", id, "order not found"))
	}
	if !h.partner.IsConfigured() {
		return h.resp.Fail(c, http.StatusServiceUnavailable, "shipping_not_configured", "The shipping partner is not configured")
	}
	if !h.scheduler.Schedule(o.ID) {
		return h.resp.Fail(c, http.StatusServiceUnavailable, "shipping_unavailable", "The shipping partner is unavailable")
	}
	return h.resp.Message(c, "dispatch_scheduled", "Shipment dispatch scheduled")
}

package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-shop-service/internal/category"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc     category.UseCase
	resp   *httpx.Responder
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, resp *httpx.Responder, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		resp:   resp,
		logger: log,
	}
}

func (h *CategoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListCategories)
	g.GET("/:name", h.GetCategory)
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	cats, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, cats)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	cat, err := h.uc.GetCategory(c.Request().Context(), c.Param("name"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, cat)
}

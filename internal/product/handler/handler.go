package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/fekuna/omnipos-shop-service/internal/model"
	"github.com/fekuna/omnipos-shop-service/internal/product"
	"github.com/fekuna/omnipos-shop-service/internal/product/dto"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	uc                product.UseCase
	resp              *httpx.Responder
	lowStockThreshold int
	logger            logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, resp *httpx.Responder, lowStockThreshold int, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:                uc,
		resp:              resp,
		lowStockThreshold: lowStockThreshold,
		logger:            log,
	}
}

func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListProducts)
	g.GET("/for-order", h.ListForOrder)
	g.GET("/low-stock", h.ListLowStock)
	g.GET("/:id", h.GetProduct)
	g.POST("", h.CreateProduct)
	g.PUT("/:id", h.UpdateProduct)
	g.DELETE("/:id", h.DeleteProduct)
}

type productRequest struct {
	ModelName    string             `json:"model_name"`
	Category     model.Category     `json:"category"`
	SellingPrice float64            `json:"selling_price"`
	CostPrice    float64            `json:"cost_price"`
	Image        *string            `json:"image"`
	Variants     []dto.VariantInput `json:"variants"`
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context(), &dto.ProductFilters{
		Category: model.Category(c.QueryParam("category")),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, products)
}

func (h *ProductHandler) ListForOrder(c echo.Context) error {
	products, err := h.uc.ListForOrder(c.Request().Context())
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, products)
}

func (h *ProductHandler) ListLowStock(c echo.Context) error {
	threshold := h.lowStockThreshold
	if raw := c.QueryParam("threshold"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return h.resp.Fail(c, http.StatusBadRequest, "validation_failed", "invalid threshold")
		}
		threshold = v
	}

	items, err := h.uc.ListLowStock(c.Request().Context(), threshold)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return h.resp.Fail(c, http.StatusBadRequest, "invalid_body", "Malformed request body")
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), &dto.CreateProductInput{
		ModelName:    req.ModelName,
		Category:     req.Category,
		SellingPrice: req.SellingPrice,
		CostPrice:    req.CostPrice,
		Image:        req.Image,
		Variants:     req.Variants,
	})
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusCreated, p)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return h.resp.Fail(c, http.StatusBadRequest, "invalid_body", "Malformed request body")
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), &dto.UpdateProductInput{
		ID:           c.Param("id"),
		ModelName:    req.ModelName,
		Category:     req.Category,
		SellingPrice: req.SellingPrice,
		CostPrice:    req.CostPrice,
		Image:        req.Image,
		Variants:     req.Variants,
	})
	if err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.OK(c, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return h.resp.Error(c, err)
	}
	return h.resp.Message(c, "product_deleted", "Product deleted")
}

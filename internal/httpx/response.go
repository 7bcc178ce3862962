package httpx

import (
	"net/http"

	"github.com/fekuna/omnipos-shop-service/internal/apperr"
	"github.com/fekuna/omnipos-shop-service/internal/i18n"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type MessageData struct {
	Message string `json:"message"`
}

// Responder writes the {success, data} / {success:false, error} envelope.
type Responder struct {
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewResponder(tr *i18n.Translator, log logger.ZapLogger) *Responder {
	return &Responder{tr: tr, logger: log}
}

func (r *Responder) OK(c echo.Context, status int, data any) error {
	return c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// Message answers with a localised {message} payload.
func (r *Responder) Message(c echo.Context, messageID, fallback string) error {
	return r.OK(c, http.StatusOK, MessageData{Message: r.localize(c, messageID, nil, fallback)})
}

func (r *Responder) Fail(c echo.Context, status int, messageID, fallback string) error {
	return c.JSON(status, ErrorResponse{Success: false, Error: r.localize(c, messageID, nil, fallback)})
}

// Error maps err onto a status code. Internal and dependency failures are
// logged and rendered with a generic message.
func (r *Responder) Error(c echo.Context, err error) error {
	e, ok := apperr.As(err)
	if !ok {
		r.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return r.Fail(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	}

	status := StatusFor(e.Kind)
	switch e.Kind {
	case apperr.KindDependency, apperr.KindInternal:
		r.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		id := e.Code
		if id == "" {
			id = "internal_error"
		}
		return r.Fail(c, status, id, "Internal server error")
	}

	return c.JSON(status, ErrorResponse{
		Success: false,
		Error:   r.localize(c, e.Code, e.Data, e.Message),
	})
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInsufficientStock:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (r *Responder) localize(c echo.Context, messageID string, data map[string]any, fallback string) string {
	return r.tr.Localize(c.Request().Header.Get("Accept-Language"), messageID, data, fallback)
}

// Package server assembles the echo instance that fronts every module.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-shop-service/config"
	"github.com/fekuna/omnipos-shop-service/internal/httpx"
	"github.com/fekuna/omnipos-shop-service/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const bodyLimit = "10M"

// Registrar is implemented by every module handler.
type Registrar interface {
	RegisterRoutes(g *echo.Group)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	echo   *echo.Echo
	cfg    *config.ServerConfig
	resp   *httpx.Responder
	checks map[string]HealthCheck
	logger logger.ZapLogger
}

func New(cfg *config.ServerConfig, resp *httpx.Responder, log logger.ZapLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		cfg:    cfg,
		resp:   resp,
		checks: map[string]HealthCheck{},
		logger: log,
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.AllowOrigins}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(s.requestLogger())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(s.rateLimiter()))
	}

	e.GET("/api/health", s.health)
	return s
}

// Mount registers a module under prefix, e.g. "/api/orders".
func (s *Server) Mount(prefix string, r Registrar) {
	r.RegisterRoutes(s.echo.Group(prefix))
}

func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("port", s.cfg.HTTPPort))
	if err := s.echo.Start(s.cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			if v.Status >= http.StatusInternalServerError {
				s.logger.Error("request", fields...)
			} else {
				s.logger.Info("request", fields...)
			}
			return nil
		},
	})
}

func (s *Server) rateLimiter() middleware.RateLimiterConfig {
	deny := func(c echo.Context, _ string, _ error) error {
		return s.resp.Fail(c, http.StatusTooManyRequests, "rate_limited", "Too many requests")
	}
	return middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/health"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.cfg.RateLimit),
				Burst:     s.cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return deny(c, "", err)
		},
		DenyHandler: deny,
	}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	res := healthResponse{Status: "ok", Timestamp: time.Now().UTC()}
	code := http.StatusOK

	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		res.Checks = make(map[string]string, len(s.checks))
		for name, check := range s.checks {
			if err := check(ctx); err != nil {
				res.Checks[name] = err.Error()
				res.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			res.Checks[name] = "ok"
		}
	}
	return c.JSON(code, res)
}

// handleError renders echo's own errors (unknown route, bad method, body
// too large) in the response envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = s.resp.Error(c, err)
		return
	}

	var werr error
	switch he.Code {
	case http.StatusNotFound:
		werr = s.resp.Fail(c, he.Code, "route_not_found", "Not found")
	case http.StatusInternalServerError:
		werr = s.resp.Error(c, err)
	default:
		werr = c.JSON(he.Code, httpx.ErrorResponse{Success: false, Error: fmt.Sprint(he.Message)})
	}
	if werr != nil {
		s.logger.Warn("failed to write error response", zap.Error(werr))
	}
}

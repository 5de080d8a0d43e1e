package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/ctxutil"
	"github.com/sv8bshs/enrollment/internal/metrics"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HTTPServer struct {
	e *echo.Echo
}

// NewEcho builds the router: request ids, access log, recovery, health, metrics
// and the enrollment API.
func NewEcho(svc Enrollment, db Pinger, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestContext)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method), zap.String("uri", v.URI), zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency), zap.String("request_id", v.RequestID))
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := db.Ping(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, "db not ok: "+err.Error())
		}
		metrics.ObserveDBPing(time.Since(t0))
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	NewHandler(svc, NewKeyLimiter()).Register(e.Group("/api"))
	return e
}

// requestContext copies the request id and the acting staff member into the request context.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := req.Context()
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			ctx = ctxutil.WithRequestID(ctx, id)
		}
		if actor := req.Header.Get("X-Actor"); actor != "" {
			ctx = ctxutil.WithActor(ctx, actor)
		}
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

// StartHTTP serves until ctx ends, then shuts down gracefully.
func StartHTTP(ctx context.Context, addr string, e *echo.Echo, log *zap.Logger) *HTTPServer {
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = e.Shutdown(shCtx)
	}()

	return &HTTPServer{e: e}
}

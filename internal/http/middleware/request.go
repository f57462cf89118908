package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/http/handlers"
	"github.com/you/aarogyam/internal/infrastructure/metrics"
)

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

// RequestContext tags the request with an id and detaches its context from
// client cancellation. Downstream work is bounded only by timeout.
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		ctx := context.WithoutCancel(c.Request.Context())
		cancel := context.CancelFunc(func() {})
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()

		c.Request = c.Request.WithContext(domain.ContextWithRequestID(ctx, id))
		c.Next()
	}
}

// ExposeErrors lets WriteError include internal error detail. Only enabled in development.
func ExposeErrors(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handlers.ContextExposeErrors, enabled)
		c.Next()
	}
}

// RequestLogger logs every request and records its latency histogram
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		latency := time.Since(start)
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Observe(latency.Seconds())

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("request_id", domain.RequestIDFromContext(c.Request.Context())),
		}
		if uid := c.GetUint(handlers.ContextUserID); uid != 0 {
			fields = append(fields, zap.Uint("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Recovery turns a panic into the standard 500 envelope
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", domain.RequestIDFromContext(c.Request.Context())),
			zap.Stack("stack"),
		)
		handlers.WriteError(c, fmt.Errorf("panic: %v", recovered))
	})
}

package middleware

import (
	"strconv"
	"time"

	"yatube/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID 透传或生成请求 id，并写入 context 供日志使用；客户端传入的 id 必须是 uuid
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if id, err := uuid.Parse(rid); err == nil {
			rid = id.String()
		} else {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// RequestLogger 访问日志 + 请求计数/耗时
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		latency := time.Since(start)

		observability.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		observability.HTTPLatency.WithLabelValues(route).Observe(latency.Seconds())

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		if status >= 500 {
			observability.Logger.ErrorContext(c.Request.Context(), "request", args...)
			return
		}
		observability.Logger.InfoContext(c.Request.Context(), "request", args...)
	}
}

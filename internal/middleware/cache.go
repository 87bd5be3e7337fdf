package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"yatube/internal/observability"

	"github.com/gin-gonic/gin"
)

// PageStore 整页缓存存储，redis.PageCache 实现
type PageStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

const cachedContentType = "text/html; charset=utf-8"

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageCacheKey 路由 + 原始查询串 + 访问者
func PageCacheKey(route string, c *gin.Context) string {
	viewer := "anon"
	if id := UserID(c); id != 0 {
		viewer = strconv.FormatUint(id, 10)
	}
	return route + "?" + c.Request.URL.RawQuery + "|" + viewer
}

// CachePage 缓存 GET 的 200 响应 ttl 时长；写操作不会使其失效
func CachePage(store PageStore, ttl time.Duration, route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || ttl <= 0 {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := PageCacheKey(route, c)

		body, ok, err := store.Get(ctx, key)
		switch {
		case err != nil:
			// redis 不可用时直接回源
			observability.PageCacheRequests.WithLabelValues(route, "error").Inc()
			observability.Logger.WarnContext(ctx, "page cache get failed", "key", key, "error", err)
		case ok:
			observability.PageCacheRequests.WithLabelValues(route, "hit").Inc()
			c.Data(http.StatusOK, cachedContentType, body)
			c.Abort()
			return
		default:
			observability.PageCacheRequests.WithLabelValues(route, "miss").Inc()
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK || len(c.Errors) > 0 {
			return
		}
		if err := store.Set(ctx, key, rec.buf.Bytes(), ttl); err != nil {
			observability.Logger.WarnContext(ctx, "page cache set failed", "key", key, "error", err)
		}
	}
}

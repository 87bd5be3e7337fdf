package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/repository/redis"
	"yatube/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCachedEngine(t *testing.T, ttl time.Duration) (*gin.Engine, *int, func(time.Duration)) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr, rdb := testutil.NewTestRedis(t)

	calls := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		// 模拟登录用户
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			var id uint64
			fmt.Sscan(uid, &id)
			c.Set(middleware.ContextUserIDKey, id)
		}
		c.Next()
	})
	cache := middleware.CachePage(&redis.PageCache{RDB: rdb}, ttl, "index")
	r.GET("/", cache, func(c *gin.Context) {
		calls++
		if c.Query("fail") != "" {
			c.String(http.StatusInternalServerError, "boom %d", calls)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf("render %d", calls)))
	})
	return r, &calls, mr.FastForward
}

func get(r http.Handler, target, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCachePageServesStoredBodyUntilTTL(t *testing.T) {
	r, calls, fastForward := newCachedEngine(t, 20*time.Second)

	assert.Equal(t, "render 1", get(r, "/", "").Body.String())
	assert.Equal(t, "render 1", get(r, "/", "").Body.String())
	assert.Equal(t, 1, *calls)

	// 查询串不同视为不同页面
	assert.Equal(t, "render 2", get(r, "/?page=2", "").Body.String())
	// 登录用户与匿名用户分开缓存
	assert.Equal(t, "render 3", get(r, "/", "7").Body.String())
	assert.Equal(t, "render 3", get(r, "/", "7").Body.String())

	fastForward(21 * time.Second)
	assert.Equal(t, "render 4", get(r, "/", "").Body.String())
}

func TestCachePageSkipsErrors(t *testing.T) {
	r, calls, _ := newCachedEngine(t, time.Minute)

	w := get(r, "/?fail=1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	get(r, "/?fail=1", "")
	assert.Equal(t, 2, *calls)
}

func TestPageCacheKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3", nil)
	assert.Equal(t, "index?page=3|anon", middleware.PageCacheKey("index", c))

	c.Set(middleware.ContextUserIDKey, uint64(12))
	assert.Equal(t, "index?page=3|12", middleware.PageCacheKey("index", c))
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	get := func(rid string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if rid != "" {
			req.Header.Set(middleware.RequestIDHeader, rid)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Header().Get(middleware.RequestIDHeader)
	}

	// 合法 uuid 原样透传
	given := uuid.NewString()
	assert.Equal(t, given, get(given))

	for _, bad := range []string{"", "not-a-uuid", strings.Repeat("a", 4096), "abc\r\ninjected: 1"} {
		got := get(bad)
		assert.NotEqual(t, bad, got)
		_, err := uuid.Parse(got)
		require.NoError(t, err, "replacement for %q", bad)
	}
}

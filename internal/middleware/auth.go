package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/model"
	"yatube/internal/observability"
	"yatube/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextUserKey   = "user"

	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	LoginURL = "/auth/login/"
)

// Authenticator 由 UserService 实现
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, *model.User, error)
}

// SetAuthCookies 登录/刷新后写回 cookie
func SetAuthCookies(c *gin.Context, pair *pkg.Pair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, pair.AccessToken, int(pkg.AccessTTL.Seconds()), "/", "", false, true)
	c.SetCookie(RefreshCookie, pair.RefreshToken, int(pkg.RefreshTTL.Seconds()), "/", "", false, true)
}

func ClearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", false, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", false, true)
}

func accessToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	token, _ := c.Cookie(AccessCookie)
	return token
}

// OptionalAuth 识别当前用户，匿名请求照常放行
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var user *model.User
		if token := accessToken(c); token != "" {
			u, err := auth.Authenticate(ctx, token)
			if err == nil {
				user = u
			} else if !errors.Is(err, pkg.ErrTokenExpired) {
				observability.Logger.DebugContext(ctx, "access token rejected", "error", err)
			}
		}

		// access 过期或被挤下线时尝试用 refresh 换新
		if user == nil {
			if refresh, _ := c.Cookie(RefreshCookie); refresh != "" {
				pair, u, err := auth.Refresh(ctx, refresh)
				if err == nil {
					SetAuthCookies(c, pair)
					user = u
				} else {
					ClearAuthCookies(c)
				}
			}
		}

		if user != nil {
			c.Set(ContextUserIDKey, user.ID)
			c.Set(ContextUserKey, user)
			c.Request = c.Request.WithContext(observability.WithUserID(ctx, user.ID))
		}
		c.Next()
	}
}

// LoginRequired 未登录时跳转登录页并带上 next
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == 0 {
			c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID 当前登录用户，匿名为 0
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if u, ok2 := v.(*model.User); ok2 {
			return u
		}
	}
	return nil
}

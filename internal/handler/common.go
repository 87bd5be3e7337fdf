package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// render 注入当前用户后渲染页面
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if u := middleware.CurrentUser(c); u != nil {
		data["user"] = u
	} else {
		data["user"] = nil
	}
	if _, ok := data["error"]; !ok {
		data["error"] = ""
	}
	c.HTML(status, name, data)
}

// NotFound 自定义 404 页面
func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{"title": "Page not found", "path": c.Request.URL.Path})
}

// ServerError 自定义 500 页面
func ServerError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "500.html", gin.H{"title": "Server error"})
}

// Recovery panic 时返回 500 页面
func Recovery(c *gin.Context, rec any) {
	observability.Logger.ErrorContext(c.Request.Context(), "panic recovered", "panic", rec, "path", c.Request.URL.Path)
	ServerError(c)
	c.Abort()
}

// Static 纯静态页面
func Static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, name, gin.H{"title": title})
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

// fail 按错误类型收敛；表单校验错误由调用方自行处理
func fail(c *gin.Context, err error) {
	switch {
	case model.IsNotFound(err):
		NotFound(c)
	case model.IsUnauthorized(err):
		redirectToLogin(c)
	default:
		_ = c.Error(err)
		observability.Logger.ErrorContext(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		ServerError(c)
	}
}

// uintParam 路径参数非法时直接按 404 处理
func uintParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		NotFound(c)
		return 0, false
	}
	return id, true
}

// safeNext 只允许站内跳转
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

func postURL(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

var fieldLabels = map[string]string{
	"OldPassword": "Old password",
	"NewPassword": "New password",
}

// bindMessage 表单校验失败时的提示，只展示第一条
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission"
	}
	fe := verrs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, fe.Param())
	case "numeric":
		return label + " must contain digits only"
	}
	return "Invalid " + strings.ToLower(label)
}

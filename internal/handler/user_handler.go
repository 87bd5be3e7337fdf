package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

// SignupForm 注册表单
type SignupForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type ChangePasswordForm struct {
	OldPassword string `form:"old_password" binding:"required"`
	NewPassword string `form:"new_password" binding:"required,min=8"`
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) SignupForm(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"title": "Sign up", "username": "", "email": ""})
}

// Signup 注册成功后直接登录
func (h *UserHandler) Signup(c *gin.Context) {
	var form SignupForm
	invalid := func(msg string) {
		render(c, http.StatusBadRequest, "signup.html", gin.H{
			"title":    "Sign up",
			"username": form.Username,
			"email":    form.Email,
			"error":    msg,
		})
	}
	if err := c.ShouldBind(&form); err != nil {
		invalid(bindMessage(err))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.svc.Register(ctx, form.Username, form.Email, form.Password); err != nil {
		if model.IsValidation(err) {
			invalid(validationMessage(err))
			return
		}
		fail(c, err)
		return
	}
	token, _, err := h.svc.Login(ctx, form.Username, form.Password)
	if err != nil {
		fail(c, err)
		return
	}
	middleware.SetAuthCookies(c, token)
	c.Redirect(http.StatusFound, "/")
}

func (h *UserHandler) LoginForm(c *gin.Context) {
	message := ""
	switch {
	case c.Query("changed") != "":
		message = "Your password was changed. Log in again."
	case c.Query("reset") != "":
		message = "Your password has been set. You may log in now."
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"title":    "Log in",
		"next":     c.Query("next"),
		"username": "",
		"message":  message,
	})
}

// Login 登录接口，成功后写入 access/refresh cookie
func (h *UserHandler) Login(c *gin.Context) {
	var form LoginForm
	invalid := func(msg string) {
		render(c, http.StatusBadRequest, "login.html", gin.H{
			"title":    "Log in",
			"next":     form.Next,
			"username": form.Username,
			"message":  "",
			"error":    msg,
		})
	}
	if err := c.ShouldBind(&form); err != nil {
		invalid(bindMessage(err))
		return
	}

	token, _, err := h.svc.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if model.IsUnauthorized(err) {
			invalid(validationMessage(err))
			return
		}
		fail(c, err)
		return
	}
	middleware.SetAuthCookies(c, token)
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

// Logout 匿名访问也直接清 cookie
func (h *UserHandler) Logout(c *gin.Context) {
	if uid := middleware.UserID(c); uid != 0 {
		if err := h.svc.Logout(c.Request.Context(), uid); err != nil {
			fail(c, err)
			return
		}
	}
	middleware.ClearAuthCookies(c)
	c.Redirect(http.StatusFound, "/")
}

// TokenRefresh 利用refresh来更新access，供 Bearer 客户端使用
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, _, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *UserHandler) PasswordChangeForm(c *gin.Context) {
	render(c, http.StatusOK, "password_change.html", gin.H{"title": "Change password"})
}

// PasswordChange 修改成功后需要重新登录
func (h *UserHandler) PasswordChange(c *gin.Context) {
	var form ChangePasswordForm
	invalid := func(msg string) {
		render(c, http.StatusBadRequest, "password_change.html", gin.H{
			"title": "Change password",
			"error": msg,
		})
	}
	if err := c.ShouldBind(&form); err != nil {
		invalid(bindMessage(err))
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), middleware.UserID(c), form.OldPassword, form.NewPassword)
	if err != nil {
		if model.IsValidation(err) {
			invalid(validationMessage(err))
			return
		}
		fail(c, err)
		return
	}
	middleware.ClearAuthCookies(c)
	c.Redirect(http.StatusFound, middleware.LoginURL+"?changed=1")
}

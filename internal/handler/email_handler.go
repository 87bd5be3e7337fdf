package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

// EmailHandler 邮件验证码找回密码
type EmailHandler struct {
	svc *service.UserService
}

type ResetRequestForm struct {
	Email string `form:"email" binding:"required,email"`
}

// ResetConfirmForm 忘记密码请求体
type ResetConfirmForm struct {
	Email       string `form:"email" binding:"required,email"`
	Code        string `form:"code" binding:"required,len=6,numeric"`
	NewPassword string `form:"new_password" binding:"required,min=8"`
}

func NewEmailHandler(svc *service.UserService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

func (h *EmailHandler) ResetForm(c *gin.Context) {
	render(c, http.StatusOK, "password_reset.html", gin.H{"title": "Reset password", "email": ""})
}

// SendResetCode 是否存在该邮箱都展示同一页面
func (h *EmailHandler) SendResetCode(c *gin.Context) {
	var form ResetRequestForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "password_reset.html", gin.H{
			"title": "Reset password",
			"email": form.Email,
			"error": bindMessage(err),
		})
		return
	}
	email := form.Email
	if err := h.svc.RequestPasswordReset(c.Request.Context(), email); err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "password_reset_confirm.html", gin.H{"title": "Set a new password", "email": email})
}

// ConfirmReset 校验code后设置新密码
func (h *EmailHandler) ConfirmReset(c *gin.Context) {
	var form ResetConfirmForm
	invalid := func(msg string) {
		render(c, http.StatusBadRequest, "password_reset_confirm.html", gin.H{
			"title": "Set a new password",
			"email": form.Email,
			"error": msg,
		})
	}
	if err := c.ShouldBind(&form); err != nil {
		invalid(bindMessage(err))
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), form.Email, form.Code, form.NewPassword); err != nil {
		if model.IsValidation(err) {
			invalid(validationMessage(err))
			return
		}
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginURL+"?reset=1")
}

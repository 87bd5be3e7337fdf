package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(svc *service.FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// Follow 关注后回到作者主页
func (h *FollowHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	if _, err := h.svc.Follow(c.Request.Context(), middleware.UserID(c), username); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(username))
}

// Unfollow 未关注时同样直接回到主页
func (h *FollowHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	if _, err := h.svc.Unfollow(c.Request.Context(), middleware.UserID(c), username); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(username))
}

package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	svc *service.FeedService
}

func NewFeedHandler(svc *service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// Index 全站 feed
func (h *FeedHandler) Index(c *gin.Context) {
	page, err := h.svc.Index(c.Request.Context(), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{"title": "Latest updates", "page": page})
}

// GroupPosts 分组 feed
func (h *FeedHandler) GroupPosts(c *gin.Context) {
	group, page, err := h.svc.GroupPosts(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "group_list.html", gin.H{"title": group.Title, "group": group, "page": page})
}

// Profile 作者 feed 与关注状态
func (h *FeedHandler) Profile(c *gin.Context) {
	view, err := h.svc.Profile(c.Request.Context(), c.Param("username"), middleware.UserID(c), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{"title": view.Author.FullName(), "profile": view})
}

// FollowIndex 关注 feed
func (h *FeedHandler) FollowIndex(c *gin.Context) {
	page, err := h.svc.FollowIndex(c.Request.Context(), middleware.UserID(c), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "follow.html", gin.H{"title": "Subscriptions", "page": page})
}

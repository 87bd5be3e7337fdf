package handler

import (
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

type commentForm struct {
	Text string `form:"text"`
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// AddComment 无论成功与否都回到帖子详情；空评论不保存
func (h *CommentHandler) AddComment(c *gin.Context) {
	postID, ok := uintParam(c, "post_id")
	if !ok {
		return
	}
	var form commentForm
	_ = c.ShouldBind(&form)

	if _, err := h.svc.AddComment(c.Request.Context(), middleware.UserID(c), postID, form.Text); err != nil && !model.IsValidation(err) {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}

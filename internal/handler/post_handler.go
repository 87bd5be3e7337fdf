package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

// PostForm 创建/编辑表单
type PostForm struct {
	Text  string `form:"text"`
	Group string `form:"group"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// input 分组为空表示不选；非数字按无效分组处理
func (f *PostForm) input(image *multipart.FileHeader) (service.PostInput, error) {
	in := service.PostInput{Text: f.Text, Image: image}
	if f.Group != "" {
		id, err := strconv.ParseUint(f.Group, 10, 64)
		if err != nil {
			return in, model.NewValidationError("Select a valid group")
		}
		in.GroupID = &id
	}
	return in, nil
}

func (h *PostHandler) renderForm(c *gin.Context, status int, postID uint64, text string, groupID *uint64, formErr string) {
	groups, err := h.svc.Groups(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	var selected uint64
	if groupID != nil {
		selected = *groupID
	}
	title := "New post"
	if postID != 0 {
		title = "Edit post"
	}
	render(c, status, "create_post.html", gin.H{
		"title":    title,
		"is_edit":  postID != 0,
		"post_id":  postID,
		"text":     text,
		"group_id": selected,
		"groups":   groups,
		"error":    formErr,
	})
}

func bindPostForm(c *gin.Context) (PostForm, service.PostInput, error) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		if middleware.IsBodyTooLarge(err) {
			return form, service.PostInput{}, model.NewValidationError("Image file is too large")
		}
		return form, service.PostInput{}, model.NewValidationError("invalid form")
	}
	// 没有上传图片时 FormFile 返回 ErrMissingFile
	image, err := c.FormFile("image")
	if err != nil {
		image = nil
	}
	in, err := form.input(image)
	return form, in, err
}

// Detail 帖子详情，不走页面缓存
func (h *PostHandler) Detail(c *gin.Context) {
	postID, ok := uintParam(c, "post_id")
	if !ok {
		return
	}
	detail, err := h.svc.Detail(c.Request.Context(), postID)
	if err != nil {
		fail(c, err)
		return
	}
	uid := middleware.UserID(c)
	render(c, http.StatusOK, "post_detail.html", gin.H{
		"title":  detail.Post.String(),
		"detail": detail,
		"owner":  uid != 0 && uid == detail.Post.AuthorID,
	})
}

func (h *PostHandler) CreateForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, 0, "", nil, "")
}

// Create 成功后跳到作者主页
func (h *PostHandler) Create(c *gin.Context) {
	form, in, err := bindPostForm(c)
	if err == nil {
		_, err = h.svc.CreatePost(c.Request.Context(), middleware.UserID(c), in)
	}
	if err != nil {
		if model.IsValidation(err) {
			h.renderForm(c, http.StatusBadRequest, 0, form.Text, in.GroupID, validationMessage(err))
			return
		}
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(middleware.CurrentUser(c).Username))
}

// EditForm 非作者静默跳回详情页
func (h *PostHandler) EditForm(c *gin.Context) {
	postID, ok := uintParam(c, "post_id")
	if !ok {
		return
	}
	post, err := h.svc.Owned(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		if model.IsForbidden(err) {
			c.Redirect(http.StatusFound, postURL(postID))
			return
		}
		fail(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, post.ID, post.Text, post.GroupID, "")
}

func (h *PostHandler) Edit(c *gin.Context) {
	postID, ok := uintParam(c, "post_id")
	if !ok {
		return
	}
	form, in, err := bindPostForm(c)
	if err == nil {
		_, err = h.svc.EditPost(c.Request.Context(), middleware.UserID(c), postID, in)
	}
	if err != nil {
		switch {
		case model.IsForbidden(err):
			c.Redirect(http.StatusFound, postURL(postID))
		case model.IsValidation(err):
			h.renderForm(c, http.StatusBadRequest, postID, form.Text, in.GroupID, validationMessage(err))
		default:
			fail(c, err)
		}
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}

// Delete 删除后回到作者主页；全站缓存等 TTL 自然过期
func (h *PostHandler) Delete(c *gin.Context) {
	postID, ok := uintParam(c, "post_id")
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), middleware.UserID(c), postID); err != nil {
		if model.IsForbidden(err) {
			c.Redirect(http.StatusFound, postURL(postID))
			return
		}
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(middleware.CurrentUser(c).Username))
}

func validationMessage(err error) string {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"yatube/internal/model"
	"yatube/internal/observability"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

// PostInput 创建/编辑表单
type PostInput struct {
	Text    string
	GroupID *uint64
	Image   *multipart.FileHeader
}

// PostDetail 帖子详情页
type PostDetail struct {
	Post            *model.Post
	AuthorPostCount int64
	Comments        []model.Comment
}

type PostService struct {
	repo     *mysql.PostRepository
	groups   *mysql.GroupRepository
	comments *mysql.CommentRepository
	media    *pkg.MediaStore
}

func NewPostService(db *gorm.DB, media *pkg.MediaStore) *PostService {
	return &PostService{
		repo:     &mysql.PostRepository{DB: db},
		groups:   &mysql.GroupRepository{DB: db},
		comments: &mysql.CommentRepository{DB: db},
		media:    media,
	}
}

func (s *PostService) Groups(ctx context.Context) ([]model.Group, error) {
	return s.groups.List(ctx)
}

func (s *PostService) Detail(ctx context.Context, postID uint64) (*PostDetail, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, "post", postID)
	}
	count, err := s.repo.Count(ctx, mysql.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, AuthorPostCount: count, Comments: comments}, nil
}

// validate 校验文本和分组，通过后才保存图片
func (s *PostService) validate(ctx context.Context, in *PostInput) error {
	if strings.TrimSpace(in.Text) == "" {
		return model.NewValidationError("Please fill empty field")
	}
	if in.GroupID != nil {
		if _, err := s.groups.FindByID(ctx, *in.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NewValidationError("Select a valid group")
			}
			return err
		}
	}
	return nil
}

func (s *PostService) saveImage(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	if s.media == nil {
		return "", model.NewValidationError("image uploads are disabled")
	}
	rel, err := s.media.SavePostImage(fh)
	switch {
	case errors.Is(err, pkg.ErrNotAnImage):
		return "", model.NewValidationError("Upload a valid image")
	case errors.Is(err, pkg.ErrFileTooLarge):
		return "", model.NewValidationError("Image file is too large")
	}
	return rel, err
}

func (s *PostService) removeImage(ctx context.Context, rel string) {
	if s.media == nil || rel == "" {
		return
	}
	if err := s.media.Remove(rel); err != nil {
		observability.Logger.WarnContext(ctx, "remove post image failed", "image", rel, "error", err)
	}
}

// CreatePost pub_date 由数据库写入时生成
func (s *PostService) CreatePost(ctx context.Context, authorID uint64, in PostInput) (*model.Post, error) {
	if authorID == 0 {
		return nil, model.NewUnauthorizedError("login required")
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}
	image, err := s.saveImage(in.Image)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     in.Text,
		GroupID:  in.GroupID,
		AuthorID: authorID,
		Image:    image,
	}
	if err = s.repo.Create(ctx, post); err != nil {
		s.removeImage(ctx, image)
		return nil, err
	}
	return post, nil
}

// EditPost 只有作者本人可以编辑，其他人返回 Forbidden
func (s *PostService) EditPost(ctx context.Context, actorID, postID uint64, in PostInput) (*model.Post, error) {
	post, err := s.Owned(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}
	if err = s.validate(ctx, &in); err != nil {
		return nil, err
	}
	image, err := s.saveImage(in.Image)
	if err != nil {
		return nil, err
	}

	oldImage := post.Image
	post.Text = in.Text
	post.GroupID = in.GroupID
	if image != "" {
		post.Image = image
	}
	if err = s.repo.Update(ctx, post); err != nil {
		s.removeImage(ctx, image)
		return nil, err
	}
	if image != "" && oldImage != "" {
		s.removeImage(ctx, oldImage)
	}
	return post, nil
}

// Owned 取帖子并做归属校验
func (s *PostService) Owned(ctx context.Context, actorID, postID uint64) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, "post", postID)
	}
	if post.AuthorID != actorID {
		return nil, model.NewForbiddenError("only the author can change this post")
	}
	return post, nil
}

// DeletePost 作者删除帖子，评论随之删除
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint64) error {
	post, err := s.Owned(ctx, actorID, postID)
	if err != nil {
		return err
	}
	return s.delete(ctx, post)
}

// DeletePostAdmin 管理命令使用，不做归属校验
func (s *PostService) DeletePostAdmin(ctx context.Context, postID uint64) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return notFoundOr(err, "post", postID)
	}
	return s.delete(ctx, post)
}

func (s *PostService) delete(ctx context.Context, post *model.Post) error {
	deleted, err := s.repo.Delete(ctx, post.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewNotFoundError("post", post.ID)
	}
	s.removeImage(ctx, post.Image)
	return nil
}

package service

import (
	"context"
	"strings"

	"yatube/internal/model"
	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommentService struct {
	repo  *mysql.CommentRepository
	posts *mysql.PostRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:  &mysql.CommentRepository{DB: db},
		posts: &mysql.PostRepository{DB: db},
	}
}

// AddComment 追加评论，created 由写入时间决定
func (s *CommentService) AddComment(ctx context.Context, authorID, postID uint64, text string) (*model.Comment, error) {
	if authorID == 0 {
		return nil, model.NewUnauthorizedError("login required")
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, "post", postID)
	}
	if strings.TrimSpace(text) == "" {
		return nil, model.NewValidationError("Please fill empty field")
	}
	c := &model.Comment{
		PostID:   &post.ID,
		AuthorID: authorID,
		Text:     text,
	}
	if err = s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

type GroupService struct {
	repo *mysql.GroupRepository
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{repo: &mysql.GroupRepository{DB: db}}
}

func (s *GroupService) CreateGroup(ctx context.Context, title, slug, desc string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, model.NewValidationError("group title required")
	}
	if !pkg.IsSlug(slug) {
		return nil, model.NewValidationError("slug may contain only letters, numbers, underscores and hyphens")
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, model.NewValidationError("group with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	group := &model.Group{
		Title:       title,
		Slug:        slug,
		Description: desc,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, model.NewValidationError("group with this slug already exists")
		}
		return nil, err
	}
	return group, nil
}

// DeleteGroup 帖子保留，只是不再属于任何分组
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	deleted, err := s.repo.DeleteBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewNotFoundError("group", slug)
	}
	return nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]model.Group, error) {
	return s.repo.List(ctx)
}

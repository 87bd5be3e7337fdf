package service

import (
	"context"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

// PostPage feed 的一页
type PostPage = pkg.Page[model.Post]

// ProfileView 作者主页
type ProfileView struct {
	Author         *model.User
	Page           *PostPage
	PostCount      int
	FollowersCount int64
	FollowingCount int64
	Following      bool
}

// FeedService 四种 feed：全站、分组、作者、关注
type FeedService struct {
	posts   *mysql.PostRepository
	groups  *mysql.GroupRepository
	users   *mysql.UserRepository
	follows *mysql.FollowRepository
	perPage int
}

func NewFeedService(db *gorm.DB, perPage int) *FeedService {
	if perPage <= 0 {
		perPage = 10
	}
	return &FeedService{
		posts:   &mysql.PostRepository{DB: db},
		groups:  &mysql.GroupRepository{DB: db},
		users:   &mysql.UserRepository{DB: db},
		follows: &mysql.FollowRepository{DB: db},
		perPage: perPage,
	}
}

func (s *FeedService) page(ctx context.Context, f mysql.PostFilter, rawPage string) (*PostPage, error) {
	total, err := s.posts.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := pkg.NewPage[model.Post](rawPage, int(total), s.perPage)
	if total == 0 {
		return page, nil
	}
	page.Items, err = s.posts.List(ctx, f, page.Offset(), page.PerPage)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Index 全站 feed
func (s *FeedService) Index(ctx context.Context, rawPage string) (*PostPage, error) {
	return s.page(ctx, mysql.PostFilter{}, rawPage)
}

// GroupPosts 分组 feed，slug 不存在返回 NotFound
func (s *FeedService) GroupPosts(ctx context.Context, slug, rawPage string) (*model.Group, *PostPage, error) {
	group, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, notFoundOr(err, "group", slug)
	}
	page, err := s.page(ctx, mysql.PostFilter{GroupID: group.ID}, rawPage)
	if err != nil {
		return nil, nil, err
	}
	return group, page, nil
}

// Profile 作者 feed；viewerID 为 0 表示匿名访问
func (s *FeedService) Profile(ctx context.Context, username string, viewerID uint64, rawPage string) (*ProfileView, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "user", username)
	}
	page, err := s.page(ctx, mysql.PostFilter{AuthorID: author.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	view := &ProfileView{
		Author:    author,
		Page:      page,
		PostCount: page.Count,
	}
	if view.FollowersCount, err = s.follows.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if view.FollowingCount, err = s.follows.CountFollowings(ctx, author.ID); err != nil {
		return nil, err
	}
	if viewerID != 0 {
		if view.Following, err = s.follows.IsFollowing(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// FollowIndex 当前用户关注的作者的帖子；没有关注时为空
func (s *FeedService) FollowIndex(ctx context.Context, userID uint64, rawPage string) (*PostPage, error) {
	if userID == 0 {
		return nil, model.NewUnauthorizedError("login required")
	}
	return s.page(ctx, mysql.PostFilter{FollowerID: userID}, rawPage)
}

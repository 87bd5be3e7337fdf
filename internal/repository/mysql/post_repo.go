package mysql

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
)

// PostFilter 四种 feed 的筛选条件，零值表示全部帖子
type PostFilter struct {
	GroupID    uint64
	AuthorID   uint64
	FollowerID uint64
}

func (f PostFilter) scope(db *gorm.DB) *gorm.DB {
	if f.GroupID != 0 {
		db = db.Where("posts.group_id = ?", f.GroupID)
	}
	if f.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.FollowerID != 0 {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.Follow{}).
			Select("author_id").
			Where("user_id = ?", f.FollowerID)
		db = db.Where("posts.author_id IN (?)", sub)
	}
	return db
}

// defaultOrdering 主键升序优先，发布时间降序其次
func defaultOrdering(db *gorm.DB) *gorm.DB {
	return db.Order("posts.id ASC").Order("posts.pub_date DESC")
}

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	return &post, err
}

// Update 只更新可编辑字段，pub_date 与 author 不变
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Model(post).
		Select("text", "group_id", "image").
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// Count 按筛选条件统计
func (r *PostRepository) Count(ctx context.Context, f PostFilter) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Scopes(f.scope).Count(&n).Error
	return n, err
}

// List 基础分页查询
func (r *PostRepository) List(ctx context.Context, f PostFilter, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Model(&model.Post{}).
		Scopes(f.scope, defaultOrdering).
		Preload("Author").
		Preload("Group").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Delete 同一事务内先删评论再删帖子；不存在时返回 false
func (r *PostRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

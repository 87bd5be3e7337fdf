package mysql

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint64) (*model.Group, error) {
	var group model.Group
	err := r.DB.WithContext(ctx).First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var group model.Group
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	return &group, err
}

func (r *GroupRepository) List(ctx context.Context) ([]model.Group, error) {
	var list []model.Group
	err := r.DB.WithContext(ctx).Order("title").Order("id").Find(&list).Error
	return list, err
}

// DeleteBySlug 先把帖子的 group_id 置空再删分组，不依赖数据库外键行为；不存在时返回 false
func (r *GroupRepository) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.Group
		res := tx.Where("slug = ?", slug).Limit(1).Find(&g)
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		if err := tx.Model(&model.Post{}).
			Where("group_id = ?", g.ID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Group{}, g.ID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

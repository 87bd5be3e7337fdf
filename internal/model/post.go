package model

import "time"

// Post 删除分组时 group_id 置空；删除作者时帖子级联删除
type Post struct {
	ID       uint64    `gorm:"primaryKey"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"autoCreateTime;not null;index"`
	GroupID  *uint64   `gorm:"index"`
	Group    *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	AuthorID uint64    `gorm:"not null;index"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Image    string    `gorm:"size:255"`
}

func (p Post) String() string { return p.Text }

// Comment 帖子删除时评论一起删除
type Comment struct {
	ID       uint64    `gorm:"primaryKey"`
	PostID   *uint64   `gorm:"index"`
	Post     *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID uint64    `gorm:"not null;index"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text     string    `gorm:"type:text;not null"`
	Created  time.Time `gorm:"autoCreateTime;not null;index"`
}

func (c Comment) String() string { return c.Text }

package model

// Group 主题社区，只通过管理命令创建
type Group struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"uniqueIndex;size:50;not null"`
	Description string `gorm:"type:text"`
}

func (g Group) String() string { return g.Title }

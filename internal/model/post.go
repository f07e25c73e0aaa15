package model

import (
	"time"
)

type Post struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"not null;index:idx_user_id" json:"user_id"`

	// 作者快照，写入时冗余
	AuthorName     string `gorm:"type:varchar(50);not null" json:"author_name"`
	AuthorUsername string `gorm:"type:varchar(50);not null" json:"author_username"`
	AuthorAvatar   string `gorm:"type:varchar(512)" json:"author_avatar"`

	Title          string   `gorm:"type:varchar(255);not null" json:"title"`
	Content        string   `gorm:"type:longtext;not null" json:"content"` // 规范形式(富文本 HTML)
	Tags           []string `gorm:"type:json;serializer:json" json:"tags"`
	TagsLower      []string `gorm:"type:json;serializer:json" json:"tags_lower"`
	TitleForSearch []string `gorm:"type:json;serializer:json" json:"title_for_search"`
	CoverImage     string   `gorm:"type:varchar(512)" json:"cover_image"`

	// 互动数据，发布流程只读不改
	TotalReads int64    `gorm:"not null;default:0" json:"total_reads"`
	Likes      []uint64 `gorm:"type:json;serializer:json" json:"likes"`
	Bookmarks  []uint64 `gorm:"type:json;serializer:json" json:"bookmarks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// PostMutableColumns 作者编辑时允许更新的列
var PostMutableColumns = []string{"title", "content", "tags", "tags_lower", "title_for_search", "cover_image", "updated_at"}

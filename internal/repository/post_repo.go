package repository

import (
	"Chatter/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) (uint64, error)
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	UpdatePostCover(ctx context.Context, id uint64, coverURL string) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// CreatePost 写入帖子并返回数据库分配的 ID
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) (uint64, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return 0, err
	}
	return post.ID, nil
}

// GetPost 不存在时返回 nil, nil
func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost 只更新作者可编辑的列，创建时间与互动数据不会被覆盖
func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).
		Model(post).
		Select(model.PostMutableColumns).
		Updates(post).Error
}

// UpdatePostCover 封面上传完成后回填
func (s *PostRepoImpl) UpdatePostCover(ctx context.Context, id uint64, coverURL string) error {
	return s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("cover_image", coverURL).Error
}

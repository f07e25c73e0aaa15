package repository

import (
	"Chatter/internal/model"
	"context"

	"gorm.io/gorm"
)

type UserFollowRepo interface {
	GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type UserFollowRepoImpl struct {
	db *gorm.DB
}

func NewUserFollowRepo(db *gorm.DB) UserFollowRepo {
	return &UserFollowRepoImpl{db: db}
}

// GetFollowerIDs 获取用户全部粉丝 ID
func (s *UserFollowRepoImpl) GetFollowerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	result := s.db.WithContext(ctx).
		Model(&model.UserFollow{}).
		Where("following_id = ?", userID).
		Order("created_at asc").
		Pluck("follower_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

package model

import "time"

// UserFollow FollowerID 关注了 FollowingID
// 新帖扇出按 FollowingID(作者) 查询全部粉丝
type UserFollow struct {
	FollowerID  uint64    `gorm:"primaryKey" json:"follower_id"`
	FollowingID uint64    `gorm:"primaryKey;index:idx_following_id" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}

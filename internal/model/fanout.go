package model

import "time"

// AuthorSnapshot 发送者身份快照
type AuthorSnapshot struct {
	UserID   uint64 `json:"user_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// PostSnapshot 通知里引用的帖子信息
type PostSnapshot struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	CoverImage string `json:"cover_image"`
}

// FanoutJob 一次新帖通知扇出
// Seed 每次发布随机生成，与粉丝 ID 一起确定记录 ID，重投递时 ID 不变
type FanoutJob struct {
	Seed        string         `json:"seed"`
	Post        PostSnapshot   `json:"post"`
	Sender      AuthorSnapshot `json:"sender"`
	FollowerIDs []uint64       `json:"follower_ids"`
	PublishedAt time.Time      `json:"published_at"`
}

// FanoutReport 扇出结果，各子批次独立提交
type FanoutReport struct {
	Followers    int `json:"followers"`
	Delivered    int `json:"delivered"`
	Chunks       int `json:"chunks"`
	FailedChunks int `json:"failed_chunks"`
	Duplicates   int `json:"duplicates"`
}

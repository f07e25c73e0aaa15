package mongo

import (
	"time"
)

// SenderDetails 发送者快照，写入时冗余
type SenderDetails struct {
	UserID   uint64 `bson:"user_id" json:"userId"`
	Name     string `bson:"name" json:"name"`
	Username string `bson:"username" json:"username"`
	Avatar   string `bson:"avatar" json:"avatar"`
}

// NotificationDetails 新帖通知的帖子快照
type NotificationDetails struct {
	PostID         uint64 `bson:"post_id" json:"postId"`
	PostCoverPhoto string `bson:"post_cover_photo" json:"postCoverPhoto"`
	PostTitle      string `bson:"post_title" json:"postTitle"`
	AuthorAvatar   string `bson:"author_avatar" json:"authorAvatar"`
	AuthorName     string `bson:"author_name" json:"authorName"`
	AuthorUsername string `bson:"author_username" json:"authorUsername"`
}

// NotificationModel 通知模型，ID 在写入前由调用方生成
type NotificationModel struct {
	ID                  string              `bson:"_id" json:"id"`
	ReceiverID          uint64              `bson:"receiver_id" json:"receiverId"`
	SenderID            uint64              `bson:"sender_id" json:"senderId"`
	Type                string              `bson:"type" json:"type"`
	SenderDetails       SenderDetails       `bson:"sender_details" json:"senderDetails"`
	NotificationDetails NotificationDetails `bson:"notification_details" json:"notificationDetails"`
	IsRead              bool                `bson:"is_read" json:"isRead"`
	CreatedAt           time.Time           `bson:"created_at" json:"createdAt"`
}

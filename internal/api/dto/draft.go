package dto

import (
	"Chatter/internal/pkg/content"
)

// DraftDTO 待发布的草稿
type DraftDTO struct {
	// SessionID 编写会话，为空表示没有在会话中上传过图片
	SessionID string       `json:"sessionId" validate:"omitempty,max=64"`
	PostID    uint64       `json:"-"`
	Title     string       `json:"title" validate:"required,min=5,max=255"`
	Body      string       `json:"body" validate:"required,min=50"`
	Mode      content.Mode `json:"mode" validate:"required,oneof=RICH LITE"`
	Tags      []string     `json:"tags" validate:"min=1,max=10,dive,notblank,max=50"`
	// CoverURL 沿用已有的远程封面
	CoverURL string     `json:"coverUrl" validate:"omitempty,url"`
	Cover    *CoverFile `json:"-"`
}

// CoverFile 本地选择的封面文件
type CoverFile struct {
	Name string
	Data []byte
}

// UploadFile 正文内联图片
type UploadFile struct {
	Name string
	Data []byte
}

// EditorStateDTO 编辑器模式与正文
type EditorStateDTO struct {
	Mode content.Mode `json:"mode" binding:"required,oneof=RICH LITE"`
	Body string       `json:"body"`
}

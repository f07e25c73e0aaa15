package util

import (
	"Chatter/internal/pkg/consts"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// GetSafeContentType 按内容嗅探类型，不信任客户端声明的 Content-Type 与扩展名
func GetSafeContentType(data []byte) (contentType string, ext string) {
	m := mimetype.Detect(data)
	return m.String(), m.Extension()
}

// IsImage 是否为图片类型
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, consts.MimePrefixImage+"/")
}

package handler

import (
	"Chatter/internal/service"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// readFormFile 读取上传文件，超过 limit 字节直接拒绝
// 字段不存在时返回 nil
func readFormFile(c *gin.Context, field string, limit int64) (name string, data []byte, err error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, nil
		}
		return "", nil, service.ErrParamInvalid
	}
	if header.Size > limit {
		return "", nil, service.ErrFileTooLarge
	}

	reader, err := header.Open()
	if err != nil {
		return "", nil, service.ErrParamInvalid
	}
	defer func() { _ = reader.Close() }()

	data, err = io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return "", nil, service.ErrParamInvalid
	}
	if int64(len(data)) > limit {
		return "", nil, service.ErrFileTooLarge
	}
	return header.Filename, data, nil
}

package handler

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/response"
	"Chatter/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
	maxBytes int64
}

func NewMediaHandler(mediaSvc service.MediaService, maxBytes int64) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
		maxBytes: maxBytes,
	}
}

// UploadInlineImage 编写过程中插入正文的图片
func (s *MediaHandler) UploadInlineImage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	sessionID := c.Param("session_id")

	name, data, err := readFormFile(c, "file", s.maxBytes)
	if err != nil {
		response.Error(c, err)
		return
	}
	if data == nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.mediaSvc.UploadInlineImage(c.Request.Context(), userID, sessionID, &dto.UploadFile{Name: name, Data: data})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DiscardSession 放弃草稿
func (s *MediaHandler) DiscardSession(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.mediaSvc.DiscardSession(c.Request.Context(), userID, c.Param("session_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

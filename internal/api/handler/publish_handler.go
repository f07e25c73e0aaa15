package handler

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/response"
	"Chatter/internal/service"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type PublishHandler struct {
	publishSvc    service.PublishService
	maxCoverBytes int64
}

func NewPublishHandler(publishSvc service.PublishService, maxCoverBytes int64) *PublishHandler {
	return &PublishHandler{
		publishSvc:    publishSvc,
		maxCoverBytes: maxCoverBytes,
	}
}

// CreatePost 发布新帖
// multipart: draft 为草稿 JSON，cover 为可选封面文件；也接受纯 JSON 草稿
func (s *PublishHandler) CreatePost(c *gin.Context) {
	draft, err := s.bindDraft(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.publish(c, draft)
}

// UpdatePost 编辑已发布的帖子，不会再次通知粉丝
func (s *PublishHandler) UpdatePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	draft, err := s.bindDraft(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	draft.PostID = postID
	s.publish(c, draft)
}

func (s *PublishHandler) publish(c *gin.Context, draft *dto.DraftDTO) {
	userID := c.GetUint64("user_id")

	result, err := s.publishSvc.Publish(c.Request.Context(), userID, draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, service.ToPublishResultDTO(result))
}

func (s *PublishHandler) bindDraft(c *gin.Context) (*dto.DraftDTO, error) {
	var draft dto.DraftDTO

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&draft); err != nil {
			return nil, err
		}
		return &draft, nil
	}

	raw := c.PostForm("draft")
	if raw == "" {
		return nil, service.ErrParamInvalid
	}
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, err
	}

	name, data, err := readFormFile(c, "cover", s.maxCoverBytes)
	if err != nil {
		return nil, err
	}
	if data != nil {
		draft.Cover = &dto.CoverFile{Name: name, Data: data}
	}
	return &draft, nil
}

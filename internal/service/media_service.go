package service

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/consts"
	"Chatter/internal/pkg/minio"
	"Chatter/internal/pkg/redis"
	"Chatter/internal/pkg/util"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// MediaService 编写会话中的内联图片
type MediaService interface {
	UploadInlineImage(ctx context.Context, userID uint64, sessionID string, file *dto.UploadFile) (*dto.MediaUploadDTO, error)
	DiscardSession(ctx context.Context, userID uint64, sessionID string) error
}

type mediaServiceImpl struct {
	storage  minio.ObjectStorage
	sessions redis.UploadSessionRepo
	maxBytes int64
}

func NewMediaService(storage minio.ObjectStorage, sessions redis.UploadSessionRepo, maxBytes int64) MediaService {
	return &mediaServiceImpl{
		storage:  storage,
		sessions: sessions,
		maxBytes: maxBytes,
	}
}

// UploadInlineImage 上传成功且记入会话后才返回 URL，任一步失败都不应插入正文
func (s *mediaServiceImpl) UploadInlineImage(ctx context.Context, userID uint64, sessionID string, file *dto.UploadFile) (*dto.MediaUploadDTO, error) {
	if sessionID == "" || file == nil || len(file.Data) == 0 {
		return nil, ErrParamInvalid
	}
	if int64(len(file.Data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType, ext := util.GetSafeContentType(file.Data)
	if !util.IsImage(contentType) {
		return nil, ErrFileNotSupported
	}

	objectName := fmt.Sprintf("%s/%d/%s%s", consts.PostImagesPrefix, userID, uuid.NewString(), ext)
	url, err := s.storage.PutObject(ctx, objectName, file.Data, contentType)
	if err != nil {
		log.ErrorContext(ctx, "MinIO upload failed", "object", objectName, "err", err)
		return nil, &PipelineError{Kind: ErrUpload, Ref: objectName, Err: err}
	}

	meta := redis.UploadMeta{
		SessionID: sessionID,
		UserID:    userID,
		MimeType:  contentType,
		CreatedAt: time.Now(),
	}
	if err = s.sessions.Record(ctx, userID, sessionID, url, meta); err != nil {
		log.ErrorContext(ctx, "record upload failed, rolling back object", "url", url, "err", err)
		if delErr := s.storage.DeleteObject(ctx, url); delErr != nil {
			log.WarnContext(ctx, "rollback uploaded object failed", "url", url, "err", delErr)
		}
		return nil, &PipelineError{Kind: ErrUpload, Ref: url, Err: err}
	}

	log.InfoContext(ctx, "inline image uploaded", "url", url, "type", contentType, "session_id", sessionID)
	return &dto.MediaUploadDTO{
		URL:      url,
		Mime:     contentType,
		Size:     len(file.Data),
		Original: file.Name,
	}, nil
}

// DiscardSession 放弃编写，不删除任何已上传对象，交给定时清理
func (s *mediaServiceImpl) DiscardSession(ctx context.Context, userID uint64, sessionID string) error {
	if sessionID == "" {
		return ErrParamInvalid
	}
	return s.sessions.Discard(ctx, userID, sessionID)
}

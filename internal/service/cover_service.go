package service

import (
	"Chatter/internal/api/dto"
	"Chatter/internal/pkg/consts"
	"Chatter/internal/pkg/minio"
	"Chatter/internal/pkg/util"
	"Chatter/internal/repository"
	"bytes"
	"context"
	"fmt"
	log "log/slog"

	"github.com/disintegration/imaging"
)

// CoverService 封面上传，必须在帖子 ID 确定之后调用
type CoverService interface {
	Upload(ctx context.Context, postID uint64, cover *dto.CoverFile) (string, error)
}

type coverServiceImpl struct {
	storage  minio.ObjectStorage
	postRepo repository.PostRepo
	maxWidth int
}

func NewCoverService(storage minio.ObjectStorage, postRepo repository.PostRepo, maxWidth int) CoverService {
	return &coverServiceImpl{
		storage:  storage,
		postRepo: postRepo,
		maxWidth: maxWidth,
	}
}

// CoverKey 封面固定存放在 post_covers/{postID}，重复上传覆盖同一对象
func CoverKey(postID uint64) string {
	return fmt.Sprintf("%s/%d", consts.PostCoversPrefix, postID)
}

// Upload 同一 postID 重试结果一致，可以单独重跑
func (s *coverServiceImpl) Upload(ctx context.Context, postID uint64, cover *dto.CoverFile) (string, error) {
	if postID == 0 {
		return "", newPipelineError(ErrUpload, StageUploadingCover, ErrParamInvalid)
	}
	contentType, _ := util.GetSafeContentType(cover.Data)
	if !util.IsImage(contentType) {
		return "", newPipelineError(ErrUpload, StageUploadingCover, ErrFileNotSupported)
	}

	data := s.normalize(ctx, cover.Data, contentType)

	url, err := s.storage.PutObject(ctx, CoverKey(postID), data, contentType)
	if err != nil {
		return "", &PipelineError{Kind: ErrUpload, Stage: StageUploadingCover, Ref: CoverKey(postID), Err: err}
	}
	if err = s.postRepo.UpdatePostCover(ctx, postID, url); err != nil {
		return "", &PipelineError{Kind: ErrUpload, Stage: StageUploadingCover, Ref: url, Err: err}
	}
	return url, nil
}

// normalize 超宽封面按比例缩小，无法解码的格式原样上传
func (s *coverServiceImpl) normalize(ctx context.Context, data []byte, contentType string) []byte {
	if s.maxWidth <= 0 {
		return data
	}
	format, err := imaging.FormatFromExtension(extensionOf(contentType))
	if err != nil {
		return data
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.WarnContext(ctx, "cover decode failed, upload as is", "content_type", contentType, "err", err)
		return data
	}
	if img.Bounds().Dx() <= s.maxWidth {
		return data
	}

	resized := imaging.Fit(img, s.maxWidth, img.Bounds().Dy(), imaging.Lanczos)
	var buf bytes.Buffer
	if err = imaging.Encode(&buf, resized, format); err != nil {
		log.WarnContext(ctx, "cover encode failed, upload as is", "err", err)
		return data
	}
	return buf.Bytes()
}

func extensionOf(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/tiff":
		return "tiff"
	default:
		return ""
	}
}

package minio

import (
	"Chatter/internal/api/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrForeignURL URL 不属于本存储桶
var ErrForeignURL = errors.New("url does not belong to object storage")

// ObjectStorage 对象存储
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteObject(ctx context.Context, url string) error
}

type Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewStorage(client *minio.Client, cfg config.MinIOConfig) *Storage {
	return &Storage{
		client:  client,
		bucket:  cfg.MainBucket,
		baseURL: PublicBaseURL(cfg),
	}
}

// PublicBaseURL 对外访问前缀 https://{external}/{bucket}/
func PublicBaseURL(cfg config.MinIOConfig) string {
	return fmt.Sprintf("https://%s/%s/", strings.TrimSuffix(cfg.ExternalEndpoint, "/"), cfg.MainBucket)
}

// PutObject 同名 key 覆盖写入，返回公开 URL
func (s *Storage) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.PublicURL(key), nil
}

// DeleteObject 按公开 URL 删除，对象不存在视为成功
func (s *Storage) DeleteObject(ctx context.Context, url string) error {
	key, err := s.KeyOf(url)
	if err != nil {
		return err
	}
	if err = s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Storage) PublicURL(key string) string {
	return s.baseURL + key
}

// KeyOf 公开 URL 转回对象 key
func (s *Storage) KeyOf(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, s.baseURL) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, s.baseURL))
	if err != nil || key == "" {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	return key, nil
}

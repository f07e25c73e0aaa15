package minio

import (
	"Chatter/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewClient 初始化 MinIO 客户端并确认主桶可用
func NewClient(ctx context.Context, cfg config.MinIOConfig) (*minio.Client, error) {
	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MainBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.MainBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MainBucket, err)
		}
		log.Info("MinIO bucket created", "bucket", cfg.MainBucket)
	}
	if err = ensurePublicRead(ctx, client, cfg.MainBucket); err != nil {
		return nil, err
	}
	return client, nil
}

// ensurePublicRead 正文与封面通过公开 URL 访问
func ensurePublicRead(ctx context.Context, client *minio.Client, bucket string) error {
	current, err := client.GetBucketPolicy(ctx, bucket)
	if err == nil && current != "" {
		return nil
	}
	p := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["%s"],"Resource":["arn:aws:s3:::%s/*"]}]}`,
		"s3:GetObject", bucket)
	if err = client.SetBucketPolicy(ctx, bucket, p); err != nil {
		return fmt.Errorf("设置桶策略失败: %w", err)
	}
	log.Info("已设置主桶公开读策略", "bucket", bucket)
	return nil
}

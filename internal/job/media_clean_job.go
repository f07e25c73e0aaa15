package job

import (
	"Chatter/internal/pkg/logger"
	"Chatter/internal/pkg/minio"
	"Chatter/internal/pkg/redis"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// MediaCleanupJob 清理超过 TTL 仍未被任何帖子提交的内联图片
// 覆盖放弃的会话、发布时删除失败的孤儿以及中途崩溃留下的上传
type MediaCleanupJob struct {
	sessions redis.UploadSessionRepo
	storage  minio.ObjectStorage
	ttl      time.Duration
	now      func() time.Time
}

func NewMediaCleanupJob(sessions redis.UploadSessionRepo, storage minio.ObjectStorage, ttl time.Duration) *MediaCleanupJob {
	return &MediaCleanupJob{
		sessions: sessions,
		storage:  storage,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MediaCleanupJob) Run() {
	traceID := "job-media-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)
	s.Sweep(ctx)
}

// Sweep 返回本次删除的对象数
func (s *MediaCleanupJob) Sweep(ctx context.Context) int {
	log.InfoContext(ctx, "start media cleanup job")

	allMedia, err := s.sessions.TempMedia(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to get media temp hash", "err", err)
		return 0
	}

	deadline := s.now().Add(-s.ttl)
	live := make(map[string]bool)
	count := 0
	for url, meta := range allMedia {
		if meta.CreatedAt.After(deadline) {
			continue
		}
		// 会话仍在编写中，其上传随时可能被发布
		if s.sessionLive(ctx, meta, live) {
			continue
		}
		if err = s.storage.DeleteObject(ctx, url); err != nil {
			log.ErrorContext(ctx, "failed to delete expired file from minio", "url", url, "err", err)
			continue
		}
		if err = s.sessions.Forget(ctx, meta.UserID, meta.SessionID, url); err != nil {
			log.ErrorContext(ctx, "failed to remove media from ledger", "url", url, "err", err)
		}

		count++
		log.InfoContext(ctx, "cleanup expired media resource", "url", url, "mime", meta.MimeType)
	}

	if count > 0 {
		log.InfoContext(ctx, "media cleanup job finished", "cleaned_count", count)
	}
	return count
}

// sessionLive 查询失败时按仍在编写处理，宁可留到下一轮
func (s *MediaCleanupJob) sessionLive(ctx context.Context, meta redis.UploadMeta, cache map[string]bool) bool {
	key := fmt.Sprintf("%d:%s", meta.UserID, meta.SessionID)
	if v, ok := cache[key]; ok {
		return v
	}
	active, err := s.sessions.Active(ctx, meta.UserID, meta.SessionID)
	if err != nil {
		log.WarnContext(ctx, "check upload session failed", "session_id", meta.SessionID, "err", err)
		return true
	}
	cache[key] = active
	return active
}

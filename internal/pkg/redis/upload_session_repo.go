package redis

import (
	"Chatter/internal/pkg/consts"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// UploadMeta 临时媒体台账记录，发布提交或清理前一直保留
type UploadMeta struct {
	SessionID string    `json:"session_id"`
	UserID    uint64    `json:"user_id"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadSessionRepo 编写会话的上传集合与临时媒体台账
type UploadSessionRepo interface {
	Record(ctx context.Context, userID uint64, sessionID, url string, meta UploadMeta) error
	Uploaded(ctx context.Context, userID uint64, sessionID string) ([]string, error)
	Forget(ctx context.Context, userID uint64, sessionID string, urls ...string) error
	Commit(ctx context.Context, urls ...string) error
	Discard(ctx context.Context, userID uint64, sessionID string) error
	TempMedia(ctx context.Context) (map[string]UploadMeta, error)
	Pending(ctx context.Context, urls ...string) ([]string, error)
	Active(ctx context.Context, userID uint64, sessionID string) (bool, error)
	TryLock(ctx context.Context, userID uint64, sessionID, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, userID uint64, sessionID, token string) error
}

type UploadSessionRepoImpl struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUploadSessionRepo(rdb *redis.Client, ttl time.Duration) UploadSessionRepo {
	return &UploadSessionRepoImpl{rdb: rdb, ttl: ttl}
}

func sessionKey(userID uint64, sessionID string) string {
	return fmt.Sprintf("%s%d:%s", consts.DraftUploadsKey, userID, sessionID)
}

func lockKey(userID uint64, sessionID string) string {
	return fmt.Sprintf("%s%d:%s", consts.PublishLock, userID, sessionID)
}

// Record 记录一次上传：加入会话集合并写入台账
func (s *UploadSessionRepoImpl) Record(ctx context.Context, userID uint64, sessionID, url string, meta UploadMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	key := sessionKey(userID, sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, url)
	pipe.Expire(ctx, key, s.ttl)
	pipe.HSet(ctx, consts.MediaTempKey, url, raw)
	_, err = pipe.Exec(ctx)
	return err
}

// Uploaded 会话中已上传的资源
func (s *UploadSessionRepoImpl) Uploaded(ctx context.Context, userID uint64, sessionID string) ([]string, error) {
	urls, err := s.rdb.SMembers(ctx, sessionKey(userID, sessionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	return urls, nil
}

// Forget 资源已从存储删除，同时移出会话集合与台账
func (s *UploadSessionRepoImpl) Forget(ctx context.Context, userID uint64, sessionID string, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}
	members := make([]interface{}, len(urls))
	for i, u := range urls {
		members[i] = u
	}
	pipe := s.rdb.TxPipeline()
	pipe.SRem(ctx, sessionKey(userID, sessionID), members...)
	pipe.HDel(ctx, consts.MediaTempKey, urls...)
	_, err := pipe.Exec(ctx)
	return err
}

// Commit 资源已被发布的帖子引用，不再属于临时媒体
func (s *UploadSessionRepoImpl) Commit(ctx context.Context, urls ...string) error {
	if len(urls) == 0 {
		return nil
	}
	return s.rdb.HDel(ctx, consts.MediaTempKey, urls...).Err()
}

// Discard 结束会话，台账保留给定时清理
func (s *UploadSessionRepoImpl) Discard(ctx context.Context, userID uint64, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(userID, sessionID)).Err()
}

// TempMedia 台账全集，解析失败的条目跳过
func (s *UploadSessionRepoImpl) TempMedia(ctx context.Context) (map[string]UploadMeta, error) {
	raw, err := s.rdb.HGetAll(ctx, consts.MediaTempKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]UploadMeta, len(raw))
	for url, v := range raw {
		var meta UploadMeta
		if err = json.Unmarshal([]byte(v), &meta); err != nil {
			continue
		}
		out[url] = meta
	}
	return out, nil
}

// Pending 仍在台账中(未被任何帖子提交)的资源
func (s *UploadSessionRepoImpl) Pending(ctx context.Context, urls ...string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	vals, err := s.rdb.HMGet(ctx, consts.MediaTempKey, urls...).Result()
	if err != nil {
		return nil, err
	}
	pending := make([]string, 0, len(urls))
	for i, v := range vals {
		if v != nil {
			pending = append(pending, urls[i])
		}
	}
	return pending, nil
}

// Active 会话集合每次上传都会续期，键存在说明作者仍在编写
func (s *UploadSessionRepoImpl) Active(ctx context.Context, userID uint64, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(userID, sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TryLock 同一会话同一时刻只允许一次发布
func (s *UploadSessionRepoImpl) TryLock(ctx context.Context, userID uint64, sessionID, token string, ttl time.Duration) (bool, error) {
	return TryLock(ctx, s.rdb, lockKey(userID, sessionID), token, ttl, 1)
}

func (s *UploadSessionRepoImpl) Unlock(ctx context.Context, userID uint64, sessionID, token string) error {
	return UnLock(ctx, s.rdb, lockKey(userID, sessionID), token)
}

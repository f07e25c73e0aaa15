package service

import (
	"Chatter/internal/model"
	"Chatter/internal/pkg/consts"
	"Chatter/internal/pkg/mongo"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/google/uuid"
)

// NotificationFanoutService 新帖通知扇出
//
// 每个子批次(最多 chunkSize 条)原子提交；整体是尽力而为：
// 后面的子批次失败不会回滚已经提交的子批次。
// 记录 ID 由 job.Seed 与粉丝 ID 派生，同一 job 重放时已提交的子批次按重复处理。
type NotificationFanoutService interface {
	FanOut(ctx context.Context, job *model.FanoutJob) (*model.FanoutReport, error)
}

type notificationFanoutServiceImpl struct {
	repo      mongo.NotificationRepo
	chunkSize int
}

func NewNotificationFanoutService(repo mongo.NotificationRepo, chunkSize int) NotificationFanoutService {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &notificationFanoutServiceImpl{
		repo:      repo,
		chunkSize: chunkSize,
	}
}

func (s *notificationFanoutServiceImpl) FanOut(ctx context.Context, job *model.FanoutJob) (*model.FanoutReport, error) {
	followers := uniqueFollowers(job.FollowerIDs)
	report := &model.FanoutReport{Followers: len(followers)}
	if len(followers) == 0 {
		return report, nil
	}

	seed, err := uuid.Parse(job.Seed)
	if err != nil {
		return report, newPipelineError(ErrFanout, StageFanningOut, fmt.Errorf("invalid fan-out seed: %w", err))
	}

	records := make([]*mongo.NotificationModel, 0, len(followers))
	for _, followerID := range followers {
		records = append(records, buildNotification(seed, followerID, job))
	}

	var errs []error
	for start := 0; start < len(records); start += s.chunkSize {
		end := min(start+s.chunkSize, len(records))
		chunk := records[start:end]
		report.Chunks++

		err = s.repo.BatchCreate(ctx, chunk)
		switch {
		case err == nil:
			report.Delivered += len(chunk)
		case errors.Is(err, mongo.ErrBatchAlreadyCommitted):
			report.Delivered += len(chunk)
			report.Duplicates += len(chunk)
		default:
			report.FailedChunks++
			errs = append(errs, fmt.Errorf("chunk %d-%d: %w", start, end, err))
			log.ErrorContext(ctx, "notification chunk commit failed",
				"post_id", job.Post.ID, "chunk_start", start, "chunk_size", len(chunk), "err", err)
		}
	}

	if len(errs) > 0 {
		return report, newPipelineError(ErrFanout, StageFanningOut, errors.Join(errs...))
	}
	return report, nil
}

// NotificationID 同一 seed 与粉丝得到相同 ID
func NotificationID(seed uuid.UUID, followerID uint64) string {
	return uuid.NewSHA1(seed, []byte(strconv.FormatUint(followerID, 10))).String()
}

func buildNotification(seed uuid.UUID, followerID uint64, job *model.FanoutJob) *mongo.NotificationModel {
	return &mongo.NotificationModel{
		ID:         NotificationID(seed, followerID),
		ReceiverID: followerID,
		SenderID:   job.Sender.UserID,
		Type:       consts.NotificationTypeNewPost,
		SenderDetails: mongo.SenderDetails{
			UserID:   job.Sender.UserID,
			Name:     job.Sender.Name,
			Username: job.Sender.Username,
			Avatar:   job.Sender.Avatar,
		},
		NotificationDetails: mongo.NotificationDetails{
			PostID:         job.Post.ID,
			PostCoverPhoto: job.Post.CoverImage,
			PostTitle:      job.Post.Title,
			AuthorAvatar:   job.Sender.Avatar,
			AuthorName:     job.Sender.Name,
			AuthorUsername: job.Sender.Username,
		},
		IsRead:    false,
		CreatedAt: job.PublishedAt,
	}
}

func uniqueFollowers(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

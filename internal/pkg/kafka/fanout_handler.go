package kafka

import (
	"Chatter/internal/model"
	"Chatter/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// FanoutExecutor 执行扇出任务
type FanoutExecutor interface {
	FanOut(ctx context.Context, job *model.FanoutJob) (*model.FanoutReport, error)
}

// FanoutHandler 消费扇出任务
// 记录 ID 由任务 seed 派生，重投的消息只会把已提交的子批次计为重复
type FanoutHandler struct {
	executor FanoutExecutor
}

func NewFanoutHandler(executor FanoutExecutor) *FanoutHandler {
	return &FanoutHandler{executor: executor}
}

func (s *FanoutHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notification fan-out consumer setup")
	return nil
}

func (s *FanoutHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notification fan-out consumer cleanup")
	return nil
}

func (s *FanoutHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-fanout consume claim", "partition", claim.Partition())
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-fanout process batch error", "err", err)
		return err
	}
	return nil
}

func (s *FanoutHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx = withTraceID(ctx, msg)

	var job model.FanoutJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		// 无法解析的消息重试也不会成功，直接跳过
		log.ErrorContext(ctx, "drop malformed fan-out job", "offset", msg.Offset, "err", err)
		return nil
	}

	report, err := s.executor.FanOut(ctx, &job)
	if err != nil {
		log.WarnContext(ctx, "fan-out job failed, will retry", "post_id", job.Post.ID, "report", report, "err", err)
		return err
	}
	log.InfoContext(ctx, "fan-out job finished", "post_id", job.Post.ID, "report", report)
	return nil
}

func withTraceID(ctx context.Context, msg *sarama.ConsumerMessage) context.Context {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == traceHeader {
			return logger.WithTraceID(ctx, string(h.Value))
		}
	}
	return ctx
}

package kafka

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 16
	batchTimeout = 1 * time.Second

	maxAttempts     = 5
	initialBackoff  = 200 * time.Millisecond
	maxRetryBackoff = 5 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 攒批后执行，批次满或超时都会触发
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		processBatch(session.Context(), session, batch, logic)
		batch = make([]*sarama.ConsumerMessage, 0, batchSize)
	}

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				flush()
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			flush()
		case <-session.Context().Done():
			return nil
		}
	}
}

// messageMarker 提交 offset
type messageMarker interface {
	MarkMessage(msg *sarama.ConsumerMessage, metadata string)
}

// processBatch 并发处理一批消息，全部结束后提交最后一条的 offset
// 单条消息超过 maxAttempts 仍失败则放弃，避免阻塞整个分区
func processBatch(ctx context.Context, marker messageMarker, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			runWithRetry(ctx, m, logic)
		}(msg)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return
	}
	if len(messages) > 0 {
		marker.MarkMessage(messages[len(messages)-1], "")
	}
}

func runWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := logic(ctx, m)
		if err == nil {
			return
		}
		if attempt >= maxAttempts {
			log.ErrorContext(ctx, "give up message after retries",
				"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "attempts", attempt, "err", err)
			return
		}
		log.WarnContext(ctx, "process message error", "offset", m.Offset, "attempt", attempt, "err", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}
}

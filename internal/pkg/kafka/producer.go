package kafka

import (
	"Chatter/internal/api/config"
	"Chatter/internal/model"
	"Chatter/internal/pkg/logger"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const traceHeader = "trace_id"

// FanoutProducer 把扇出任务写入 Kafka，由通知消费组异步执行
type FanoutProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewFanoutProducer(cfg *config.Config) (*FanoutProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewFanoutProducerWith(producer, cfg.KafkaFanout.Topic), nil
}

func NewFanoutProducerWith(producer sarama.SyncProducer, topic string) *FanoutProducer {
	return &FanoutProducer{producer: producer, topic: topic}
}

// Dispatch 同一帖子的任务落在同一分区
func (p *FanoutProducer) Dispatch(ctx context.Context, job *model.FanoutJob) error {
	value, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "marshal fan-out job")
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(job.Post.ID, 10)),
		Value: sarama.ByteEncoder(value),
	}
	if traceID := logger.TraceID(ctx); traceID != "" {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(traceHeader), Value: []byte(traceID)})
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrapf(err, "send fan-out job for post %d", job.Post.ID)
	}
	log.InfoContext(ctx, "fan-out job queued", "post_id", job.Post.ID, "followers", len(job.FollowerIDs),
		"partition", partition, "offset", offset)
	return nil
}

func (p *FanoutProducer) Close() error {
	return p.producer.Close()
}

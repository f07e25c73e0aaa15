package kafka

import (
	"Chatter/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// consumeRetryDelay broker 不可用时重连的间隔
const consumeRetryDelay = 2 * time.Second

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	fanoutConsumer sarama.ConsumerGroup
	fanoutHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, executor FanoutExecutor) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	fanoutConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaFanout.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		fanoutConsumer: fanoutConsumer,
		fanoutHandler:  NewFanoutHandler(executor),
	}, nil
}

// Start 启动所有消费者，ctx 结束后关闭
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaFanout.Topic
		log.Info("Fan-out consumer started", "topic", topic)
		consumeLoop(ctx, consumeRetryDelay, func(ctx context.Context) error {
			return m.fanoutConsumer.Consume(ctx, []string{topic}, m.fanoutHandler)
		})
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.fanoutConsumer.Close(); err != nil {
		log.Error("Failed to close fan-out consumer", "err", err)
	}
	return nil
}

// consumeLoop 每次 rebalance 后 Consume 都会返回，需要循环调用
// 出错时等待 delay 再重试，ctx 结束立即退出
func consumeLoop(ctx context.Context, delay time.Duration, consume func(context.Context) error) {
	for {
		if err := consume(ctx); err != nil {
			log.ErrorContext(ctx, "Error from consumer", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

package feedback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rushteam/shoprank/pkg/logger"
)

// DefaultTopic 是曝光事件的默认 topic。
const DefaultTopic = "shoprank.impressions"

// messageWriter 是 *kafka.Writer 的最小子集。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaCollector 把曝光事件以 JSON 写入 Kafka，消息 key 为 request_id，
// 同一请求的事件落在同一分区。写入为异步模式，失败只记录日志。
type KafkaCollector struct {
	w   messageWriter
	log *zap.Logger
}

// NewKafkaCollector 创建异步写入的 Collector。
func NewKafkaCollector(brokers []string, topic string, log *zap.Logger) *KafkaCollector {
	if topic == "" {
		topic = DefaultTopic
	}
	log = logger.OrNop(log).With(zap.String("component", "feedback"), zap.String("topic", topic))

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Warn("publish impressions failed", zap.Int("messages", len(msgs)), zap.Error(err))
			}
		},
	}
	return &KafkaCollector{w: w, log: log}
}

func (c *KafkaCollector) Record(ctx context.Context, events []Impression) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode impression: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.RequestID),
			Value: data,
			Time:  e.Timestamp,
		})
	}
	if err := c.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write impressions: %w", err)
	}
	return nil
}

// Close 刷出缓冲中的消息并关闭连接。
func (c *KafkaCollector) Close() error {
	return c.w.Close()
}

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes each event as a JSON message keyed by the event key,
// so all events of one account land on the same partition in order.
type KafkaPublisher struct {
	writer      MessageWriter
	topicPrefix string
}

// NewKafkaPublisher creates a publisher writing to topicPrefix+event.Topic.
func NewKafkaPublisher(writer MessageWriter, topicPrefix string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topicPrefix: topicPrefix}
}

// NewKafkaWriter creates a writer for brokers. The topic is chosen per message.
func NewKafkaWriter(brokers []string, logger *slog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...), slog.String("component", "kafka"))
		}),
	}
}

func (p *KafkaPublisher) Name() string { return "kafka" }

// Publish writes event synchronously; the dispatcher already runs it off the request path.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Topic, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topicPrefix + event.Topic,
		Key:   []byte(event.Key),
		Value: value,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("write %s event to kafka: %w", event.Topic, err)
	}
	return nil
}

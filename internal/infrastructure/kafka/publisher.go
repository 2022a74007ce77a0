package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes deal events keyed by deal id so that the events of
// one deal stay ordered within a partition.
type KafkaPublisher struct {
	writer  messageWriter
	eventID func() string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	})
}

func newKafkaPublisher(writer messageWriter) (*KafkaPublisher, error) {
	eventID, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{writer: writer, eventID: eventID}, nil
}

func (k *KafkaPublisher) PublishDealEvent(ctx context.Context, eventType domain.DealEventType, deal *domain.Deal) error {
	msg, err := json.Marshal(NewDealEvent(k.eventID(), eventType, deal))
	if err != nil {
		return fmt.Errorf("failed to marshal deal event: %w", err)
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(deal.ID),
		Value: msg,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// Package kafka publishes order status changes to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
)

// EventType is carried in the "event_type" header of every message.
const EventType = "order.status_changed"

var _ ports.OrderEventPublisher = (*OrderEventPublisher)(nil)

// MessageWriter is the subset of *kafkago.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// StatusChangedMessage is the JSON value of a published message.
type StatusChangedMessage struct {
	ID         int64     `json:"id"`
	OrderID    string    `json:"order_id"`
	UserID     int64     `json:"user_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewWriter creates an asynchronous writer for a comma separated broker list.
// Delivery failures are reported through logger since async writes never return them.
func NewWriter(brokersCSV, topic string, logger *slog.Logger) *kafkago.Writer {
	brokers := make([]string, 0)
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	logger = logger.With("component", "kafka_writer", "topic", topic)

	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver order events", "count", len(messages), "error", err)
			}
		},
	}
}

// OrderEventPublisher encodes status changes as JSON keyed by order id, so every
// event of one order lands on the same partition in order.
type OrderEventPublisher struct {
	writer MessageWriter
	logger *slog.Logger
}

func NewOrderEventPublisher(writer MessageWriter, logger *slog.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{
		writer: writer,
		logger: logger.With("component", "order_event_publisher"),
	}
}

func (p *OrderEventPublisher) Publish(ctx context.Context, event order.StatusChanged) {
	msg, err := EncodeStatusChanged(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to encode order event", "order_id", event.OrderID, "error", err)
		return
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish order event",
			"order_id", event.OrderID,
			"status", event.Status.String(),
			"error", err,
		)
	}
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

// EncodeStatusChanged builds the Kafka message for event.
func EncodeStatusChanged(event order.StatusChanged) (kafkago.Message, error) {
	value, err := json.Marshal(StatusChangedMessage{
		ID:         event.ID,
		OrderID:    event.OrderID,
		UserID:     event.UserID,
		Status:     event.Status.String(),
		OccurredAt: event.OccurredAt.UTC(),
	})
	if err != nil {
		return kafkago.Message{}, err
	}

	return kafkago.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventType)},
		},
	}, nil
}

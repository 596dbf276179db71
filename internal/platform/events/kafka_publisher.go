// Package events publishes order lifecycle events to Kafka for downstream
// consumers (notifications, search indexing, reporting).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agromarket/internal/core/config"
	"agromarket/internal/core/logger"
	"agromarket/internal/features/orders/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher implements ports.EventPublisher on a kafka-go writer.
// With no brokers configured the publisher is disabled and Publish becomes
// a no-op, so single-node deployments run without a broker.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the configured orders topic.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		return &KafkaPublisher{}
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        cfg.OrdersTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Enabled reports whether events actually reach a broker.
func (p *KafkaPublisher) Enabled() bool {
	return p.writer != nil
}

// Publish sends one event, keyed by order id so all events for an order
// land on the same partition in order.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if p.writer == nil {
		logger.Get().Debug("Event broker disabled, dropping event",
			zap.String("type", string(event.Type)),
			zap.String("order_id", event.OrderID),
		)
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

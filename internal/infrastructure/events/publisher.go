package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fincontrol/backend/internal/domain/shared"
	"github.com/fincontrol/backend/internal/infrastructure/config"
)

// KafkaPublisher implements shared.EventPublisher on top of a Kafka writer.
// Publishing is best effort: the services log and continue when a publish
// fails, so the writer never blocks a committed state change for long.
type KafkaPublisher struct {
	writer       *kafka.Writer
	topicPrefix  string
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewKafkaPublisher creates a publisher for the configured brokers
func NewKafkaPublisher(cfg *config.EventsConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{
		writer:       writer,
		topicPrefix:  cfg.TopicPrefix,
		writeTimeout: cfg.WriteTimeout,
		logger:       logger.Named("events"),
	}
}

// Publish serializes the event as JSON and writes it to the prefixed topic.
// Domain events are keyed by aggregate ID so all events of one aggregate
// land in the same partition, in order.
func (p *KafkaPublisher) Publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	message := kafka.Message{
		Topic: TopicName(p.topicPrefix, topic),
		Value: payload,
	}
	if domainEvent, ok := event.(shared.DomainEvent); ok {
		message.Key = []byte(domainEvent.AggregateID().String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", message.Topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", message.Topic),
		zap.Int("bytes", len(payload)),
	)
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// TopicName builds the fully qualified topic name
func TopicName(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

// Publish implements shared.EventPublisher and does nothing
func (NoopPublisher) Publish(string, any) error {
	return nil
}

// NewPublisher returns a Kafka-backed publisher when brokers are configured,
// and a no-op publisher otherwise.
func NewPublisher(cfg *config.EventsConfig, logger *zap.Logger) shared.EventPublisher {
	if !cfg.Enabled() {
		logger.Info("event publishing disabled: no brokers configured")
		return NoopPublisher{}
	}
	logger.Info("event publishing enabled",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_prefix", cfg.TopicPrefix),
	)
	return NewKafkaPublisher(cfg, logger)
}

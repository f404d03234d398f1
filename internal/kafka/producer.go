package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"fraudguard/config"
	"fraudguard/internal/models"
)

type ProducerImpl struct {
	producer         sarama.SyncProducer
	transactionTopic string
	fraudAlertTopic  string
	auditTopic       string
}

// NewPublisher returns a sarama-backed publisher when Kafka is enabled and a no-op otherwise.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	if !cfg.Kafka.Enabled {
		slog.Info("Kafka disabled, events will not be published")
		return NoopPublisher{}, nil
	}
	return NewProducer(cfg)
}

func NewProducer(cfg *config.Config) (*ProducerImpl, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, producerConfig(cfg.Kafka.ClientID))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	slog.Info("Kafka producer created", "brokers", cfg.Kafka.Brokers)
	return newProducer(producer, cfg.Kafka), nil
}

// producerConfig enables idempotent delivery, which sarama only allows with
// acks=all, retries and a single in-flight request.
func producerConfig(clientID string) *sarama.Config {
	c := sarama.NewConfig()
	if clientID != "" {
		c.ClientID = clientID
	}
	c.Version = sarama.V2_8_0_0
	c.Producer.Return.Successes = true
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Idempotent = true
	c.Producer.Retry.Max = 3
	c.Net.MaxOpenRequests = 1
	return c
}

func newProducer(producer sarama.SyncProducer, cfg config.KafkaConfig) *ProducerImpl {
	return &ProducerImpl{
		producer:         producer,
		transactionTopic: cfg.TransactionTopic,
		fraudAlertTopic:  cfg.FraudAlertTopic,
		auditTopic:       cfg.AuditTopic,
	}
}

func (p *ProducerImpl) PublishTransaction(ctx context.Context, event *models.BusEvent) error {
	return p.send(ctx, p.transactionTopic, event)
}

func (p *ProducerImpl) PublishFraudAlert(ctx context.Context, event *models.BusEvent) error {
	return p.send(ctx, p.fraudAlertTopic, event)
}

func (p *ProducerImpl) PublishAudit(ctx context.Context, event *models.BusEvent) error {
	return p.send(ctx, p.auditTopic, event)
}

func (p *ProducerImpl) send(ctx context.Context, topic string, event *models.BusEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Value:     sarama.ByteEncoder(data),
		Timestamp: event.Timestamp,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
		},
	}
	if event.Key != "" {
		msg.Key = sarama.StringEncoder(event.Key)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", topic, err)
	}

	slog.Debug("event published", "topic", topic, "type", event.EventType, "partition", partition, "offset", offset)
	return nil
}

func (p *ProducerImpl) Close() error {
	return p.producer.Close()
}

// NewEvent wraps data in an envelope with a fresh id and the current UTC time.
func NewEvent(eventType, key string, data interface{}) *models.BusEvent {
	return &models.BusEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Key:       key,
		Data:      data,
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishTransaction(context.Context, *models.BusEvent) error { return nil }
func (NoopPublisher) PublishFraudAlert(context.Context, *models.BusEvent) error  { return nil }
func (NoopPublisher) PublishAudit(context.Context, *models.BusEvent) error       { return nil }
func (NoopPublisher) Close() error                                               { return nil }

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IBM/sarama"

	"fraudguard/config"
	"fraudguard/internal/models"
)

// Handler processes one decoded event. Errors are logged and the message is still committed.
type Handler func(*models.BusEvent) error

type ConsumerImpl struct {
	consumer sarama.ConsumerGroup
	topics   []string
	handler  Handler
}

// NewAlertConsumer joins the configured consumer group on the fraud alert topic.
func NewAlertConsumer(cfg *config.Config, fromBeginning bool, handler Handler) (*ConsumerImpl, error) {
	return NewConsumer(cfg, []string{cfg.Kafka.FraudAlertTopic}, fromBeginning, handler)
}

func NewConsumer(cfg *config.Config, topics []string, fromBeginning bool, handler Handler) (*ConsumerImpl, error) {
	c := sarama.NewConfig()
	c.Version = sarama.V2_8_0_0
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	if fromBeginning {
		c.Consumer.Offsets.Initial = sarama.OffsetOldest
	}

	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroupID, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	slog.Info("Kafka consumer created", "group", cfg.Kafka.ConsumerGroupID, "topics", topics)
	return &ConsumerImpl{consumer: group, topics: topics, handler: handler}, nil
}

// Start consumes until ctx is cancelled or the group fails, then closes the group.
// A consume failure is returned.
func (c *ConsumerImpl) Start(ctx context.Context) error {
	groupHandler := &consumerGroupHandler{handler: c.handler}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumeErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for {
			if err := c.consumer.Consume(ctx, c.topics, groupHandler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				slog.Error("error from consumer", "error", err)
				consumeErr <- fmt.Errorf("consume %v: %w", c.topics, err)
				cancel()
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			select {
			case err, ok := <-c.consumer.Errors():
				if !ok {
					return
				}
				slog.Error("consumer error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	slog.Info("consumer context cancelled, shutting down")
	closeErr := c.consumer.Close()
	wg.Wait()

	select {
	case err := <-consumeErr:
		return err
	default:
		return closeErr
	}
}

func (c *ConsumerImpl) Close() error {
	return c.consumer.Close()
}

type consumerGroupHandler struct {
	handler Handler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			h.handle(message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) handle(message *sarama.ConsumerMessage) {
	var event models.BusEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		slog.Warn("skipping undecodable message", "topic", message.Topic, "offset", message.Offset, "error", err)
		return
	}
	event.Key = string(message.Key)
	if err := h.handler(&event); err != nil {
		slog.Error("error handling message", "topic", message.Topic, "offset", message.Offset, "error", err)
	}
}

package kafka

import (
	"context"

	"fraudguard/internal/models"
)

// Publisher sends bus events to their topics. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishTransaction(ctx context.Context, event *models.BusEvent) error
	PublishFraudAlert(ctx context.Context, event *models.BusEvent) error
	PublishAudit(ctx context.Context, event *models.BusEvent) error

	Close() error
}

// Consumer reads events until its context is cancelled.
type Consumer interface {
	Start(ctx context.Context) error
	Close() error
}

var (
	_ Publisher = (*ProducerImpl)(nil)
	_ Publisher = NoopPublisher{}
	_ Consumer  = (*ConsumerImpl)(nil)
)

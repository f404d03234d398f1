package services

import (
	"context"
	"log/slog"
	"strconv"

	"fraudguard/internal/kafka"
	"fraudguard/internal/logger"
	"fraudguard/internal/metrics"
	"fraudguard/internal/models"
	"fraudguard/internal/redis"
)

const (
	serviceName = "fraudguard-api"

	analyticsPrefix = "analytics:"
)

const (
	topicTransactions = "transactions"
	topicFraudAlerts  = "fraud-alerts"
	topicAudit        = "audit"
)

// Notifier fans side effects of a write out to the bus, the event feed and the cache.
// None of them can fail the request.
type Notifier struct {
	publisher kafka.Publisher
	cache     redis.Cache
	metrics   *metrics.Metrics
}

// NewNotifier accepts nil for any dependency; the matching side effect is then skipped.
func NewNotifier(publisher kafka.Publisher, cache redis.Cache, m *metrics.Metrics) Notifier {
	return Notifier{publisher: publisher, cache: cache, metrics: m}
}

func (n Notifier) publish(ctx context.Context, topic string, event *models.BusEvent) {
	if n.publisher == nil {
		return
	}

	var err error
	switch topic {
	case topicTransactions:
		err = n.publisher.PublishTransaction(ctx, event)
	case topicFraudAlerts:
		err = n.publisher.PublishFraudAlert(ctx, event)
	default:
		err = n.publisher.PublishAudit(ctx, event)
	}
	n.metrics.RecordPublish(topic, err)

	if err != nil {
		slog.WarnContext(ctx, "failed to publish event", "topic", topic, "type", event.EventType, "error", err)
		return
	}
	logger.LogEvent(logger.EventKafkaPublished, serviceName, logger.ComponentKafka, map[string]interface{}{
		"topic":      topic,
		"event_id":   event.EventID,
		"event_type": event.EventType,
	})
}

func (n Notifier) audit(ctx context.Context, eventType, entity string, id int64, details map[string]interface{}) {
	logger.LogEvent(logger.EventType(eventType), serviceName, logger.ComponentAPI, map[string]interface{}{
		"entity":    entity,
		"entity_id": id,
		"details":   details,
	})
	n.publish(ctx, topicAudit, kafka.NewEvent(eventType, keyOf(id), models.AuditEventData{
		Entity:   entity,
		EntityID: id,
		Details:  details,
	}))
}

// invalidate drops cached analytics after a write.
func (n Notifier) invalidate(ctx context.Context) {
	if n.cache == nil {
		return
	}
	if err := n.cache.DeletePrefix(ctx, analyticsPrefix); err != nil {
		slog.WarnContext(ctx, "failed to invalidate analytics cache", "error", err)
		return
	}
	logger.LogEvent(logger.EventCacheInvalidated, serviceName, logger.ComponentCache, map[string]interface{}{
		"prefix": analyticsPrefix,
	})
}

func keyOf(id int64) string {
	return strconv.FormatInt(id, 10)
}

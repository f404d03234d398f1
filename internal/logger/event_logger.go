package logger

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTransactionCreated   EventType = "transaction_created"
	EventTransactionEvaluated EventType = "transaction_evaluated"
	EventTransactionRejected  EventType = "transaction_rejected"
	EventFraudDetected        EventType = "fraud_detected"
	EventAlertStatusChanged   EventType = "alert_status_changed"
	EventTransactionUpdated   EventType = "transaction_updated"
	EventTransactionDeleted   EventType = "transaction_deleted"
	EventUserCreated          EventType = "user_created"
	EventUserDeleted          EventType = "user_deleted"
	EventAccountCreated       EventType = "account_created"
	EventKafkaPublished       EventType = "kafka_published"
	EventCacheInvalidated     EventType = "cache_invalidated"
)

// Components that emit events.
const (
	ComponentAPI    = "api"
	ComponentGRPC   = "grpc"
	ComponentSQLite = "sqlite"
	ComponentKafka  = "kafka"
	ComponentCache  = "cache"
	ComponentRules  = "rules"
)

type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Service   string                 `json:"service"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Component string                 `json:"component"`
}

// EventLogger is a bounded ring of the most recent events.
type EventLogger struct {
	events  []Event
	mu      sync.RWMutex
	maxSize int
}

var globalEvents = NewEventLogger(1000)

func NewEventLogger(maxSize int) *EventLogger {
	return &EventLogger{
		events:  make([]Event, 0, maxSize),
		maxSize: maxSize,
	}
}

// LogEvent records into the process-wide feed.
func LogEvent(eventType EventType, service string, component string, data map[string]interface{}) {
	globalEvents.LogEvent(eventType, service, component, data)
}

func (el *EventLogger) LogEvent(eventType EventType, service string, component string, data map[string]interface{}) {
	el.mu.Lock()
	defer el.mu.Unlock()

	el.events = append(el.events, Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Service:   service,
		Component: component,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})

	if len(el.events) > el.maxSize {
		el.events = el.events[len(el.events)-el.maxSize:]
	}
}

func GetEvents(limit int) []Event {
	return globalEvents.GetEvents(limit)
}

// GetEvents returns up to limit of the newest events, oldest first. limit <= 0 means all.
func (el *EventLogger) GetEvents(limit int) []Event {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if limit <= 0 || limit > len(el.events) {
		limit = len(el.events)
	}

	result := make([]Event, limit)
	copy(result, el.events[len(el.events)-limit:])
	return result
}

func GetStats() map[string]interface{} {
	return globalEvents.GetStats()
}

func (el *EventLogger) GetStats() map[string]interface{} {
	el.mu.RLock()
	defer el.mu.RUnlock()

	componentStats := make(map[string]int)
	serviceStats := make(map[string]int)
	typeStats := make(map[string]int)

	for _, event := range el.events {
		componentStats[event.Component]++
		serviceStats[event.Service]++
		typeStats[string(event.Type)]++
	}

	return map[string]interface{}{
		"total_events": len(el.events),
		"components":   componentStats,
		"services":     serviceStats,
		"event_types":  typeStats,
	}
}

func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Alias:     (*Alias)(&e),
	})
}

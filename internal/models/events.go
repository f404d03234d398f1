package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTransactionCreated = "transaction_created"
	EventFraudDetected      = "fraud_detected"
	EventAlertStatusChanged = "alert_status_changed"
	EventTransactionUpdated = "transaction_updated"
	EventTransactionDeleted = "transaction_deleted"
	EventUserCreated        = "user_created"
	EventUserDeleted        = "user_deleted"
)

// BusEvent is the envelope published to the message bus.
type BusEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	Key       string      `json:"-"`
	Data      interface{} `json:"data"`
}

type TransactionEventData struct {
	TransactionID int64           `json:"transaction_id"`
	AccountID     int64           `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Direction     Direction       `json:"direction"`
	Country       string          `json:"country"`
	Device        string          `json:"device"`
	IsFraud       bool            `json:"is_fraud"`
	FraudReason   string          `json:"fraud_reason,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

type FraudAlertEventData struct {
	AlertID       int64   `json:"alert_id"`
	TransactionID int64   `json:"transaction_id"`
	RiskScore     float64 `json:"risk_score"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
}

type AuditEventData struct {
	Entity   string                 `json:"entity"`
	EntityID int64                  `json:"entity_id"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

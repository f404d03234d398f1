package models

import (
	"strings"
	"time"
)

const (
	AlertStatusPending     = "Pending"
	AlertStatusUnderReview = "Under Review"
	AlertStatusResolved    = "Resolved"
	AlertStatusDismissed   = "Dismissed"
)

var AlertStatuses = []string{AlertStatusPending, AlertStatusUnderReview, AlertStatusResolved, AlertStatusDismissed}

// NormalizeAlertStatus accepts "under review", "Under_Review", "UnderReview" and the like.
func NormalizeAlertStatus(status string) (string, bool) {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(status))
	for _, s := range AlertStatuses {
		if strings.ToLower(strings.ReplaceAll(s, " ", "")) == key {
			return s, true
		}
	}
	return "", false
}

type FraudAlert struct {
	ID            int64      `json:"id"`
	TransactionID int64      `json:"transaction_id"`
	RiskScore     float64    `json:"risk_score"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`

	Transaction *Transaction `json:"transaction,omitempty"`
}

type UpdateAlertStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

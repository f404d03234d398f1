package services

import (
	"context"
	"strings"
	"time"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/kafka"
	"fraudguard/internal/logger"
	"fraudguard/internal/models"
	"fraudguard/internal/storage"
)

const DefaultAlertLimit = 100

type FraudAlertServiceImpl struct {
	alerts       storage.FraudAlertRepository
	transactions storage.TransactionRepository
	notify       Notifier
	now          func() time.Time
}

func NewFraudAlertService(alerts storage.FraudAlertRepository, transactions storage.TransactionRepository, n Notifier) FraudAlertService {
	return &FraudAlertServiceImpl{alerts: alerts, transactions: transactions, notify: n, now: time.Now}
}

func (s *FraudAlertServiceImpl) ListAlerts(ctx context.Context, status string, limit int) ([]*models.FraudAlert, error) {
	if status != "" {
		canonical, ok := models.NormalizeAlertStatus(status)
		if !ok {
			return nil, invalidStatus(status)
		}
		status = canonical
	}
	if limit <= 0 {
		limit = DefaultAlertLimit
	}
	return s.alerts.ListAlerts(ctx, status, limit)
}

// GetAlert returns the alert with its transaction attached.
func (s *FraudAlertServiceImpl) GetAlert(ctx context.Context, id int64) (*models.FraudAlert, error) {
	alert, err := s.alerts.GetAlert(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "alert not found")
	}
	tx, err := s.transactions.GetTransaction(ctx, alert.TransactionID)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	alert.Transaction = tx
	return alert, nil
}

func (s *FraudAlertServiceImpl) UpdateAlertStatus(ctx context.Context, id int64, status string) (*models.FraudAlert, error) {
	canonical, ok := models.NormalizeAlertStatus(status)
	if !ok {
		return nil, invalidStatus(status)
	}

	alert, err := s.alerts.GetAlert(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "alert not found")
	}

	previous := alert.Status
	updatedAt := s.now().UTC()
	if err := s.alerts.UpdateAlertStatus(ctx, id, canonical, updatedAt); err != nil {
		return nil, notFoundAs(err, "alert not found")
	}
	alert.Status = canonical
	alert.UpdatedAt = &updatedAt

	s.notify.metrics.RecordAlertStatus(canonical)
	logger.LogEvent(logger.EventAlertStatusChanged, serviceName, logger.ComponentAPI, map[string]interface{}{
		"alert_id": id,
		"from":     previous,
		"to":       canonical,
	})
	s.notify.publish(ctx, topicAudit, kafka.NewEvent(models.EventAlertStatusChanged, keyOf(alert.TransactionID), models.AuditEventData{
		Entity:   "fraud_alert",
		EntityID: id,
		Details:  map[string]interface{}{"from": previous, "to": canonical},
	}))
	s.notify.invalidate(ctx)
	return alert, nil
}

func invalidStatus(status string) error {
	return apperrors.Invalid("invalid status %q. Valid statuses: %s", status, strings.Join(models.AlertStatuses, ", "))
}

// notFoundAs replaces the message of a not-found error.
func notFoundAs(err error, message string) error {
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return apperrors.New(apperrors.ErrNotFound, "%s", message)
	}
	return err
}

package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/fraud"
	"fraudguard/internal/generator"
	"fraudguard/internal/kafka"
	"fraudguard/internal/logger"
	"fraudguard/internal/models"
	"fraudguard/internal/storage"
)

const relatedTransactionsLimit = 10

type TransactionServiceImpl struct {
	transactions storage.TransactionRepository
	accounts     storage.AccountRepository
	users        storage.UserRepository
	alerts       storage.FraudAlertRepository
	evaluator    *fraud.Evaluator
	generator    *generator.TransactionGenerator
	notify       Notifier
	now          func() time.Time
}

func NewTransactionService(
	transactions storage.TransactionRepository,
	accounts storage.AccountRepository,
	users storage.UserRepository,
	alerts storage.FraudAlertRepository,
	evaluator *fraud.Evaluator,
	n Notifier,
) TransactionService {
	if evaluator == nil {
		evaluator = fraud.DefaultEvaluator()
	}
	return &TransactionServiceImpl{
		transactions: transactions,
		accounts:     accounts,
		users:        users,
		alerts:       alerts,
		evaluator:    evaluator,
		generator:    generator.NewTransactionGenerator(),
		notify:       n,
		now:          time.Now,
	}
}

// CreateTransaction classifies and evaluates the request, then hands the transaction,
// the balance change and the alert to the repository as one unit. Side effects run
// only after the commit.
func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.TransactionResult, error) {
	ts := s.now().UTC()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		ts = req.Timestamp.UTC()
	}

	eval, err := s.evaluator.Evaluate(fraud.Candidate{
		Amount:    req.Amount,
		Type:      req.Type,
		Country:   req.Country,
		Device:    req.Device,
		Timestamp: ts,
	})
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		Type:         eval.Type,
		Country:      strings.ToUpper(strings.TrimSpace(req.Country)),
		Device:       strings.TrimSpace(req.Device),
		RecipientRIB: req.RecipientRIB,
		Description:  req.Description,
		Timestamp:    ts,
		IsFraud:      eval.IsFraud,
	}

	var alert *models.FraudAlert
	if eval.IsFraud {
		reason := eval.Reason
		tx.FraudReason = &reason
		alert = &models.FraudAlert{
			RiskScore: eval.RiskScore,
			Reason:    reason,
			Status:    models.AlertStatusPending,
			CreatedAt: s.now().UTC(),
		}
	}

	account, err := s.transactions.CreateTransactionWithBalance(ctx, tx, eval.Direction, alert)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInsufficientFunds) {
			s.notify.metrics.RecordRejected(string(eval.Direction))
			logger.LogEvent(logger.EventTransactionRejected, serviceName, logger.ComponentSQLite, map[string]interface{}{
				"account_id": req.AccountID,
				"amount":     req.Amount.String(),
			})
		}
		return nil, err
	}

	s.afterCreate(ctx, tx, eval, alert)

	return &models.TransactionResult{
		Transaction: tx,
		FraudAlert:  alert,
		Evaluation:  eval,
		Balance:     account.Balance,
	}, nil
}

func (s *TransactionServiceImpl) afterCreate(ctx context.Context, tx *models.Transaction, eval *models.Evaluation, alert *models.FraudAlert) {
	rules := make([]string, 0, len(eval.Hits))
	for _, hit := range eval.Hits {
		rules = append(rules, hit.Rule)
	}
	s.notify.metrics.RecordTransaction(string(eval.Direction), eval.IsFraud, rules, eval.RiskScore)

	logger.LogEvent(logger.EventTransactionCreated, serviceName, logger.ComponentSQLite, map[string]interface{}{
		"transaction_id": tx.ID,
		"account_id":     tx.AccountID,
		"amount":         tx.Amount.String(),
		"type":           tx.Type,
		"is_fraud":       tx.IsFraud,
	})

	s.notify.publish(ctx, topicTransactions, kafka.NewEvent(models.EventTransactionCreated, keyOf(tx.ID), models.TransactionEventData{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		Amount:        tx.Amount,
		Type:          tx.Type,
		Direction:     eval.Direction,
		Country:       tx.Country,
		Device:        tx.Device,
		IsFraud:       tx.IsFraud,
		FraudReason:   eval.Reason,
		Timestamp:     tx.Timestamp,
	}))

	if alert != nil {
		slog.WarnContext(ctx, "fraud detected",
			"transaction_id", tx.ID, "alert_id", alert.ID, "risk_score", alert.RiskScore, "reason", alert.Reason)
		logger.LogEvent(logger.EventFraudDetected, serviceName, logger.ComponentRules, map[string]interface{}{
			"transaction_id": tx.ID,
			"alert_id":       alert.ID,
			"risk_score":     alert.RiskScore,
			"rules":          rules,
		})
		s.notify.publish(ctx, topicFraudAlerts, kafka.NewEvent(models.EventFraudDetected, keyOf(tx.ID), models.FraudAlertEventData{
			AlertID:       alert.ID,
			TransactionID: tx.ID,
			RiskScore:     alert.RiskScore,
			Reason:        alert.Reason,
			Status:        alert.Status,
		}))
	}

	s.notify.invalidate(ctx)
}

func (s *TransactionServiceImpl) EvaluateTransaction(_ context.Context, req *models.EvaluateRequest) (*models.Evaluation, error) {
	ts := s.now().UTC()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		ts = req.Timestamp.UTC()
	}
	eval, err := s.evaluator.Evaluate(fraud.Candidate{
		Amount:    req.Amount,
		Type:      req.Type,
		Country:   req.Country,
		Device:    req.Device,
		Timestamp: ts,
	})
	if err != nil {
		return nil, err
	}
	logger.LogEvent(logger.EventTransactionEvaluated, serviceName, logger.ComponentRules, map[string]interface{}{
		"type":     eval.Type,
		"is_fraud": eval.IsFraud,
	})
	return eval, nil
}

// GetTransaction returns the transaction with its alert, if any, and recent transactions of the same account.
func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, id int64) (*models.TransactionDetail, error) {
	tx, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.TransactionDetail{Transaction: tx}
	alert, err := s.alerts.GetAlertByTransaction(ctx, id)
	switch {
	case err == nil:
		detail.FraudAlert = alert
	case !apperrors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	if detail.RelatedTransactions, err = s.transactions.ListRelatedTransactions(ctx, tx.AccountID, tx.ID, relatedTransactionsLimit); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.Page[*models.Transaction], error) {
	if err := normalizeTransactionFilter(&filter); err != nil {
		return nil, err
	}
	transactions, total, err := s.transactions.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.Transaction]{
		Data:       transactions,
		Pagination: models.NewPagination(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *TransactionServiceImpl) ListAccountTransactions(ctx context.Context, accountID int64, filter models.TransactionFilter) (*models.Page[*models.Transaction], error) {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	filter.AccountID = accountID
	return s.ListTransactions(ctx, filter)
}

// ListUserTransactions pages over every account of the user and adds all/suspicious counts
// that ignore the is_fraud filter.
func (s *TransactionServiceImpl) ListUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (*models.UserTransactionsPage, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	filter.UserID = userID

	page, err := s.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.transactions.CountTransactions(ctx, models.TransactionFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return &models.UserTransactionsPage{Page: *page, Counts: counts}, nil
}

// UpdateTransaction changes the fraud verdict. Clearing the flag also clears the reason.
func (s *TransactionServiceImpl) UpdateTransaction(ctx context.Context, id int64, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	tx, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	wasFraud := tx.IsFraud
	if req.IsFraud != nil {
		tx.IsFraud = *req.IsFraud
		if !tx.IsFraud {
			tx.FraudReason = nil
		}
	}
	if req.FraudReason != nil {
		reason := strings.TrimSpace(*req.FraudReason)
		if reason == "" {
			tx.FraudReason = nil
		} else {
			tx.FraudReason = &reason
		}
	}

	if err := s.transactions.UpdateTransactionFraud(ctx, id, tx.IsFraud, tx.FraudReason); err != nil {
		return nil, err
	}
	if tx.IsFraud && !wasFraud {
		if err := s.openManualAlert(ctx, tx); err != nil {
			return nil, err
		}
	}

	s.notify.audit(ctx, models.EventTransactionUpdated, "transaction", id, map[string]interface{}{
		"is_fraud": tx.IsFraud,
	})
	s.notify.invalidate(ctx)
	return tx, nil
}

// manualFlagReason is the alert reason when a transaction is flagged by hand without one.
const manualFlagReason = "Flagged manually."

// openManualAlert gives a hand-flagged transaction a Pending alert unless it already has one.
// The score is what the rules give the stored transaction, never below the base score.
func (s *TransactionServiceImpl) openManualAlert(ctx context.Context, tx *models.Transaction) error {
	if _, err := s.alerts.GetAlertByTransaction(ctx, tx.ID); err == nil {
		return nil
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	score := fraud.BaseRiskScore
	eval, err := s.evaluator.Evaluate(fraud.Candidate{
		Amount:    tx.Amount,
		Type:      tx.Type,
		Country:   tx.Country,
		Device:    tx.Device,
		Timestamp: tx.Timestamp,
	})
	if err == nil && eval.RiskScore > score {
		score = eval.RiskScore
	}

	reason := manualFlagReason
	if tx.FraudReason != nil {
		reason = *tx.FraudReason
	}
	alert := &models.FraudAlert{
		TransactionID: tx.ID,
		RiskScore:     score,
		Reason:        reason,
		Status:        models.AlertStatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.alerts.CreateAlert(ctx, alert); err != nil {
		return err
	}

	s.notify.publish(ctx, topicFraudAlerts, kafka.NewEvent(models.EventFraudDetected, keyOf(tx.ID), models.FraudAlertEventData{
		AlertID:       alert.ID,
		TransactionID: tx.ID,
		RiskScore:     alert.RiskScore,
		Reason:        alert.Reason,
		Status:        alert.Status,
	}))
	return nil
}

// DeleteTransaction removes the transaction and its alert. The account balance is left as is.
func (s *TransactionServiceImpl) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.transactions.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.notify.audit(ctx, models.EventTransactionDeleted, "transaction", id, nil)
	s.notify.invalidate(ctx)
	return nil
}

func (s *TransactionServiceImpl) GenerateTransaction(riskLevel string, accountID int64) *models.CreateTransactionRequest {
	return s.generator.GenerateTransaction(riskLevel, accountID)
}

func (s *TransactionServiceImpl) Rules() []fraud.RuleInfo {
	return s.evaluator.Rules()
}

// normalizeTransactionFilter applies paging defaults and canonicalises the type filter.
func normalizeTransactionFilter(f *models.TransactionFilter) error {
	f.Page, f.PageSize = models.NormalizePage(f.Page, f.PageSize, 50)
	if f.Type != "" {
		canonical, _, ok := models.ClassifyType(f.Type)
		if !ok {
			return apperrors.Invalid("invalid transaction type: %s. Valid types: %s",
				f.Type, strings.Join(models.AllTransactionTypes(), ", "))
		}
		f.Type = canonical
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return apperrors.Invalid("min_amount cannot exceed max_amount")
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return apperrors.Invalid("start_date cannot be after end_date")
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/models"
)

// CreateUser inserts a user and sets its ID.
func (s *SQLiteStorage) CreateUser(ctx context.Context, user *models.User) error {
	return withRetry(ctx, func() error {
		return insertUser(ctx, s.DB, user)
	})
}

// CreateUserWithAccount inserts the user and its default FG account in one transaction.
func (s *SQLiteStorage) CreateUserWithAccount(ctx context.Context, user *models.User, initialBalance decimal.Decimal) (*models.Account, error) {
	var account *models.Account
	err := withRetry(ctx, func() error {
		dbTx, err := s.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer dbTx.Rollback()

		if err := insertUser(ctx, dbTx, user); err != nil {
			return err
		}
		account = &models.Account{
			UserID:        user.ID,
			AccountNumber: models.DefaultAccountNumber(user.ID),
			Balance:       initialBalance,
			CreatedAt:     user.CreatedAt,
		}
		if err := insertAccount(ctx, dbTx, account); err != nil {
			return err
		}
		return dbTx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CreateAccount inserts an account and sets its ID.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *models.Account) error {
	return withRetry(ctx, func() error {
		return insertAccount(ctx, s.DB, account)
	})
}

// CreateAlert inserts a fraud alert and sets its ID.
func (s *SQLiteStorage) CreateAlert(ctx context.Context, alert *models.FraudAlert) error {
	return withRetry(ctx, func() error {
		return insertAlert(ctx, s.DB, alert)
	})
}

// CreateTransactionWithBalance loads the account, moves its balance in the given
// direction, inserts the transaction and the optional alert, then commits.
// Nothing is written when any step fails.
func (s *SQLiteStorage) CreateTransactionWithBalance(ctx context.Context, tx *models.Transaction, direction models.Direction, alert *models.FraudAlert) (*models.Account, error) {
	var account *models.Account
	err := withRetry(ctx, func() error {
		var err error
		account, err = s.createTransactionWithBalance(ctx, tx, direction, alert)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *SQLiteStorage) createTransactionWithBalance(ctx context.Context, tx *models.Transaction, direction models.Direction, alert *models.FraudAlert) (*models.Account, error) {
	dbTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer dbTx.Rollback()

	account, err := getAccount(ctx, dbTx, tx.AccountID)
	if err != nil {
		return nil, err
	}

	switch direction {
	case models.DirectionIncoming:
		account.Balance = account.Balance.Add(tx.Amount)
	case models.DirectionOutgoing:
		if account.Balance.LessThan(tx.Amount) {
			return nil, apperrors.New(apperrors.ErrInsufficientFunds,
				"insufficient balance. Current balance: %s MAD, requested amount: %s MAD",
				account.Balance.StringFixed(2), tx.Amount.StringFixed(2))
		}
		account.Balance = account.Balance.Sub(tx.Amount)
	default:
		return nil, apperrors.Invalid("unknown transaction direction %q", direction)
	}

	if _, err := dbTx.ExecContext(ctx, `UPDATE accounts SET balance = ? WHERE id = ?`, account.Balance, account.ID); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `
		INSERT INTO transactions (account_id, amount, type, country, device, recipient_rib,
			description, timestamp, is_fraud, fraud_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.AccountID, tx.Amount, tx.Type, tx.Country, tx.Device, stringOrNil(tx.RecipientRIB),
		stringOrNil(tx.Description), formatTime(tx.Timestamp), tx.IsFraud, stringOrNil(tx.FraudReason),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	if tx.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}

	if alert != nil {
		alert.TransactionID = tx.ID
		if err := insertAlert(ctx, dbTx, alert); err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	tx.AccountNumber = account.AccountNumber
	tx.UserID = account.UserID
	return account, nil
}

func insertUser(ctx context.Context, q querier, user *models.User) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role, formatTime(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrAlreadyExists, "email already exists")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	return err
}

func insertAccount(ctx context.Context, q querier, account *models.Account) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO accounts (user_id, account_number, balance, created_at)
		VALUES (?, ?, ?, ?)`,
		account.UserID, account.AccountNumber, account.Balance, formatTime(account.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrAlreadyExists, "account number %s already exists", account.AccountNumber)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("user")
		}
		return fmt.Errorf("insert account: %w", err)
	}
	account.ID, err = res.LastInsertId()
	return err
}

func insertAlert(ctx context.Context, q querier, alert *models.FraudAlert) error {
	if alert.Status == "" {
		alert.Status = models.AlertStatusPending
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO fraud_alerts (transaction_id, risk_score, reason, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		alert.TransactionID, alert.RiskScore, alert.Reason, alert.Status, formatTime(alert.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.ErrAlreadyExists, "transaction %d already has an alert", alert.TransactionID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("transaction")
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	alert.ID, err = res.LastInsertId()
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(what)
	}
	return err
}

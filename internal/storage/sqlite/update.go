package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/models"
)

// UpdateUser overwrites the mutable user columns.
func (s *SQLiteStorage) UpdateUser(ctx context.Context, user *models.User) error {
	return withRetry(ctx, func() error {
		res, err := s.DB.ExecContext(ctx, `
			UPDATE users SET first_name = ?, last_name = ?, email = ?, password_hash = ?, role = ?
			WHERE id = ?`,
			user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role, user.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.New(apperrors.ErrAlreadyExists, "email already exists")
			}
			return fmt.Errorf("update user: %w", err)
		}
		return expectRow(res, "user")
	})
}

// UpdateTransactionFraud changes the fraud flag. A nil reason clears it.
func (s *SQLiteStorage) UpdateTransactionFraud(ctx context.Context, id int64, isFraud bool, reason *string) error {
	return withRetry(ctx, func() error {
		res, err := s.DB.ExecContext(ctx,
			`UPDATE transactions SET is_fraud = ?, fraud_reason = ? WHERE id = ?`,
			isFraud, stringOrNil(reason), id,
		)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return expectRow(res, "transaction")
	})
}

func (s *SQLiteStorage) UpdateAlertStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error {
	return withRetry(ctx, func() error {
		res, err := s.DB.ExecContext(ctx,
			`UPDATE fraud_alerts SET status = ?, updated_at = ? WHERE id = ?`,
			status, formatTime(updatedAt), id,
		)
		if err != nil {
			return fmt.Errorf("update alert status: %w", err)
		}
		return expectRow(res, "fraud alert")
	})
}

func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound(what)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"
)

// DeleteUser removes the user and everything hanging off it. Rows are deleted
// explicitly so the result does not depend on the foreign_keys pragma.
func (s *SQLiteStorage) DeleteUser(ctx context.Context, id int64) error {
	return withRetry(ctx, func() error {
		dbTx, err := s.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer dbTx.Rollback()

		stmts := []string{
			`DELETE FROM fraud_alerts WHERE transaction_id IN (
				SELECT t.id FROM transactions t JOIN accounts a ON a.id = t.account_id WHERE a.user_id = ?)`,
			`DELETE FROM transactions WHERE account_id IN (SELECT id FROM accounts WHERE user_id = ?)`,
			`DELETE FROM accounts WHERE user_id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := dbTx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("delete user data: %w", err)
			}
		}

		res, err := dbTx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if err := expectRow(res, "user"); err != nil {
			return err
		}
		return dbTx.Commit()
	})
}

// DeleteTransaction removes the transaction and its alert. Balances are not restored.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) error {
	return withRetry(ctx, func() error {
		dbTx, err := s.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer dbTx.Rollback()

		if _, err := dbTx.ExecContext(ctx, `DELETE FROM fraud_alerts WHERE transaction_id = ?`, id); err != nil {
			return fmt.Errorf("delete alert: %w", err)
		}
		res, err := dbTx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		if err := expectRow(res, "transaction"); err != nil {
			return err
		}
		return dbTx.Commit()
	})
}

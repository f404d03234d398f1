package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fraudguard/internal/models"
)

const recentTransactionsLimit = 5

func (s *SQLiteStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = ? COLLATE NOCASE`, email))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// ListUsers returns one page of users ordered by creation date, newest first, and the total count.
func (s *SQLiteStorage) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Role != "" {
		conds = append(conds, "u.role = ? COLLATE NOCASE")
		args = append(args, filter.Role)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		conds = append(conds, "(LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)")
		args = append(args, like, like, like)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userSummaryColumns + ` FROM users u` + where + ` ORDER BY u.created_at DESC, u.id DESC LIMIT ? OFFSET ?`
	rows, err := s.DB.QueryContext(ctx, query, append(args, filter.PageSize, offset(filter.Page, filter.PageSize))...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*models.UserSummary{}
	for rows.Next() {
		u, err := scanUserSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// GetUserStats aggregates over all of the user's accounts. The user must exist.
func (s *SQLiteStorage) GetUserStats(ctx context.Context, id int64) (*models.UserStats, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	stats := &models.UserStats{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), ROUND(COALESCE(SUM(balance), 0), 2) FROM accounts WHERE user_id = ?`, id,
	).Scan(&stats.TotalAccounts, &stats.TotalBalance)
	if err != nil {
		return nil, fmt.Errorf("account totals: %w", err)
	}

	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN t.is_fraud = 1 THEN 1 ELSE 0 END), 0),
			ROUND(COALESCE(SUM(t.amount), 0), 2),
			ROUND(COALESCE(SUM(CASE WHEN t.is_fraud = 1 THEN t.amount ELSE 0 END), 0), 2)
		FROM transactions t JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ?`, id,
	).Scan(&stats.TotalTransactions, &stats.FraudTransactions, &stats.TotalAmount, &stats.FraudAmount)
	if err != nil {
		return nil, fmt.Errorf("transaction totals: %w", err)
	}
	stats.FraudPercentage = models.PercentString(stats.FraudTransactions, stats.TotalTransactions, 2)

	rows, err := s.DB.QueryContext(ctx, `SELECT `+transactionColumns+transactionFrom+`
		WHERE a.user_id = ? ORDER BY t.timestamp DESC, t.id DESC LIMIT ?`, id, recentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	if stats.RecentTransactions, err = scanTransactions(rows); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *SQLiteStorage) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return getAccount(ctx, s.DB, id)
}

func getAccount(ctx context.Context, q querier, id int64) (*models.Account, error) {
	account, err := scanAccount(q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "account")
	}
	return account, nil
}

func (s *SQLiteStorage) GetAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	account, err := scanAccount(s.DB.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = ?`, number))
	if err != nil {
		return nil, notFound(err, "account")
	}
	return account, nil
}

func (s *SQLiteStorage) CountAccountsByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (s *SQLiteStorage) ListAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *SQLiteStorage) GetAccountStats(ctx context.Context, id int64) (*models.AccountStats, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &models.AccountStats{AccountID: account.ID, AccountNumber: account.AccountNumber}
	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN is_fraud = 1 THEN 1 ELSE 0 END), 0),
			ROUND(COALESCE(SUM(amount), 0), 2),
			ROUND(COALESCE(SUM(CASE WHEN is_fraud = 1 THEN amount ELSE 0 END), 0), 2)
		FROM transactions WHERE account_id = ?`, id,
	).Scan(&stats.TotalTransactions, &stats.FraudTransactions, &stats.TotalAmount, &stats.FraudAmount)
	if err != nil {
		return nil, fmt.Errorf("account stats: %w", err)
	}
	stats.FraudPercentage = models.PercentString(stats.FraudTransactions, stats.TotalTransactions, 2)
	return stats, nil
}

func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	tx, err := scanTransaction(s.DB.QueryRowContext(ctx, `SELECT `+transactionColumns+transactionFrom+` WHERE t.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "transaction")
	}
	return tx, nil
}

// ListTransactions returns one page, newest first, and the total matching the filter.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int64, error) {
	where, args := transactionWhere(filter)

	var total int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*)`+transactionFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + transactionFrom + where +
		` ORDER BY t.timestamp DESC, t.id DESC LIMIT ? OFFSET ?`
	rows, err := s.DB.QueryContext(ctx, query, append(args, filter.PageSize, offset(filter.Page, filter.PageSize))...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// CountTransactions ignores the filter's IsFraud field and counts all and suspicious rows.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, filter models.TransactionFilter) (models.TransactionCounts, error) {
	filter.IsFraud = nil
	where, args := transactionWhere(filter)

	var counts models.TransactionCounts
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN t.is_fraud = 1 THEN 1 ELSE 0 END), 0)`+transactionFrom+where, args...,
	).Scan(&counts.All, &counts.Suspicious)
	if err != nil {
		return counts, fmt.Errorf("count transactions: %w", err)
	}
	return counts, nil
}

func (s *SQLiteStorage) ListRelatedTransactions(ctx context.Context, accountID, excludeID int64, limit int) ([]*models.Transaction, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+transactionColumns+transactionFrom+`
		WHERE t.account_id = ? AND t.id <> ?
		ORDER BY t.timestamp DESC, t.id DESC LIMIT ?`, accountID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("related transactions: %w", err)
	}
	return scanTransactions(rows)
}

func (s *SQLiteStorage) GetAlert(ctx context.Context, id int64) (*models.FraudAlert, error) {
	alert, err := scanAlert(s.DB.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM fraud_alerts f WHERE f.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "fraud alert")
	}
	return alert, nil
}

func (s *SQLiteStorage) GetAlertByTransaction(ctx context.Context, transactionID int64) (*models.FraudAlert, error) {
	alert, err := scanAlert(s.DB.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM fraud_alerts f WHERE f.transaction_id = ?`, transactionID))
	if err != nil {
		return nil, notFound(err, "fraud alert")
	}
	return alert, nil
}

// ListAlerts returns alerts newest first with their transactions attached.
// An empty status matches every alert.
func (s *SQLiteStorage) ListAlerts(ctx context.Context, status string, limit int) ([]*models.FraudAlert, error) {
	query := `SELECT ` + alertColumns + `, ` + transactionColumns + `
		FROM fraud_alerts f
		JOIN transactions t ON t.id = f.transaction_id
		JOIN accounts a ON a.id = t.account_id
		JOIN users u ON u.id = a.user_id`
	var args []interface{}
	if status != "" {
		query += ` WHERE f.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY f.created_at DESC, f.id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return scanAlertsWithTransactions(rows)
}

// scanAlertsWithTransactions reads rows shaped as alertColumns followed by transactionColumns.
func scanAlertsWithTransactions(rows *sql.Rows) ([]*models.FraudAlert, error) {
	defer rows.Close()

	alerts := []*models.FraudAlert{}
	for rows.Next() {
		alert, err := scanAlertWithTransaction(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

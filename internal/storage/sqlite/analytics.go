package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fraudguard/internal/models"
)

// fraudCountsColumns is the aggregate tail shared by the breakdown queries.
// SQLite sums NUMERIC columns as REAL, so money totals are rounded to cents.
const fraudCountsColumns = `COUNT(*),
	COALESCE(SUM(CASE WHEN t.is_fraud = 1 THEN 1 ELSE 0 END), 0),
	ROUND(COALESCE(SUM(t.amount), 0), 2),
	ROUND(COALESCE(SUM(CASE WHEN t.is_fraud = 1 THEN t.amount ELSE 0 END), 0), 2)`

func (s *SQLiteStorage) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{Timestamp: time.Now().UTC()}
	err := s.DB.QueryRowContext(ctx, `SELECT `+fraudCountsColumns+` FROM transactions t`).
		Scan(&stats.TotalTransactions, &stats.FraudTransactions, &stats.TotalAmount, &stats.FraudAmount)
	if err != nil {
		return nil, fmt.Errorf("transaction totals: %w", err)
	}
	err = s.DB.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM fraud_alerts WHERE status = ?)`, models.AlertStatusPending,
	).Scan(&stats.TotalUsers, &stats.TotalAccounts, &stats.PendingAlerts)
	if err != nil {
		return nil, fmt.Errorf("entity totals: %w", err)
	}
	stats.FraudPercentage = models.PercentString(stats.FraudTransactions, stats.TotalTransactions, 2)
	return stats, nil
}

// Dashboard computes every dashboard block relative to now (UTC). Weeks start on Sunday.
func (s *SQLiteStorage) Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	d := &models.DashboardStats{GeneratedAt: now}

	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0),
			(SELECT COUNT(*) FROM accounts),
			(SELECT ROUND(COALESCE(SUM(balance), 0), 2) FROM accounts)
		FROM users`, models.RoleAdmin,
	).Scan(&d.Overview.TotalUsers, &d.Overview.AdminUsers, &d.Overview.TotalAccounts, &d.Overview.TotalBalance)
	if err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	d.Overview.RegularUsers = d.Overview.TotalUsers - d.Overview.AdminUsers

	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN timestamp >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN timestamp >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN timestamp >= ? THEN 1 ELSE 0 END), 0),
			ROUND(COALESCE(SUM(amount), 0), 2),
			COALESCE(SUM(CASE WHEN is_fraud = 1 THEN 1 ELSE 0 END), 0),
			ROUND(COALESCE(SUM(CASE WHEN is_fraud = 1 THEN amount ELSE 0 END), 0), 2)
		FROM transactions`,
		formatTime(today), formatTime(weekStart), formatTime(monthStart),
	).Scan(
		&d.Transactions.Total, &d.Transactions.Today, &d.Transactions.ThisWeek, &d.Transactions.ThisMonth,
		&d.Transactions.TotalAmount, &d.Fraud.TotalFraudTransactions, &d.Fraud.FraudAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard transactions: %w", err)
	}
	if d.Transactions.Total > 0 {
		d.Transactions.AverageAmount = d.Transactions.TotalAmount.
			Div(decimal.NewFromInt(d.Transactions.Total)).Round(2)
	}
	d.Fraud.FraudRate = models.Rate(d.Fraud.TotalFraudTransactions, d.Transactions.Total)
	d.Fraud.PreventedLoss = d.Fraud.FraudAmount

	var avgRisk float64
	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(risk_score), 0)
		FROM fraud_alerts`,
		models.AlertStatusPending, models.AlertStatusUnderReview, models.AlertStatusResolved, models.AlertStatusDismissed,
	).Scan(&d.Alerts.Total, &d.Alerts.Pending, &d.Alerts.UnderReview, &d.Alerts.Resolved, &d.Alerts.Dismissed, &avgRisk)
	if err != nil {
		return nil, fmt.Errorf("dashboard alerts: %w", err)
	}
	d.Alerts.AverageRiskScore = round2(avgRisk * 100)

	return d, nil
}

// DailyTrends groups transactions by UTC date from since onwards, oldest first.
func (s *SQLiteStorage) DailyTrends(ctx context.Context, since time.Time) ([]models.DailyTrend, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT date(t.timestamp) AS day, `+fraudCountsColumns+`
		FROM transactions t
		WHERE t.timestamp >= ?
		GROUP BY day ORDER BY day`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("daily trends: %w", err)
	}
	defer rows.Close()

	trends := []models.DailyTrend{}
	for rows.Next() {
		var t models.DailyTrend
		if err := rows.Scan(&t.Date, &t.TotalTransactions, &t.FraudTransactions, &t.TotalAmount, &t.FraudAmount); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// groupedCounts runs a GROUP BY over transactions keyed by keyExpr.
func (s *SQLiteStorage) groupedCounts(ctx context.Context, keyExpr, where, order string, limit int) ([]string, []models.FraudCounts, error) {
	query := `SELECT ` + keyExpr + ` AS k, ` + fraudCountsColumns + ` FROM transactions t` + where + ` GROUP BY k`
	if order != "" {
		query += ` ORDER BY ` + order
	}
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	keys := []string{}
	counts := []models.FraudCounts{}
	for rows.Next() {
		var (
			key sql.NullString
			c   models.FraudCounts
		)
		if err := rows.Scan(&key, &c.TotalTransactions, &c.FraudTransactions, &c.TotalAmount, &c.FraudAmount); err != nil {
			return nil, nil, err
		}
		c.FraudRate = models.Rate(c.FraudTransactions, c.TotalTransactions)
		keys = append(keys, key.String)
		counts = append(counts, c)
	}
	return keys, counts, rows.Err()
}

const byRate = `CAST(SUM(CASE WHEN t.is_fraud = 1 THEN 1 ELSE 0 END) AS REAL) / COUNT(*) DESC, COUNT(*) DESC, k`

func (s *SQLiteStorage) FraudByCountry(ctx context.Context, orderByRate bool) ([]models.CountryStat, error) {
	order := "COUNT(*) DESC, k"
	if orderByRate {
		order = byRate
	}
	keys, counts, err := s.groupedCounts(ctx, "t.country", "", order, 0)
	if err != nil {
		return nil, fmt.Errorf("fraud by country: %w", err)
	}
	out := make([]models.CountryStat, len(keys))
	for i := range keys {
		out[i] = models.CountryStat{Country: keys[i], FraudCounts: counts[i]}
	}
	return out, nil
}

func (s *SQLiteStorage) FraudByDevice(ctx context.Context, orderByRate bool) ([]models.DeviceStat, error) {
	order := "COUNT(*) DESC, k"
	if orderByRate {
		order = byRate
	}
	keys, counts, err := s.groupedCounts(ctx, "t.device", "", order, 0)
	if err != nil {
		return nil, fmt.Errorf("fraud by device: %w", err)
	}
	return deviceStats(keys, counts), nil
}

// FraudDevices lists only devices that saw fraud, most fraud first.
func (s *SQLiteStorage) FraudDevices(ctx context.Context) ([]models.DeviceStat, error) {
	keys, counts, err := s.groupedCounts(ctx, "t.device", " WHERE t.is_fraud = 1", "COUNT(*) DESC, k", 0)
	if err != nil {
		return nil, fmt.Errorf("fraud devices: %w", err)
	}
	return deviceStats(keys, counts), nil
}

func deviceStats(keys []string, counts []models.FraudCounts) []models.DeviceStat {
	out := make([]models.DeviceStat, len(keys))
	for i := range keys {
		out[i] = models.DeviceStat{Device: keys[i], FraudCounts: counts[i]}
	}
	return out
}

// TopFraudCountries lists countries that saw fraud, most fraud first.
func (s *SQLiteStorage) TopFraudCountries(ctx context.Context, limit int) ([]models.CountryStat, error) {
	keys, counts, err := s.groupedCounts(ctx, "t.country", " WHERE t.is_fraud = 1", "COUNT(*) DESC, k", limit)
	if err != nil {
		return nil, fmt.Errorf("top fraud countries: %w", err)
	}
	out := make([]models.CountryStat, len(keys))
	for i := range keys {
		out[i] = models.CountryStat{Country: keys[i], FraudCounts: counts[i]}
	}
	return out, nil
}

func (s *SQLiteStorage) HourlyPatterns(ctx context.Context) ([]models.HourlyStat, error) {
	keys, counts, err := s.groupedCounts(ctx, "strftime('%H', t.timestamp)", "", "k", 0)
	if err != nil {
		return nil, fmt.Errorf("hourly patterns: %w", err)
	}
	out := make([]models.HourlyStat, 0, len(keys))
	for i, key := range keys {
		hour, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out = append(out, models.HourlyStat{Hour: hour, FraudCounts: counts[i]})
	}
	return out, nil
}

func (s *SQLiteStorage) UserSummaries(ctx context.Context) ([]*models.UserSummary, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+userSummaryColumns+` FROM users u ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("user summaries: %w", err)
	}
	defer rows.Close()

	users := []*models.UserSummary{}
	for rows.Next() {
		u, err := scanUserSummary(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStorage) HighRiskTransactions(ctx context.Context, minScore float64, limit int) ([]models.HighRiskTransaction, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT f.id, t.id, t.amount, t.country, t.device, t.type, t.timestamp, f.risk_score, f.status,
			u.email, u.first_name, u.last_name
		FROM fraud_alerts f
		JOIN transactions t ON t.id = f.transaction_id
		JOIN accounts a ON a.id = t.account_id
		JOIN users u ON u.id = a.user_id
		WHERE f.risk_score >= ?
		ORDER BY f.risk_score DESC, f.id DESC
		LIMIT ?`, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("high risk transactions: %w", err)
	}
	defer rows.Close()

	out := []models.HighRiskTransaction{}
	for rows.Next() {
		var (
			h                   models.HighRiskTransaction
			firstName, lastName string
		)
		err := rows.Scan(&h.AlertID, &h.TransactionID, &h.Amount, &h.Country, &h.Device, &h.Type,
			timeValue{&h.Timestamp}, &h.RiskScore, &h.Status, &h.UserEmail, &firstName, &lastName)
		if err != nil {
			return nil, err
		}
		h.UserName = strings.TrimSpace(firstName + " " + lastName)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) RecentSuspicious(ctx context.Context, limit int) ([]*models.Transaction, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+transactionColumns+transactionFrom+`
		WHERE t.is_fraud = 1 ORDER BY t.timestamp DESC, t.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent suspicious: %w", err)
	}
	return scanTransactions(rows)
}

func (s *SQLiteStorage) PendingAlerts(ctx context.Context, limit int) ([]*models.FraudAlert, error) {
	return s.ListAlerts(ctx, models.AlertStatusPending, limit)
}

// HighRiskAccounts ranks accounts with at least one fraudulent transaction by fraud share.
func (s *SQLiteStorage) HighRiskAccounts(ctx context.Context, limit int) ([]models.HighRiskAccount, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT a.id, a.account_number, u.first_name, u.last_name,
			COUNT(t.id),
			SUM(CASE WHEN t.is_fraud = 1 THEN 1 ELSE 0 END) AS fraud_count
		FROM accounts a
		JOIN users u ON u.id = a.user_id
		JOIN transactions t ON t.account_id = a.id
		GROUP BY a.id
		HAVING fraud_count > 0
		ORDER BY CAST(fraud_count AS REAL) / COUNT(t.id) DESC, fraud_count DESC, a.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("high risk accounts: %w", err)
	}
	defer rows.Close()

	out := []models.HighRiskAccount{}
	for rows.Next() {
		var (
			h                   models.HighRiskAccount
			firstName, lastName string
		)
		if err := rows.Scan(&h.AccountID, &h.AccountNumber, &firstName, &lastName, &h.TotalTransactions, &h.FraudCount); err != nil {
			return nil, err
		}
		h.AccountOwner = strings.TrimSpace(firstName + " " + lastName)
		h.RiskScore = models.Rate(h.FraudCount, h.TotalTransactions)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) WindowStats(ctx context.Context, since time.Time) (models.WindowStats, error) {
	var w models.WindowStats
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_fraud = 1 THEN 1 ELSE 0 END), 0)
		FROM transactions WHERE timestamp >= ?`, formatTime(since),
	).Scan(&w.Transactions, &w.Fraud)
	if err != nil {
		return w, fmt.Errorf("window stats: %w", err)
	}
	w.FraudRate = models.Rate(w.Fraud, w.Transactions)
	return w, nil
}

// HighRiskUsers lists users with fraudulent transactions, most fraud first.
func (s *SQLiteStorage) HighRiskUsers(ctx context.Context, limit int) ([]models.HighRiskUser, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name,
			SUM(CASE WHEN t.is_fraud = 1 THEN 1 ELSE 0 END) AS fraud_count,
			COUNT(t.id)
		FROM users u
		JOIN accounts a ON a.user_id = u.id
		JOIN transactions t ON t.account_id = a.id
		GROUP BY u.id
		HAVING fraud_count > 0
		ORDER BY fraud_count DESC, u.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("high risk users: %w", err)
	}
	defer rows.Close()

	out := []models.HighRiskUser{}
	for rows.Next() {
		var (
			h                   models.HighRiskUser
			firstName, lastName string
		)
		if err := rows.Scan(&h.ID, &h.Email, &firstName, &lastName, &h.FraudCount, &h.TotalTransactions); err != nil {
			return nil, err
		}
		h.Name = strings.TrimSpace(firstName + " " + lastName)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) ExportTransactions(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+transactionColumns+transactionFrom+`
		WHERE t.timestamp >= ? AND t.timestamp <= ?
		ORDER BY t.timestamp DESC, t.id DESC`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("export transactions: %w", err)
	}
	return scanTransactions(rows)
}

// FraudSummary groups fraudulent transactions in [start, end] by country, device and type.
func (s *SQLiteStorage) FraudSummary(ctx context.Context, start, end time.Time) ([]models.FraudSummaryRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT country, device, type, COUNT(*), ROUND(COALESCE(SUM(amount), 0), 2)
		FROM transactions
		WHERE is_fraud = 1 AND timestamp >= ? AND timestamp <= ?
		GROUP BY country, device, type
		ORDER BY COUNT(*) DESC, country, device, type`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("fraud summary: %w", err)
	}
	defer rows.Close()

	out := []models.FraudSummaryRow{}
	for rows.Next() {
		var r models.FraudSummaryRow
		if err := rows.Scan(&r.Country, &r.Device, &r.Type, &r.Count, &r.TotalAmount); err != nil {
			return nil, err
		}
		if r.Count > 0 {
			r.AvgAmount = r.TotalAmount.Div(decimal.NewFromInt(r.Count)).Round(2)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PowerBIRows flattens transactions in [start, end] with calendar columns derived in UTC.
func (s *SQLiteStorage) PowerBIRows(ctx context.Context, start, end time.Time) ([]models.PowerBIRow, error) {
	transactions, err := s.ExportTransactions(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]models.PowerBIRow, 0, len(transactions))
	for _, t := range transactions {
		ts := t.Timestamp.UTC()
		out = append(out, models.PowerBIRow{
			TransactionID: t.ID,
			AccountID:     t.AccountID,
			UserID:        t.UserID,
			UserEmail:     t.UserEmail,
			Amount:        t.Amount,
			Type:          t.Type,
			Country:       t.Country,
			Device:        t.Device,
			IsFraud:       t.IsFraud,
			Timestamp:     ts,
			Hour:          ts.Hour(),
			DayOfWeek:     ts.Weekday().String(),
			Month:         int(ts.Month()),
			Year:          ts.Year(),
		})
	}
	return out, nil
}

func (s *SQLiteStorage) TableCounts(ctx context.Context) (*models.TableCounts, error) {
	var c models.TableCounts
	err := s.DB.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COUNT(*) FROM transactions WHERE is_fraud = 1),
			(SELECT COUNT(*) FROM fraud_alerts)`,
	).Scan(&c.Users, &c.Accounts, &c.Transactions, &c.FraudTransactions, &c.FraudAlerts)
	if err != nil {
		return nil, fmt.Errorf("table counts: %w", err)
	}
	return &c, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

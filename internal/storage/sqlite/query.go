package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fraudguard/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Timestamps are stored as fixed-width UTC text so that string comparison orders them.
const timeLayout = "2006-01-02 15:04:05.000000000"

var readLayouts = []string{
	timeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// timeValue scans a DATETIME column whether the driver hands back time.Time or text.
type timeValue struct{ dst *time.Time }

func (v timeValue) Scan(src interface{}) error {
	switch x := src.(type) {
	case nil:
		*v.dst = time.Time{}
	case time.Time:
		*v.dst = x.UTC()
	case string:
		t, err := parseTime(x)
		if err != nil {
			return err
		}
		*v.dst = t
	case []byte:
		t, err := parseTime(string(x))
		if err != nil {
			return err
		}
		*v.dst = t
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
	return nil
}

// nullTimeValue scans a nullable DATETIME column.
type nullTimeValue struct{ dst **time.Time }

func (v nullTimeValue) Scan(src interface{}) error {
	if src == nil {
		*v.dst = nil
		return nil
	}
	var t time.Time
	if err := (timeValue{dst: &t}).Scan(src); err != nil {
		return err
	}
	*v.dst = &t
	return nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func stringOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

const transactionColumns = `
	t.id, t.account_id, t.amount, t.type, t.country, t.device, t.recipient_rib,
	t.description, t.timestamp, t.is_fraud, t.fraud_reason,
	a.account_number, a.user_id, u.email, u.first_name, u.last_name`

const transactionFrom = `
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	JOIN users u ON u.id = a.user_id`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx                  models.Transaction
		rib, desc, reason   sql.NullString
		firstName, lastName string
	)
	err := row.Scan(
		&tx.ID, &tx.AccountID, &tx.Amount, &tx.Type, &tx.Country, &tx.Device, &rib,
		&desc, timeValue{&tx.Timestamp}, &tx.IsFraud, &reason,
		&tx.AccountNumber, &tx.UserID, &tx.UserEmail, &firstName, &lastName,
	)
	if err != nil {
		return nil, err
	}
	tx.RecipientRIB = nullString(rib)
	tx.Description = nullString(desc)
	tx.FraudReason = nullString(reason)
	tx.UserName = strings.TrimSpace(firstName + " " + lastName)
	return &tx, nil
}

func scanTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

// transactionWhere turns a filter into a WHERE clause over the transactionFrom join.
func transactionWhere(f models.TransactionFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if f.IsFraud != nil {
		conds = append(conds, "t.is_fraud = ?")
		args = append(args, *f.IsFraud)
	}
	if f.Country != "" {
		conds = append(conds, "t.country = ? COLLATE NOCASE")
		args = append(args, f.Country)
	}
	if f.Type != "" {
		conds = append(conds, "t.type = ? COLLATE NOCASE")
		args = append(args, f.Type)
	}
	if f.MinAmount != nil {
		conds = append(conds, "t.amount >= ?")
		args = append(args, f.MinAmount.InexactFloat64())
	}
	if f.MaxAmount != nil {
		conds = append(conds, "t.amount <= ?")
		args = append(args, f.MaxAmount.InexactFloat64())
	}
	if f.StartDate != nil {
		conds = append(conds, "t.timestamp >= ?")
		args = append(args, formatTime(*f.StartDate))
	}
	if f.EndDate != nil {
		conds = append(conds, "t.timestamp <= ?")
		args = append(args, formatTime(*f.EndDate))
	}
	if f.AccountID != 0 {
		conds = append(conds, "t.account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.UserID != 0 {
		conds = append(conds, "a.user_id = ?")
		args = append(args, f.UserID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const alertColumns = `f.id, f.transaction_id, f.risk_score, f.reason, f.status, f.created_at, f.updated_at`

func scanAlert(row rowScanner) (*models.FraudAlert, error) {
	var alert models.FraudAlert
	err := row.Scan(
		&alert.ID, &alert.TransactionID, &alert.RiskScore, &alert.Reason, &alert.Status,
		timeValue{&alert.CreatedAt}, nullTimeValue{&alert.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

const accountColumns = `id, user_id, account_number, balance, created_at`

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Balance, timeValue{&account.CreatedAt})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

const userColumns = `u.id, u.first_name, u.last_name, u.email, u.password_hash, u.role, u.created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Role, timeValue{&user.CreatedAt})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// userSummaryColumns extends userColumns with per-user aggregates.
const userSummaryColumns = userColumns + `,
	(SELECT COUNT(*) FROM accounts a WHERE a.user_id = u.id),
	(SELECT ROUND(COALESCE(SUM(a.balance), 0), 2) FROM accounts a WHERE a.user_id = u.id),
	(SELECT COUNT(*) FROM transactions t JOIN accounts a ON a.id = t.account_id WHERE a.user_id = u.id),
	(SELECT COUNT(*) FROM transactions t JOIN accounts a ON a.id = t.account_id WHERE a.user_id = u.id AND t.is_fraud = 1)`

func scanUserSummary(row rowScanner) (*models.UserSummary, error) {
	var s models.UserSummary
	err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.PasswordHash, &s.Role, timeValue{&s.CreatedAt},
		&s.AccountCount, &s.TotalBalance, &s.TransactionCount, &s.FraudTransactionCount,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

func scanAlertWithTransaction(row rowScanner) (*models.FraudAlert, error) {
	var (
		alert               models.FraudAlert
		tx                  models.Transaction
		rib, desc, reason   sql.NullString
		firstName, lastName string
	)
	err := row.Scan(
		&alert.ID, &alert.TransactionID, &alert.RiskScore, &alert.Reason, &alert.Status,
		timeValue{&alert.CreatedAt}, nullTimeValue{&alert.UpdatedAt},
		&tx.ID, &tx.AccountID, &tx.Amount, &tx.Type, &tx.Country, &tx.Device, &rib,
		&desc, timeValue{&tx.Timestamp}, &tx.IsFraud, &reason,
		&tx.AccountNumber, &tx.UserID, &tx.UserEmail, &firstName, &lastName,
	)
	if err != nil {
		return nil, err
	}
	tx.RecipientRIB = nullString(rib)
	tx.Description = nullString(desc)
	tx.FraudReason = nullString(reason)
	tx.UserName = strings.TrimSpace(firstName + " " + lastName)
	alert.Transaction = &tx
	return &alert, nil
}

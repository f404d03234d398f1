package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fraudguard/internal/models"
)

// UserRepository persists users. Lookups of missing rows return apperrors.ErrNotFound.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	// CreateUserWithAccount inserts the user and its default account atomically.
	CreateUserWithAccount(ctx context.Context, user *models.User, initialBalance decimal.Decimal) (*models.Account, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.UserSummary, int64, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteUser removes the user with its accounts, transactions and alerts.
	DeleteUser(ctx context.Context, id int64) error
	GetUserStats(ctx context.Context, id int64) (*models.UserStats, error)
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*models.Account, error)
	ListAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error)
	CountAccountsByUser(ctx context.Context, userID int64) (int64, error)
	GetAccountStats(ctx context.Context, id int64) (*models.AccountStats, error)
}

type TransactionRepository interface {
	// CreateTransactionWithBalance applies the balance change, inserts the transaction and,
	// when alert is not nil, the alert, all inside one database transaction.
	// It returns the account balance after the change.
	CreateTransactionWithBalance(ctx context.Context, tx *models.Transaction, direction models.Direction, alert *models.FraudAlert) (*models.Account, error)
	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int64, error)
	CountTransactions(ctx context.Context, filter models.TransactionFilter) (models.TransactionCounts, error)
	ListRelatedTransactions(ctx context.Context, accountID, excludeID int64, limit int) ([]*models.Transaction, error)
	UpdateTransactionFraud(ctx context.Context, id int64, isFraud bool, reason *string) error
	// DeleteTransaction also removes the transaction's alert.
	DeleteTransaction(ctx context.Context, id int64) error
}

type FraudAlertRepository interface {
	CreateAlert(ctx context.Context, alert *models.FraudAlert) error
	GetAlert(ctx context.Context, id int64) (*models.FraudAlert, error)
	GetAlertByTransaction(ctx context.Context, transactionID int64) (*models.FraudAlert, error)
	ListAlerts(ctx context.Context, status string, limit int) ([]*models.FraudAlert, error)
	UpdateAlertStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error
}

// AnalyticsRepository runs the read-side aggregation queries.
type AnalyticsRepository interface {
	Statistics(ctx context.Context) (*models.Statistics, error)
	Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error)
	DailyTrends(ctx context.Context, since time.Time) ([]models.DailyTrend, error)
	FraudByCountry(ctx context.Context, orderByRate bool) ([]models.CountryStat, error)
	FraudByDevice(ctx context.Context, orderByRate bool) ([]models.DeviceStat, error)
	HourlyPatterns(ctx context.Context) ([]models.HourlyStat, error)
	UserSummaries(ctx context.Context) ([]*models.UserSummary, error)
	HighRiskTransactions(ctx context.Context, minScore float64, limit int) ([]models.HighRiskTransaction, error)
	RecentSuspicious(ctx context.Context, limit int) ([]*models.Transaction, error)
	PendingAlerts(ctx context.Context, limit int) ([]*models.FraudAlert, error)
	HighRiskAccounts(ctx context.Context, limit int) ([]models.HighRiskAccount, error)
	WindowStats(ctx context.Context, since time.Time) (models.WindowStats, error)
	TopFraudCountries(ctx context.Context, limit int) ([]models.CountryStat, error)
	FraudDevices(ctx context.Context) ([]models.DeviceStat, error)
	HighRiskUsers(ctx context.Context, limit int) ([]models.HighRiskUser, error)
	ExportTransactions(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
	FraudSummary(ctx context.Context, start, end time.Time) ([]models.FraudSummaryRow, error)
	PowerBIRows(ctx context.Context, start, end time.Time) ([]models.PowerBIRow, error)
	TableCounts(ctx context.Context) (*models.TableCounts, error)
	Ping(ctx context.Context) error
}

package services

import (
	"context"
	"time"

	"fraudguard/internal/fraud"
	"fraudguard/internal/models"
)

type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.CreatedUser, error)
	GetUser(ctx context.Context, id int64) (*models.UserDetail, error)
	ListUsers(ctx context.Context, filter models.UserFilter) (*models.Page[*models.UserSummary], error)
	UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, req *models.ChangePasswordRequest) error
	GetUserStats(ctx context.Context, id int64) (*models.UserStats, error)
}

type AccountService interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error)
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*models.Account, error)
	ListAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error)
	GetAccountStats(ctx context.Context, id int64) (*models.AccountStats, error)
}

type TransactionService interface {
	// CreateTransaction evaluates the rules and stores the transaction, its balance
	// change and any alert atomically.
	CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.TransactionResult, error)
	// EvaluateTransaction runs the rules without writing anything.
	EvaluateTransaction(ctx context.Context, req *models.EvaluateRequest) (*models.Evaluation, error)
	GetTransaction(ctx context.Context, id int64) (*models.TransactionDetail, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.Page[*models.Transaction], error)
	ListAccountTransactions(ctx context.Context, accountID int64, filter models.TransactionFilter) (*models.Page[*models.Transaction], error)
	ListUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (*models.UserTransactionsPage, error)
	UpdateTransaction(ctx context.Context, id int64, req *models.UpdateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	GenerateTransaction(riskLevel string, accountID int64) *models.CreateTransactionRequest
	Rules() []fraud.RuleInfo
}

type FraudAlertService interface {
	// ListAlerts returns alerts newest first; an empty status lists every alert.
	ListAlerts(ctx context.Context, status string, limit int) ([]*models.FraudAlert, error)
	GetAlert(ctx context.Context, id int64) (*models.FraudAlert, error)
	UpdateAlertStatus(ctx context.Context, id int64, status string) (*models.FraudAlert, error)
}

// AnalyticsService serves the dashboard and analytics reads, cached for a short TTL.
type AnalyticsService interface {
	Statistics(ctx context.Context) (*models.Statistics, error)
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	Trends(ctx context.Context, days int) (*models.TrendReport, error)
	FraudByCountry(ctx context.Context, byRate bool) ([]models.CountryStat, error)
	FraudByDevice(ctx context.Context, byRate bool) ([]models.DeviceStat, error)
	HourlyPatterns(ctx context.Context) ([]models.HourlyStat, error)
	UserSummaries(ctx context.Context) ([]*models.UserSummary, error)
	HighRiskTransactions(ctx context.Context, limit int) ([]models.HighRiskTransaction, error)
	RecentSuspicious(ctx context.Context, limit int) ([]*models.Transaction, error)
	PendingAlerts(ctx context.Context, limit int) ([]*models.FraudAlert, error)
	HighRiskAccounts(ctx context.Context, limit int) ([]models.HighRiskAccount, error)
	Overview(ctx context.Context) (*models.AnalyticsOverview, error)
	Export(ctx context.Context, kind string, start, end *time.Time) (*models.ExportResult, error)
	Invalidate(ctx context.Context)
}

type HealthService interface {
	Health(ctx context.Context) *models.HealthReport
	Detailed(ctx context.Context) *models.HealthReport
	Stats(ctx context.Context) (*models.TableCounts, error)
}

package models

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Statistics is the headline block of the dashboard.
type Statistics struct {
	TotalTransactions int64           `json:"total_transactions"`
	FraudTransactions int64           `json:"fraud_transactions"`
	FraudPercentage   string          `json:"fraud_percentage"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	FraudAmount       decimal.Decimal `json:"fraud_amount"`
	TotalUsers        int64           `json:"total_users"`
	TotalAccounts     int64           `json:"total_accounts"`
	PendingAlerts     int64           `json:"pending_alerts"`
	Timestamp         time.Time       `json:"timestamp"`
}

type DashboardOverview struct {
	TotalUsers    int64           `json:"total_users"`
	AdminUsers    int64           `json:"admin_users"`
	RegularUsers  int64           `json:"regular_users"`
	TotalAccounts int64           `json:"total_accounts"`
	TotalBalance  decimal.Decimal `json:"total_balance"`
}

type DashboardTransactions struct {
	Total         int64           `json:"total"`
	Today         int64           `json:"today"`
	ThisWeek      int64           `json:"this_week"`
	ThisMonth     int64           `json:"this_month"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

type DashboardFraud struct {
	TotalFraudTransactions int64           `json:"total_fraud_transactions"`
	FraudRate              float64         `json:"fraud_rate"`
	FraudAmount            decimal.Decimal `json:"fraud_amount"`
	PreventedLoss          decimal.Decimal `json:"prevented_loss"`
}

type DashboardAlerts struct {
	Total            int64   `json:"total"`
	Pending          int64   `json:"pending"`
	UnderReview      int64   `json:"under_review"`
	Resolved         int64   `json:"resolved"`
	Dismissed        int64   `json:"dismissed"`
	AverageRiskScore float64 `json:"average_risk_score"`
}

type DashboardStats struct {
	Overview     DashboardOverview     `json:"overview"`
	Transactions DashboardTransactions `json:"transactions"`
	Fraud        DashboardFraud        `json:"fraud"`
	Alerts       DashboardAlerts       `json:"alerts"`
	GeneratedAt  time.Time             `json:"generated_at"`
}

type DailyTrend struct {
	Date              string          `json:"date"`
	TotalTransactions int64           `json:"total_transactions"`
	FraudTransactions int64           `json:"fraud_transactions"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	FraudAmount       decimal.Decimal `json:"fraud_amount"`
}

type TrendReport struct {
	Period string       `json:"period"`
	Data   []DailyTrend `json:"data"`
}

// FraudCounts is the common shape of every fraud-rate breakdown.
type FraudCounts struct {
	TotalTransactions int64           `json:"total_transactions"`
	FraudTransactions int64           `json:"fraud_transactions"`
	FraudRate         float64         `json:"fraud_rate"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	FraudAmount       decimal.Decimal `json:"fraud_amount"`
}

type CountryStat struct {
	Country string `json:"country"`
	FraudCounts
}

type DeviceStat struct {
	Device string `json:"device"`
	FraudCounts
}

type HourlyStat struct {
	Hour int `json:"hour"`
	FraudCounts
}

type HighRiskTransaction struct {
	AlertID       int64           `json:"alert_id"`
	TransactionID int64           `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Country       string          `json:"country"`
	Device        string          `json:"device"`
	Type          string          `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
	RiskScore     float64         `json:"risk_score"`
	Status        string          `json:"status"`
	UserEmail     string          `json:"user_email"`
	UserName      string          `json:"user_name"`
}

type HighRiskAccount struct {
	AccountID         int64   `json:"account_id"`
	AccountNumber     string  `json:"account_number"`
	AccountOwner      string  `json:"account_owner"`
	TotalTransactions int64   `json:"total_transactions"`
	FraudCount        int64   `json:"fraud_count"`
	RiskScore         float64 `json:"risk_score"`
}

type WindowStats struct {
	Transactions int64   `json:"transactions"`
	Fraud        int64   `json:"fraud"`
	FraudRate    float64 `json:"fraud_rate"`
}

type OverviewTotals struct {
	TotalUsers        int64           `json:"total_users"`
	TotalTransactions int64           `json:"total_transactions"`
	TotalFraud        int64           `json:"total_fraud"`
	FraudRate         float64         `json:"fraud_rate"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

type HighRiskUser struct {
	ID                int64  `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	FraudCount        int64  `json:"fraud_count"`
	TotalTransactions int64  `json:"total_transactions"`
}

// AnalyticsOverview is the admin analytics page.
type AnalyticsOverview struct {
	Overview       OverviewTotals `json:"overview"`
	Last30Days     WindowStats    `json:"last_30_days"`
	Last7Days      WindowStats    `json:"last_7_days"`
	FraudByCountry []CountryStat  `json:"fraud_by_country"`
	FraudByDevice  []DeviceStat   `json:"fraud_by_device"`
	DailyTrend     []DailyTrend   `json:"daily_trend"`
	HighRiskUsers  []HighRiskUser `json:"high_risk_users"`
}

const (
	ExportTransactions = "transactions"
	ExportUsers        = "users"
	ExportFraudSummary = "fraud-summary"
	ExportPowerBI      = "powerbi"
)

type FraudSummaryRow struct {
	Country     string          `json:"country"`
	Device      string          `json:"device"`
	Type        string          `json:"type"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AvgAmount   decimal.Decimal `json:"avg_amount"`
}

type PowerBIRow struct {
	TransactionID int64           `json:"transaction_id"`
	AccountID     int64           `json:"account_id"`
	UserID        int64           `json:"user_id"`
	UserEmail     string          `json:"user_email"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Country       string          `json:"country"`
	Device        string          `json:"device"`
	IsFraud       bool            `json:"is_fraud"`
	Timestamp     time.Time       `json:"timestamp"`
	Hour          int             `json:"hour"`
	DayOfWeek     string          `json:"day_of_week"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
}

type ExportResult struct {
	Kind        string      `json:"kind"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	ExportedAt  time.Time   `json:"exported_at"`
	RecordCount int         `json:"record_count"`
	Data        interface{} `json:"data"`
}

// TableCounts backs the health stats endpoint.
type TableCounts struct {
	Users             int64 `json:"users"`
	Accounts          int64 `json:"accounts"`
	Transactions      int64 `json:"transactions"`
	FraudTransactions int64 `json:"fraud_transactions"`
	FraudAlerts       int64 `json:"fraud_alerts"`
}

// Rate returns part/total as a percentage rounded to two decimals; 0 when total is 0.
func Rate(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

// PercentString formats part/total as "12.50%" with the given precision; "0%" when total is 0.
func PercentString(part, total int64, decimals int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.*f%%", decimals, float64(part)/float64(total)*100)
}

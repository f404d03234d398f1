package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateAccountRequest struct {
	UserID         int64           `json:"user_id" binding:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type AccountStats struct {
	AccountID         int64           `json:"account_id"`
	AccountNumber     string          `json:"account_number"`
	TotalTransactions int64           `json:"total_transactions"`
	FraudTransactions int64           `json:"fraud_transactions"`
	FraudPercentage   string          `json:"fraud_percentage"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	FraudAmount       decimal.Decimal `json:"fraud_amount"`
}

// DefaultAccountNumber is the number given to the account opened together with a user.
func DefaultAccountNumber(userID int64) string {
	return fmt.Sprintf("FG%08d", userID)
}

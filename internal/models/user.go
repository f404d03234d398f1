package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// NormalizeRole returns the canonical role name, or false for unknown roles.
func NormalizeRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "", "user":
		return RoleUser, true
	case "admin":
		return RoleAdmin, true
	}
	return "", false
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSummary is a user row with its aggregate counters.
type UserSummary struct {
	User
	AccountCount          int64           `json:"account_count"`
	TotalBalance          decimal.Decimal `json:"total_balance"`
	TransactionCount      int64           `json:"transaction_count"`
	FraudTransactionCount int64           `json:"fraud_transaction_count"`
}

type UserFilter struct {
	Page     int
	PageSize int
	Role     string
	Search   string
}

// UserStats describes a user's accounts and activity.
type UserStats struct {
	TotalAccounts      int64           `json:"total_accounts"`
	TotalBalance       decimal.Decimal `json:"total_balance"`
	TotalTransactions  int64           `json:"total_transactions"`
	FraudTransactions  int64           `json:"fraud_transactions"`
	FraudPercentage    string          `json:"fraud_percentage"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	FraudAmount        decimal.Decimal `json:"fraud_amount"`
	RecentTransactions []*Transaction  `json:"recent_transactions"`
}

type UserDetail struct {
	User     *User      `json:"user"`
	Accounts []*Account `json:"accounts"`
	Stats    *UserStats `json:"stats"`
}

type CreateUserRequest struct {
	FirstName            string           `json:"first_name" binding:"required"`
	LastName             string           `json:"last_name" binding:"required"`
	Email                string           `json:"email" binding:"required,email"`
	Password             string           `json:"password" binding:"required,min=6"`
	Role                 string           `json:"role"`
	CreateDefaultAccount *bool            `json:"create_default_account"`
	InitialBalance       *decimal.Decimal `json:"initial_balance"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	Role      *string `json:"role"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// CreatedUser is returned by user creation; Account is nil when no default account was opened.
type CreatedUser struct {
	User    *User    `json:"user"`
	Account *Account `json:"account,omitempty"`
}

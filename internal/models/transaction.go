package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction says whether a transaction debits or credits its account.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Transaction types. Spelling is part of the public API.
const (
	TypeVirement              = "Virement"
	TypeRetrait               = "Retrait"
	TypePrelevement           = "Prelevement"
	TypeVirementInternational = "VirementInternational"
	TypePaiement              = "Paiement"
	TypePaiementEnLigne       = "PaiementEnLigne"
	TypeVirementInstantane    = "VirementInstantane"
	TypeRemboursementCredit   = "RemboursementCredit"
	TypeFacture               = "Facture"
	TypeDepot                 = "Depot"
	TypeSalaire               = "Salaire"
	TypeEmprunt               = "Emprunt"
)

var OutgoingTypes = []string{
	TypeVirement, TypeRetrait, TypePrelevement, TypeVirementInternational, TypePaiement,
	TypePaiementEnLigne, TypeVirementInstantane, TypeRemboursementCredit, TypeFacture,
}

var IncomingTypes = []string{TypeDepot, TypeSalaire, TypeEmprunt}

// AllTransactionTypes lists every accepted type, outgoing first.
func AllTransactionTypes() []string {
	out := make([]string, 0, len(OutgoingTypes)+len(IncomingTypes))
	out = append(out, OutgoingTypes...)
	return append(out, IncomingTypes...)
}

// ClassifyType matches t case-insensitively and returns its canonical spelling and direction.
func ClassifyType(t string) (string, Direction, bool) {
	t = strings.TrimSpace(t)
	for _, name := range OutgoingTypes {
		if strings.EqualFold(name, t) {
			return name, DirectionOutgoing, true
		}
	}
	for _, name := range IncomingTypes {
		if strings.EqualFold(name, t) {
			return name, DirectionIncoming, true
		}
	}
	return "", "", false
}

type Transaction struct {
	ID           int64           `json:"id"`
	AccountID    int64           `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Country      string          `json:"country"`
	Device       string          `json:"device"`
	RecipientRIB *string         `json:"recipient_rib,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	IsFraud      bool            `json:"is_fraud"`
	FraudReason  *string         `json:"fraud_reason,omitempty"`

	// Filled by joined reads only.
	AccountNumber string `json:"account_number,omitempty"`
	UserID        int64  `json:"user_id,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
	UserName      string `json:"user_name,omitempty"`
}

type CreateTransactionRequest struct {
	AccountID    int64           `json:"account_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type" binding:"required"`
	Country      string          `json:"country"`
	Device       string          `json:"device"`
	RecipientRIB *string         `json:"recipient_rib,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Timestamp    *time.Time      `json:"timestamp,omitempty"`
}

// EvaluateRequest is a dry-run input for the rule evaluator.
type EvaluateRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type" binding:"required"`
	Country   string          `json:"country"`
	Device    string          `json:"device"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
}

type UpdateTransactionRequest struct {
	IsFraud     *bool   `json:"is_fraud"`
	FraudReason *string `json:"fraud_reason"`
}

// TransactionFilter maps list query parameters onto SQL predicates. Zero values are ignored.
type TransactionFilter struct {
	Page      int
	PageSize  int
	IsFraud   *bool
	Country   string
	Type      string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	AccountID int64
	UserID    int64
}

// RuleHit is one fired fraud rule.
type RuleHit struct {
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// Evaluation is the outcome of running the fraud rules on a transaction.
type Evaluation struct {
	Type      string    `json:"type"`
	Direction Direction `json:"direction"`
	IsFraud   bool      `json:"is_fraud"`
	Reason    string    `json:"reason,omitempty"`
	RiskScore float64   `json:"risk_score"`
	Hits      []RuleHit `json:"rules"`
}

type TransactionResult struct {
	Transaction *Transaction    `json:"transaction"`
	FraudAlert  *FraudAlert     `json:"fraud_alert,omitempty"`
	Evaluation  *Evaluation     `json:"evaluation"`
	Balance     decimal.Decimal `json:"balance"`
}

type TransactionDetail struct {
	Transaction         *Transaction   `json:"transaction"`
	FraudAlert          *FraudAlert    `json:"fraud_alert"`
	RelatedTransactions []*Transaction `json:"related_transactions"`
}

type TransactionCounts struct {
	All        int64 `json:"all"`
	Suspicious int64 `json:"suspicious"`
}

type UserTransactionsPage struct {
	Page[*Transaction]
	Counts TransactionCounts `json:"counts"`
}

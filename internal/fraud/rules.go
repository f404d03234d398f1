package fraud

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fraudguard/config"
	"fraudguard/internal/apperrors"
	"fraudguard/internal/models"
)

const (
	RuleLargeAmount           = "large_amount"
	RuleForeignCountry        = "foreign_country"
	RuleInternationalTransfer = "international_transfer"
	RuleATMWithdrawal         = "atm_withdrawal"

	DeviceATM = "ATM"

	// BaseRiskScore is the score of a flagged transaction before rule weights.
	BaseRiskScore = 0.4

	nightRiskBonus = 0.05
	maxRiskScore   = 0.99
)

// Candidate is the part of a transaction the rules look at.
type Candidate struct {
	Amount    decimal.Decimal
	Type      string
	Country   string
	Device    string
	Timestamp time.Time
}

type rule struct {
	id          string
	description string
	threshold   decimal.Decimal
	weight      float64
	reason      string
	match       func(c Candidate, e *Evaluator) bool
}

// RuleInfo describes an active rule.
type RuleInfo struct {
	ID          string  `json:"id" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Threshold   string  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Weight      float64 `json:"weight" yaml:"weight"`
}

// Evaluator runs the fixed list of threshold rules. It is stateless and safe for concurrent use.
type Evaluator struct {
	allowedCountries []string
	rules            []rule
}

// NewEvaluator builds the rule set from configuration, falling back to the stock thresholds.
func NewEvaluator(cfg config.FraudConfig) *Evaluator {
	large := thresholdOr(cfg.LargeAmount, 10000)
	international := thresholdOr(cfg.InternationalAmount, 5000)
	atm := thresholdOr(cfg.ATMWithdrawalAmount, 2000)

	allowed := make([]string, 0, len(cfg.AllowedCountries))
	for _, c := range cfg.AllowedCountries {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			allowed = append(allowed, c)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"MA"}
	}

	e := &Evaluator{allowedCountries: allowed}
	e.rules = []rule{
		{
			id:          RuleLargeAmount,
			description: "amount above the large amount threshold",
			threshold:   large,
			weight:      0.35,
			reason:      "Amount above " + large.String() + ".",
			match: func(c Candidate, _ *Evaluator) bool {
				return c.Amount.GreaterThan(large)
			},
		},
		{
			id:          RuleForeignCountry,
			description: "country outside " + strings.Join(allowed, ", "),
			weight:      0.25,
			reason:      "Country differs from " + strings.Join(allowed, "/") + ".",
			match: func(c Candidate, e *Evaluator) bool {
				return !e.countryAllowed(c.Country)
			},
		},
		{
			id:          RuleInternationalTransfer,
			description: "international transfer above threshold",
			threshold:   international,
			weight:      0.20,
			reason:      "International transfer above " + international.String() + ".",
			match: func(c Candidate, _ *Evaluator) bool {
				return strings.EqualFold(c.Type, models.TypeVirementInternational) && c.Amount.GreaterThan(international)
			},
		},
		{
			id:          RuleATMWithdrawal,
			description: "ATM withdrawal above threshold",
			threshold:   atm,
			weight:      0.20,
			reason:      "ATM withdrawal above " + atm.String() + ".",
			match: func(c Candidate, _ *Evaluator) bool {
				return strings.EqualFold(c.Type, models.TypeRetrait) &&
					strings.EqualFold(strings.TrimSpace(c.Device), DeviceATM) &&
					c.Amount.GreaterThan(atm)
			},
		},
	}
	return e
}

// DefaultEvaluator uses the stock thresholds: 10000, 5000, 2000 and MA.
func DefaultEvaluator() *Evaluator {
	return NewEvaluator(config.FraudConfig{})
}

// Evaluate classifies the transaction type and runs every rule against the candidate.
// Reasons accumulate in rule order.
func (e *Evaluator) Evaluate(c Candidate) (*models.Evaluation, error) {
	canonical, direction, ok := models.ClassifyType(c.Type)
	if !ok {
		return nil, apperrors.Invalid("invalid transaction type: %s. Valid types: %s",
			c.Type, strings.Join(models.AllTransactionTypes(), ", "))
	}
	if !c.Amount.IsPositive() {
		return nil, apperrors.Invalid("amount must be greater than zero")
	}
	c.Type = canonical

	result := &models.Evaluation{
		Type:      canonical,
		Direction: direction,
		Hits:      []models.RuleHit{},
	}

	score := 0.0
	reasons := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		if !r.match(c, e) {
			continue
		}
		result.Hits = append(result.Hits, models.RuleHit{Rule: r.id, Reason: r.reason})
		reasons = append(reasons, r.reason)
		score += r.weight
	}

	if len(result.Hits) > 0 {
		result.IsFraud = true
		result.Reason = strings.Join(reasons, " ")
		result.RiskScore = riskScore(score, c.Timestamp)
	}
	return result, nil
}

// Rules describes the active rule set.
func (e *Evaluator) Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(e.rules))
	for _, r := range e.rules {
		info := RuleInfo{ID: r.id, Description: r.description, Weight: r.weight}
		if !r.threshold.IsZero() {
			info.Threshold = r.threshold.String()
		}
		out = append(out, info)
	}
	return out
}

// AllowedCountries returns the whitelist used by the foreign country rule.
func (e *Evaluator) AllowedCountries() []string {
	return append([]string(nil), e.allowedCountries...)
}

func (e *Evaluator) countryAllowed(country string) bool {
	country = strings.TrimSpace(country)
	for _, allowed := range e.allowedCountries {
		if strings.EqualFold(allowed, country) {
			return true
		}
	}
	return false
}

// riskScore maps fired rule weights onto [0.4, 0.99]; night-time (00:00-05:59 UTC) adds a bonus.
func riskScore(weights float64, ts time.Time) float64 {
	score := BaseRiskScore + weights
	if !ts.IsZero() && ts.UTC().Hour() < 6 {
		score += nightRiskBonus
	}
	score = math.Min(score, maxRiskScore)
	return math.Round(score*100) / 100
}

func thresholdOr(v, def float64) decimal.Decimal {
	if v <= 0 {
		v = def
	}
	return decimal.NewFromFloat(v)
}

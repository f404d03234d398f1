package generator

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fraudguard/internal/models"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var (
	domesticDevices  = []string{"Mobile", "Web", "Desktop", "Tablet"}
	foreignCountries = []string{"FR", "ES", "DE", "US", "GB", "AE", "NG", "CN"}
	lowRiskTypes     = []string{
		models.TypePaiement, models.TypePaiementEnLigne, models.TypeFacture,
		models.TypeVirement, models.TypePrelevement, models.TypeDepot,
	}
)

// TransactionGenerator produces demo transaction requests that land on a chosen side of the rules.
type TransactionGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
	now  func() time.Time
}

func NewTransactionGenerator() *TransactionGenerator {
	return NewTransactionGeneratorWithSeed(time.Now().UnixNano())
}

// NewTransactionGeneratorWithSeed returns a generator with a reproducible sequence.
func NewTransactionGeneratorWithSeed(seed int64) *TransactionGenerator {
	return &TransactionGenerator{
		rand: rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
}

// GenerateTransaction builds a request for accountID. Unknown risk levels fall back to low.
func (g *TransactionGenerator) GenerateTransaction(riskLevel string, accountID int64) *models.CreateTransactionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	req := &models.CreateTransactionRequest{
		AccountID: accountID,
		Country:   "MA",
		Device:    g.pick(domesticDevices),
	}

	switch strings.ToLower(riskLevel) {
	case RiskHigh:
		g.generateHighRisk(req)
	case RiskMedium:
		g.generateMediumRisk(req)
	default:
		g.generateLowRisk(req)
	}

	desc := "Generated " + strings.ToLower(riskLevel) + " risk transaction"
	req.Description = &desc
	return req
}

// generateLowRisk stays under every threshold, in MA, during the day.
func (g *TransactionGenerator) generateLowRisk(req *models.CreateTransactionRequest) {
	req.Type = g.pick(lowRiskTypes)
	req.Amount = g.amount(50, 2000)
	req.Timestamp = g.at(8 + g.rand.Intn(12))
}

// generateMediumRisk fires exactly one rule.
func (g *TransactionGenerator) generateMediumRisk(req *models.CreateTransactionRequest) {
	req.Timestamp = g.at(8 + g.rand.Intn(12))
	if g.rand.Intn(2) == 0 {
		req.Type = models.TypePaiementEnLigne
		req.Amount = g.amount(100, 3000)
		req.Country = g.pick(foreignCountries)
		return
	}
	req.Type = models.TypeRetrait
	req.Device = "ATM"
	req.Amount = g.amount(2500, 5000)
}

// generateHighRisk fires at least two rules, at night.
func (g *TransactionGenerator) generateHighRisk(req *models.CreateTransactionRequest) {
	req.Timestamp = g.at(g.rand.Intn(6))
	req.Country = g.pick(foreignCountries)
	if g.rand.Intn(2) == 0 {
		req.Type = models.TypeVirementInternational
		req.Amount = g.amount(12000, 50000)
		rib := "FR76" + decimal.NewFromInt(g.rand.Int63n(1e15)).String()
		req.RecipientRIB = &rib
		return
	}
	req.Type = models.TypeRetrait
	req.Device = "ATM"
	req.Amount = g.amount(2500, 9000)
}

func (g *TransactionGenerator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}

// amount returns a value in [lo, hi) rounded to cents.
func (g *TransactionGenerator) amount(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + g.rand.Float64()*(hi-lo)).Round(2)
}

func (g *TransactionGenerator) at(hour int) *time.Time {
	now := g.now().UTC()
	ts := time.Date(now.Year(), now.Month(), now.Day(), hour, g.rand.Intn(60), g.rand.Intn(60), 0, time.UTC)
	return &ts
}

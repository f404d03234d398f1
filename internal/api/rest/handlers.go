package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fraudguard/internal/logger"
	"fraudguard/internal/models"
	"fraudguard/internal/services"
)

// Services bundles the application services the handlers call.
type Services struct {
	Users        services.UserService
	Accounts     services.AccountService
	Transactions services.TransactionService
	Alerts       services.FraudAlertService
	Analytics    services.AnalyticsService
	Health       services.HealthService
}

type Handlers struct {
	users        services.UserService
	accounts     services.AccountService
	transactions services.TransactionService
	alerts       services.FraudAlertService
	analytics    services.AnalyticsService
	health       services.HealthService
}

func NewHandlers(s Services) *Handlers {
	return &Handlers{
		users:        s.Users,
		accounts:     s.Accounts,
		transactions: s.Transactions,
		alerts:       s.Alerts,
		analytics:    s.Analytics,
		health:       s.Health,
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthReport
// @Router /health [get]
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.health.Health(c.Request.Context()))
}

// DetailedHealth godoc
// @Summary Dependency checks
// @Description Pings the database and, when enabled, Redis and Kafka.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthReport
// @Failure 503 {object} models.HealthReport
// @Router /health/detailed [get]
func (h *Handlers) DetailedHealth(c *gin.Context) {
	report := h.health.Detailed(c.Request.Context())
	status := http.StatusOK
	if report.Status != models.HealthStatusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// HealthStats godoc
// @Summary Row counts per table
// @Tags health
// @Produce json
// @Success 200 {object} models.TableCounts
// @Router /health/stats [get]
func (h *Handlers) HealthStats(c *gin.Context) {
	counts, err := h.health.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get database statistics")
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Rules godoc
// @Summary Active fraud rules
// @Tags rules
// @Produce json
// @Success 200 {array} fraud.RuleInfo
// @Router /rules [get]
func (h *Handlers) Rules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rules": h.transactions.Rules()})
}

// Events godoc
// @Summary Recent audit events
// @Tags events
// @Produce json
// @Param limit query int false "Max events (1-500)" default(100)
// @Success 200 {object} map[string]interface{}
// @Router /events [get]
func (h *Handlers) Events(c *gin.Context) {
	limit, err := queryInt(c, "limit", 100)
	if err != nil || limit <= 0 || limit > 500 {
		limit = 100
	}
	c.JSON(http.StatusOK, gin.H{"events": logger.GetEvents(limit)})
}

func (h *Handlers) EventStats(c *gin.Context) {
	c.JSON(http.StatusOK, logger.GetStats())
}

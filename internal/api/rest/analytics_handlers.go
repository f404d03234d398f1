package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// byRate reads ?order=rate|count; def applies when it is absent.
func byRate(c *gin.Context, def bool) (bool, error) {
	switch c.Query("order") {
	case "":
		return def, nil
	case "rate":
		return true, nil
	case "count":
		return false, nil
	}
	return false, fmt.Errorf("order must be rate or count")
}

// Statistics godoc
// @Summary Headline dashboard numbers
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.Statistics
// @Router /dashboard/statistics [get]
func (h *Handlers) Statistics(c *gin.Context) {
	stats, err := h.analytics.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Trends godoc
// @Summary Daily totals and fraud over the last days
// @Tags dashboard
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} models.TrendReport
// @Router /dashboard/fraud-by-period [get]
// @Router /analytics/trends [get]
func (h *Handlers) Trends(c *gin.Context) {
	days, err := queryInt(c, "days", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	report, err := h.analytics.Trends(c.Request.Context(), days)
	if err != nil {
		respondError(c, err, "Failed to get trends")
		return
	}
	c.JSON(http.StatusOK, report)
}

// FraudByCountry godoc
// @Summary Fraud breakdown per country
// @Tags dashboard
// @Produce json
// @Param order query string false "rate or count"
// @Success 200 {array} models.CountryStat
// @Router /dashboard/fraud-by-country [get]
// @Router /analytics/fraud-by-country [get]
func (h *Handlers) FraudByCountry(c *gin.Context) {
	rate, err := byRate(c, true)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rows, err := h.analytics.FraudByCountry(c.Request.Context(), rate)
	if err != nil {
		respondError(c, err, "Failed to get fraud by country")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// FraudByDevice godoc
// @Summary Fraud breakdown per device
// @Tags dashboard
// @Produce json
// @Param order query string false "rate or count"
// @Success 200 {array} models.DeviceStat
// @Router /dashboard/fraud-by-device [get]
// @Router /analytics/fraud-by-device [get]
func (h *Handlers) FraudByDevice(c *gin.Context) {
	rate, err := byRate(c, true)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rows, err := h.analytics.FraudByDevice(c.Request.Context(), rate)
	if err != nil {
		respondError(c, err, "Failed to get fraud by device")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// RecentSuspicious godoc
// @Summary Latest flagged transactions
// @Tags dashboard
// @Produce json
// @Param limit query int false "Max rows" default(20)
// @Success 200 {array} models.Transaction
// @Router /dashboard/recent-suspicious [get]
func (h *Handlers) RecentSuspicious(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rows, err := h.analytics.RecentSuspicious(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to get suspicious transactions")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PendingAlerts godoc
// @Summary Alerts waiting for review
// @Tags dashboard
// @Produce json
// @Param limit query int false "Max rows" default(50)
// @Success 200 {array} models.FraudAlert
// @Router /dashboard/pending-alerts [get]
func (h *Handlers) PendingAlerts(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rows, err := h.analytics.PendingAlerts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to get pending alerts")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HighRiskAccounts godoc
// @Summary Accounts with the highest fraud rate
// @Tags dashboard
// @Produce json
// @Param limit query int false "Max rows" default(20)
// @Success 200 {array} models.HighRiskAccount
// @Router /dashboard/high-risk-accounts [get]
func (h *Handlers) HighRiskAccounts(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rows, err := h.analytics.HighRiskAccounts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to get high risk accounts")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Dashboard godoc
// @Summary Admin dashboard
// @Tags analytics
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Router /analytics/dashboard [get]
func (h *Handlers) Dashboard(c *gin.Context) {
	stats, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// HourlyPatterns godoc
// @Summary Fraud per hour of day
// @Tags analytics
// @Produce json
// @Success 200 {array} models.HourlyStat
// @Router /analytics/hourly-patterns [get]
func (h *Handlers) HourlyPatterns(c *gin.Context) {
	rows, err := h.analytics.HourlyPatterns(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get hourly patterns")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UserAnalytics godoc
// @Summary Per-user balances and fraud counts
// @Tags analytics
// @Produce json
// @Success 200 {array} models.UserSummary
// @Router /analytics/users [get]
func (h *Handlers) UserAnalytics(c *gin.Context) {
	rows, err := h.analytics.UserSummaries(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get user analytics")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// HighRiskTransactions godoc
// @Summary Alerts above the high risk score
// @Tags analytics
// @Produce json
// @Param limit query int false "Max rows" default(50)
// @Success 200 {array} models.HighRiskTransaction
// @Router /analytics/high-risk-transactions [get]
func (h *Handlers) HighRiskTransactions(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	rows, err := h.analytics.HighRiskTransactions(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to get high risk transactions")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Overview godoc
// @Summary All-time, 30 and 7 day fraud overview
// @Tags analytics
// @Produce json
// @Success 200 {object} models.AnalyticsOverview
// @Router /analytics/overview [get]
func (h *Handlers) Overview(c *gin.Context) {
	overview, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get analytics overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Export godoc
// @Summary Export rows as a JSON attachment
// @Tags analytics
// @Produce json
// @Param kind path string true "transactions, users, fraud-summary or powerbi"
// @Param start_date query string false "RFC 3339 or YYYY-MM-DD, default one month before end_date"
// @Param end_date query string false "RFC 3339 or YYYY-MM-DD, default now"
// @Success 200 {object} models.ExportResult
// @Failure 400 {object} map[string]string
// @Router /analytics/export/{kind} [get]
func (h *Handlers) Export(c *gin.Context) {
	start, err := queryTime(c, "start_date", false)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	end, err := queryTime(c, "end_date", true)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.analytics.Export(c.Request.Context(), c.Param("kind"), start, end)
	if err != nil {
		respondError(c, err, "Failed to export data")
		return
	}
	filename := fmt.Sprintf("fraudguard-%s-%s.json", result.Kind, result.ExportedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, result)
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fraudguard/internal/models"
)

// ListAlerts godoc
// @Summary Fraud alerts, newest first
// @Tags alerts
// @Produce json
// @Param status query string false "Pending, Under Review, Resolved or Dismissed"
// @Param limit query int false "Max alerts" default(100)
// @Success 200 {array} models.FraudAlert
// @Router /alerts [get]
func (h *Handlers) ListAlerts(c *gin.Context) {
	h.listAlerts(c, c.Query("status"))
}

// AlertsByStatus godoc
// @Summary Fraud alerts with one status
// @Tags alerts
// @Produce json
// @Param status path string true "Alert status"
// @Success 200 {array} models.FraudAlert
// @Failure 400 {object} map[string]string
// @Router /alerts/status/{status} [get]
func (h *Handlers) AlertsByStatus(c *gin.Context) {
	h.listAlerts(c, c.Param("status"))
}

func (h *Handlers) listAlerts(c *gin.Context, status string) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	alerts, err := h.alerts.ListAlerts(c.Request.Context(), status, limit)
	if err != nil {
		respondError(c, err, "Failed to list alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// GetAlert godoc
// @Summary Alert with its transaction
// @Tags alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} models.FraudAlert
// @Failure 404 {object} map[string]string
// @Router /alerts/{id} [get]
func (h *Handlers) GetAlert(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	alert, err := h.alerts.GetAlert(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get alert")
		return
	}
	c.JSON(http.StatusOK, alert)
}

// UpdateAlertStatus godoc
// @Summary Move an alert to another status
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path int true "Alert ID"
// @Param body body models.UpdateAlertStatusRequest true "New status"
// @Success 200 {object} models.FraudAlert
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /alerts/{id}/status [put]
func (h *Handlers) UpdateAlertStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req models.UpdateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	alert, err := h.alerts.UpdateAlertStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update alert")
		return
	}
	c.JSON(http.StatusOK, alert)
}

package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fraudguard/internal/models"
)

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Runs the fraud rules, then applies the balance change, stores the transaction and any alert in one database transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body models.CreateTransactionRequest true "Transaction"
// @Success 201 {object} models.TransactionResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Unknown account"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Router /transactions [post]
func (h *Handlers) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.transactions.CreateTransaction(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// EvaluateTransaction godoc
// @Summary Dry-run the fraud rules
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body models.EvaluateRequest true "Candidate"
// @Success 200 {object} models.Evaluation
// @Failure 400 {object} map[string]string
// @Router /transactions/evaluate [post]
func (h *Handlers) EvaluateTransaction(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	eval, err := h.transactions.EvaluateTransaction(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to evaluate transaction")
		return
	}
	c.JSON(http.StatusOK, eval)
}

// ListTransactions godoc
// @Summary Filtered list of transactions, newest first
// @Tags transactions
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size (max 200)" default(50)
// @Param is_fraud query bool false "Fraud flag"
// @Param country query string false "ISO country code"
// @Param type query string false "Transaction type"
// @Param min_amount query number false "Minimum amount"
// @Param max_amount query number false "Maximum amount"
// @Param start_date query string false "RFC 3339 or YYYY-MM-DD"
// @Param end_date query string false "RFC 3339 or YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Router /transactions [get]
func (h *Handlers) ListTransactions(c *gin.Context) {
	filter, err := transactionFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	page, err := h.transactions.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListFraudulent godoc
// @Summary Flagged transactions
// @Tags transactions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /transactions/fraudulent [get]
func (h *Handlers) ListFraudulent(c *gin.Context) {
	filter, err := transactionFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	flagged := true
	filter.IsFraud = &flagged

	page, err := h.transactions.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GenerateTransaction godoc
// @Summary Random demo transaction request
// @Description Nothing is stored; POST the result to /transactions to create it.
// @Tags transactions
// @Produce json
// @Param risk query string false "low, medium or high" default(low)
// @Param account_id query int false "Account to use" default(1)
// @Success 200 {object} models.CreateTransactionRequest
// @Router /transactions/generate [get]
func (h *Handlers) GenerateTransaction(c *gin.Context) {
	risk := strings.ToLower(c.DefaultQuery("risk", "low"))
	switch risk {
	case "low", "medium", "high":
	default:
		badRequest(c, "risk must be low, medium or high")
		return
	}
	accountID, err := queryInt(c, "account_id", 1)
	if err != nil || accountID <= 0 {
		badRequest(c, "invalid account_id")
		return
	}
	c.JSON(http.StatusOK, h.transactions.GenerateTransaction(risk, int64(accountID)))
}

// GetTransaction godoc
// @Summary Transaction with its alert and related transactions
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.TransactionDetail
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func (h *Handlers) GetTransaction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	detail, err := h.transactions.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateTransaction godoc
// @Summary Change the fraud verdict
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param body body models.UpdateTransactionRequest true "Verdict"
// @Success 200 {object} models.Transaction
// @Router /transactions/{id} [put]
func (h *Handlers) UpdateTransaction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	tx, err := h.transactions.UpdateTransaction(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction godoc
// @Summary Delete a transaction and its alert
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Router /transactions/{id} [delete]
func (h *Handlers) DeleteTransaction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.transactions.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fraudguard/internal/models"
)

// CreateAccount godoc
// @Summary Open an account for a user without one
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body models.CreateAccountRequest true "Account"
// @Success 201 {object} models.Account
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /accounts [post]
func (h *Handlers) CreateAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	account, err := h.accounts.CreateAccount(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

// GetAccount godoc
// @Summary Account by ID
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} models.Account
// @Failure 404 {object} map[string]string
// @Router /accounts/{id} [get]
func (h *Handlers) GetAccount(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	account, err := h.accounts.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetAccountByNumber godoc
// @Summary Account by account number
// @Tags accounts
// @Produce json
// @Param number path string true "Account number, e.g. ACC-1A2B3C4D or FG00000001"
// @Success 200 {object} models.Account
// @Failure 404 {object} map[string]string
// @Router /accounts/number/{number} [get]
func (h *Handlers) GetAccountByNumber(c *gin.Context) {
	account, err := h.accounts.GetAccountByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// AccountTransactions godoc
// @Summary Transactions of an account
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /accounts/{id}/transactions [get]
func (h *Handlers) AccountTransactions(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	filter, err := transactionFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	page, err := h.transactions.ListAccountTransactions(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// AccountStats godoc
// @Summary Totals for one account
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} models.AccountStats
// @Router /accounts/{id}/stats [get]
func (h *Handlers) AccountStats(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	stats, err := h.accounts.GetAccountStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get account statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

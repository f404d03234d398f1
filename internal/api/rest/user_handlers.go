package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fraudguard/internal/models"
)

// CreateUser godoc
// @Summary Create a user
// @Description Creates the user and, unless create_default_account is false, an account holding initial_balance (1000 by default).
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.CreateUserRequest true "User"
// @Success 201 {object} models.CreatedUser
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	created, err := h.users.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size (max 200)" default(20)
// @Param role query string false "User or Admin"
// @Param search query string false "Matches name or email"
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	page, size, err := paging(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.users.ListUsers(c.Request.Context(), models.UserFilter{
		Page:     page,
		PageSize: size,
		Role:     c.Query("role"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetUser godoc
// @Summary User with accounts and statistics
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserDetail
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	detail, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateUser godoc
// @Summary Partially update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /users/{id} [put]
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user with accounts, transactions and alerts
// @Tags users
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ChangePassword godoc
// @Summary Change a user's password
// @Tags users
// @Accept json
// @Param id path int true "User ID"
// @Param body body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /users/{id}/password [put]
func (h *Handlers) ChangePassword(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), id, &req); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// UserAccounts godoc
// @Summary Accounts of a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Account
// @Router /users/{id}/accounts [get]
func (h *Handlers) UserAccounts(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	accounts, err := h.accounts.ListAccountsByUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// UserTransactions godoc
// @Summary Transactions across a user's accounts
// @Description Adds counts of all and suspicious transactions that ignore the is_fraud filter.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param is_fraud query bool false "Only flagged or only clean"
// @Param type query string false "Transaction type"
// @Success 200 {object} models.UserTransactionsPage
// @Router /users/{id}/transactions [get]
func (h *Handlers) UserTransactions(c *gin.Context) {
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

	page, err := h.transactions.ListUserTransactions(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// UserStats godoc
// @Summary Balance and activity of a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserStats
// @Router /users/{id}/stats [get]
func (h *Handlers) UserStats(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	stats, err := h.users.GetUserStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get user statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/fraud"
	"fraudguard/internal/metrics"
	"fraudguard/internal/models"
	servicemocks "fraudguard/internal/services/mocks"
)

type testServices struct {
	users        *servicemocks.MockUserService
	accounts     *servicemocks.MockAccountService
	transactions *servicemocks.MockTransactionService
	alerts       *servicemocks.MockFraudAlertService
	analytics    *servicemocks.MockAnalyticsService
	health       *servicemocks.MockHealthService
}

func setupTestRouter() (*gin.Engine, *testServices) {
	gin.SetMode(gin.TestMode)
	s := &testServices{
		users:        new(servicemocks.MockUserService),
		accounts:     new(servicemocks.MockAccountService),
		transactions: new(servicemocks.MockTransactionService),
		alerts:       new(servicemocks.MockFraudAlertService),
		analytics:    new(servicemocks.MockAnalyticsService),
		health:       new(servicemocks.MockHealthService),
	}
	handlers := NewHandlers(Services{
		Users:        s.users,
		Accounts:     s.accounts,
		Transactions: s.transactions,
		Alerts:       s.alerts,
		Analytics:    s.analytics,
		Health:       s.health,
	})
	return SetupRouter(handlers, RouterConfig{Metrics: metrics.New()}), s
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHandlers_CreateTransaction_Success(t *testing.T) {
	router, s := setupTestRouter()

	result := &models.TransactionResult{
		Transaction: &models.Transaction{ID: 7, AccountID: 1, Amount: decimal.NewFromInt(100), Type: models.TypeVirement},
		Evaluation:  &models.Evaluation{Type: models.TypeVirement, Direction: models.DirectionOutgoing},
		Balance:     decimal.NewFromInt(900),
	}
	s.transactions.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(r *models.CreateTransactionRequest) bool {
		return r.AccountID == 1 && r.Amount.Equal(decimal.NewFromInt(100)) && r.Type == "Virement"
	})).Return(result, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"account_id": 1,
		"amount":     100,
		"type":       "Virement",
		"country":    "MA",
		"device":     "Mobile",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var got models.TransactionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.Transaction.ID)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(900)))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	s.transactions.AssertExpectations(t)
}

func TestHandlers_CreateTransaction_EmptyCountryAndDevice(t *testing.T) {
	router, s := setupTestRouter()

	result := &models.TransactionResult{
		Transaction: &models.Transaction{ID: 8, AccountID: 1, Amount: decimal.NewFromInt(50), Type: models.TypePaiement, IsFraud: true},
		FraudAlert:  &models.FraudAlert{ID: 2, TransactionID: 8, Reason: "Country differs from MA.", RiskScore: 0.65},
		Evaluation:  &models.Evaluation{Type: models.TypePaiement, Direction: models.DirectionOutgoing, IsFraud: true},
		Balance:     decimal.NewFromInt(950),
	}
	s.transactions.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(r *models.CreateTransactionRequest) bool {
		return r.Country == "" && r.Device == ""
	})).Return(result, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"account_id": 1,
		"amount":     50,
		"type":       "Paiement",
		"country":    "",
		"device":     "",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var got models.TransactionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Transaction.IsFraud)
	require.NotNil(t, got.FraudAlert)
	assert.Equal(t, "Country differs from MA.", got.FraudAlert.Reason)
	s.transactions.AssertExpectations(t)
}

func TestHandlers_CreateTransaction_InvalidJSON(t *testing.T) {
	router, s := setupTestRouter()

	w := doRequest(router, http.MethodPost, "/api/v1/transactions", "invalid json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, errorBody(t, w))
	s.transactions.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid", apperrors.Invalid("invalid transaction type: X"), http.StatusBadRequest, "invalid transaction type: X"},
		{"not found", apperrors.NotFound("account"), http.StatusNotFound, "account not found"},
		{"insufficient", apperrors.New(apperrors.ErrInsufficientFunds, "insufficient balance"), http.StatusUnprocessableEntity, "insufficient balance"},
		{"internal", errors.New("disk I/O error"), http.StatusInternalServerError, "Failed to create transaction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, s := setupTestRouter()
			s.transactions.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doRequest(router, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
				"account_id": 1, "amount": "50.00", "type": "Retrait", "country": "MA", "device": "ATM",
			})

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, errorBody(t, w))
		})
	}
}

func TestHandlers_ListTransactions_Filters(t *testing.T) {
	router, s := setupTestRouter()
	flagged := true
	minAmount := decimal.NewFromInt(100)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	s.transactions.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f models.TransactionFilter) bool {
		return f.Page == 2 && f.PageSize == 10 &&
			f.IsFraud != nil && *f.IsFraud == flagged &&
			f.Country == "FR" && f.Type == "Virement" &&
			f.MinAmount != nil && f.MinAmount.Equal(minAmount) &&
			f.StartDate != nil && f.StartDate.Equal(start) &&
			f.EndDate != nil && f.EndDate.Day() == 31
	})).Return(&models.Page[*models.Transaction]{
		Data:       []*models.Transaction{{ID: 1}},
		Pagination: models.NewPagination(2, 10, 11),
	}, nil)

	w := doRequest(router, http.MethodGet,
		"/api/v1/transactions?page=2&page_size=10&is_fraud=true&country=fr&type=Virement&min_amount=100&start_date=2024-03-01&end_date=2024-03-31", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data       []models.Transaction `json:"data"`
		Pagination models.Pagination    `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Pagination.TotalPages)
	s.transactions.AssertExpectations(t)
}

func TestHandlers_ListTransactions_BadQuery(t *testing.T) {
	router, s := setupTestRouter()

	for _, q := range []string{"is_fraud=maybe", "min_amount=abc", "start_date=yesterday", "page=x"} {
		w := doRequest(router, http.MethodGet, "/api/v1/transactions?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	s.transactions.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
}

func TestHandlers_ListFraudulent(t *testing.T) {
	router, s := setupTestRouter()
	s.transactions.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f models.TransactionFilter) bool {
		return f.IsFraud != nil && *f.IsFraud
	})).Return(&models.Page[*models.Transaction]{Data: []*models.Transaction{}}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/transactions/fraudulent", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	s.transactions.AssertExpectations(t)
}

func TestHandlers_GenerateTransaction(t *testing.T) {
	router, s := setupTestRouter()
	s.transactions.On("GenerateTransaction", "high", int64(3)).
		Return(&models.CreateTransactionRequest{AccountID: 3, Type: "Retrait"})

	w := doRequest(router, http.MethodGet, "/api/v1/transactions/generate?risk=HIGH&account_id=3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account_id":3`)

	w = doRequest(router, http.MethodGet, "/api/v1/transactions/generate?risk=extreme", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_GetTransaction(t *testing.T) {
	router, s := setupTestRouter()
	s.transactions.On("GetTransaction", mock.Anything, int64(5)).
		Return(&models.TransactionDetail{Transaction: &models.Transaction{ID: 5}}, nil)
	s.transactions.On("GetTransaction", mock.Anything, int64(6)).Return(nil, apperrors.NotFound("transaction"))

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/v1/transactions/5", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/v1/transactions/6", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/v1/transactions/abc", nil).Code)
}

func TestHandlers_DeleteTransaction(t *testing.T) {
	router, s := setupTestRouter()
	s.transactions.On("DeleteTransaction", mock.Anything, int64(5)).Return(nil)

	w := doRequest(router, http.MethodDelete, "/api/v1/transactions/5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	s.transactions.AssertExpectations(t)
}

func TestHandlers_CreateUser(t *testing.T) {
	router, s := setupTestRouter()
	s.users.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.CreateUserRequest")).
		Return(&models.CreatedUser{User: &models.User{ID: 1, Email: "a@example.com"}}, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"first_name": "Amina", "last_name": "Benali", "email": "a@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w = doRequest(router, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"first_name": "Amina", "last_name": "Benali", "email": "not-an-email", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.users.AssertNumberOfCalls(t, "CreateUser", 1)
}

func TestHandlers_CreateUser_Duplicate(t *testing.T) {
	router, s := setupTestRouter()
	s.users.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, apperrors.New(apperrors.ErrAlreadyExists, "email already exists"))

	w := doRequest(router, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"first_name": "A", "last_name": "B", "email": "a@example.com", "password": "secret1",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already exists", errorBody(t, w))
}

func TestHandlers_ListUsers(t *testing.T) {
	router, s := setupTestRouter()
	s.users.On("ListUsers", mock.Anything, models.UserFilter{Page: 1, PageSize: 5, Role: "admin", Search: "ben"}).
		Return(&models.Page[*models.UserSummary]{Data: []*models.UserSummary{}}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/users?page=1&page_size=5&role=admin&search=ben", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	s.users.AssertExpectations(t)
}

func TestHandlers_UserTransactions(t *testing.T) {
	router, s := setupTestRouter()
	s.transactions.On("ListUserTransactions", mock.Anything, int64(4), mock.AnythingOfType("models.TransactionFilter")).
		Return(&models.UserTransactionsPage{Counts: models.TransactionCounts{All: 3, Suspicious: 1}}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/users/4/transactions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"counts":{"all":3,"suspicious":1}`)
}

func TestHandlers_CreateAccount(t *testing.T) {
	router, s := setupTestRouter()
	s.accounts.On("CreateAccount", mock.Anything, mock.MatchedBy(func(r *models.CreateAccountRequest) bool {
		return r.UserID == 2 && r.InitialBalance.Equal(decimal.NewFromInt(500))
	})).Return(&models.Account{ID: 9, UserID: 2, AccountNumber: "ACC-1A2B3C4D"}, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/accounts", map[string]interface{}{"user_id": 2, "initial_balance": 500})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ACC-1A2B3C4D")
}

func TestHandlers_GetAccountByNumber(t *testing.T) {
	router, s := setupTestRouter()
	s.accounts.On("GetAccountByNumber", mock.Anything, "ACC-1A2B3C4D").
		Return(&models.Account{ID: 9, AccountNumber: "ACC-1A2B3C4D"}, nil)
	s.accounts.On("GetAccountByNumber", mock.Anything, "FG00000404").Return(nil, apperrors.NotFound("account"))

	w := doRequest(router, http.MethodGet, "/api/v1/accounts/number/ACC-1A2B3C4D", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":9`)

	w = doRequest(router, http.MethodGet, "/api/v1/accounts/number/FG00000404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "account not found", errorBody(t, w))
}

func TestHandlers_Alerts(t *testing.T) {
	router, s := setupTestRouter()
	s.alerts.On("ListAlerts", mock.Anything, "", 0).Return([]*models.FraudAlert{{ID: 1}}, nil)
	s.alerts.On("ListAlerts", mock.Anything, "Pending", 10).Return([]*models.FraudAlert{}, nil)
	s.alerts.On("UpdateAlertStatus", mock.Anything, int64(1), "Resolved").
		Return(&models.FraudAlert{ID: 1, Status: models.AlertStatusResolved}, nil)
	s.alerts.On("UpdateAlertStatus", mock.Anything, int64(2), "Resolved").
		Return(nil, apperrors.New(apperrors.ErrNotFound, "alert not found"))

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/v1/alerts", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/v1/alerts/status/Pending?limit=10", nil).Code)

	w := doRequest(router, http.MethodPut, "/api/v1/alerts/1/status", map[string]string{"status": "Resolved"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPut, "/api/v1/alerts/2/status", map[string]string{"status": "Resolved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "alert not found", errorBody(t, w))

	w = doRequest(router, http.MethodPut, "/api/v1/alerts/1/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.alerts.AssertExpectations(t)
}

func TestHandlers_Dashboard(t *testing.T) {
	router, s := setupTestRouter()
	s.analytics.On("Statistics", mock.Anything).Return(&models.Statistics{TotalTransactions: 12, FraudPercentage: "25.00%"}, nil)
	s.analytics.On("Trends", mock.Anything, 7).Return(&models.TrendReport{Period: "7 days"}, nil)
	s.analytics.On("FraudByCountry", mock.Anything, false).Return([]models.CountryStat{}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/dashboard/statistics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fraud_percentage":"25.00%"`)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/v1/dashboard/fraud-by-period?days=7", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/v1/analytics/fraud-by-country?order=count", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/v1/analytics/fraud-by-country?order=size", nil).Code)
	s.analytics.AssertExpectations(t)
}

func TestHandlers_Export(t *testing.T) {
	router, s := setupTestRouter()
	exportedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s.analytics.On("Export", mock.Anything, "powerbi", (*time.Time)(nil), (*time.Time)(nil)).
		Return(&models.ExportResult{Kind: "powerbi", ExportedAt: exportedAt}, nil)
	s.analytics.On("Export", mock.Anything, "pdf", (*time.Time)(nil), (*time.Time)(nil)).
		Return(nil, apperrors.Invalid("unknown export type"))

	w := doRequest(router, http.MethodGet, "/api/v1/analytics/export/powerbi", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="fraudguard-powerbi-20240310-120000.json"`, w.Header().Get("Content-Disposition"))

	w = doRequest(router, http.MethodGet, "/api/v1/analytics/export/pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_Health(t *testing.T) {
	router, s := setupTestRouter()
	s.health.On("Health", mock.Anything).Return(&models.HealthReport{Status: models.HealthStatusHealthy})
	s.health.On("Detailed", mock.Anything).Return(&models.HealthReport{Status: models.HealthStatusUnhealthy})

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(router, http.MethodGet, "/health/detailed", nil).Code)
}

func TestHandlers_RulesAndMetrics(t *testing.T) {
	router, s := setupTestRouter()
	s.transactions.On("Rules").Return(fraud.DefaultEvaluator().Rules())

	w := doRequest(router, http.MethodGet, "/api/v1/rules", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fraud.RuleLargeAmount)

	w = doRequest(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "fraudguard_http_requests_total"))
}

func TestHandlers_Events(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/events?limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"events"`)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_AllowAllOmitsCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, allowed := range [][]string{nil, {"*"}} {
		router := gin.New()
		router.Use(CORSMiddleware(allowed))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	}
}

func TestRequestID_Propagates(t *testing.T) {
	router, s := setupTestRouter()
	s.health.On("Health", mock.Anything).Return(&models.HealthReport{Status: models.HealthStatusHealthy})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}

package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudguard/config"
	"fraudguard/internal/apperrors"
	"fraudguard/internal/models"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s *SQLiteStorage, email string, balance int64) (*models.User, *models.Account) {
	t.Helper()
	user := &models.User{
		FirstName:    "Amina",
		LastName:     "Benali",
		Email:        email,
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	account, err := s.CreateUserWithAccount(context.Background(), user, decimal.NewFromInt(balance))
	require.NoError(t, err)
	return user, account
}

func newTx(accountID int64, amount int64, typ string, fraud bool, ts time.Time) *models.Transaction {
	tx := &models.Transaction{
		AccountID: accountID,
		Amount:    decimal.NewFromInt(amount),
		Type:      typ,
		Country:   "MA",
		Device:    "Mobile",
		Timestamp: ts,
		IsFraud:   fraud,
	}
	if fraud {
		reason := "Amount above 10000."
		tx.FraudReason = &reason
	}
	return tx
}

func TestNewConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fraudguard.db")
	s, err := NewConnection(&config.Config{DB: config.DBConfig{DBPath: path}})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestCreateUserWithAccount(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	user, account := createUser(t, s, "amina@example.com", 1500)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.DefaultAccountNumber(user.ID), account.AccountNumber)

	got, err := s.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(got.Balance))

	byEmail, err := s.GetUserByEmail(ctx, "AMINA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := setupTestStorage(t)
	createUser(t, s, "dup@example.com", 0)

	err := s.CreateUser(context.Background(), &models.User{
		FirstName: "X", LastName: "Y", Email: "dup@example.com", PasswordHash: "h", Role: models.RoleUser,
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestGetUser_NotFound(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateTransactionWithBalance_Outgoing(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, account := createUser(t, s, "out@example.com", 20000)

	tx := newTx(account.ID, 15000, models.TypeVirement, true, time.Now().UTC())
	alert := &models.FraudAlert{RiskScore: 0.75, Reason: *tx.FraudReason, CreatedAt: time.Now().UTC()}

	updated, err := s.CreateTransactionWithBalance(ctx, tx, models.DirectionOutgoing, alert)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5000).Equal(updated.Balance))
	assert.NotZero(t, tx.ID)
	assert.Equal(t, tx.ID, alert.TransactionID)

	stored, err := s.GetAlertByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusPending, stored.Status)
	assert.InDelta(t, 0.75, stored.RiskScore, 0.0001)

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFraud)
	assert.Equal(t, "out@example.com", got.UserEmail)
	assert.Equal(t, "Amina Benali", got.UserName)
}

func TestCreateTransactionWithBalance_Incoming(t *testing.T) {
	s := setupTestStorage(t)
	_, account := createUser(t, s, "in@example.com", 100)

	updated, err := s.CreateTransactionWithBalance(context.Background(),
		newTx(account.ID, 250, models.TypeDepot, false, time.Now().UTC()), models.DirectionIncoming, nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(350).Equal(updated.Balance))
}

func TestCreateTransactionWithBalance_InsufficientFundsLeavesNothing(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, account := createUser(t, s, "poor@example.com", 100)

	_, err := s.CreateTransactionWithBalance(ctx,
		newTx(account.ID, 500, models.TypeRetrait, false, time.Now().UTC()), models.DirectionOutgoing, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "Current balance: 100.00 MAD")

	got, err := s.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Balance))

	counts, err := s.TableCounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Transactions)
}

func TestCreateTransactionWithBalance_UnknownAccount(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.CreateTransactionWithBalance(context.Background(),
		newTx(999, 10, models.TypeDepot, false, time.Now().UTC()), models.DirectionIncoming, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListTransactions_FilterAndPaging(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, account := createUser(t, s, "list@example.com", 100000)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.CreateTransactionWithBalance(ctx,
			newTx(account.ID, int64(100*(i+1)), models.TypePaiement, i%2 == 0, base.Add(time.Duration(i)*time.Hour)),
			models.DirectionOutgoing, nil)
		require.NoError(t, err)
	}

	page, total, err := s.ListTransactions(ctx, models.TransactionFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].Timestamp.After(page[1].Timestamp))

	fraud := true
	flagged, total, err := s.ListTransactions(ctx, models.TransactionFilter{Page: 1, PageSize: 10, IsFraud: &fraud})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, flagged, 3)

	minAmount := decimal.NewFromInt(300)
	start := base.Add(time.Hour)
	ranged, total, err := s.ListTransactions(ctx, models.TransactionFilter{Page: 1, PageSize: 10, MinAmount: &minAmount, StartDate: &start})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, ranged, 3)

	counts, err := s.CountTransactions(ctx, models.TransactionFilter{AccountID: account.ID, IsFraud: &fraud})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionCounts{All: 5, Suspicious: 3}, counts)
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, account := createUser(t, s, "upd@example.com", 50000)

	tx := newTx(account.ID, 12000, models.TypeVirement, true, time.Now().UTC())
	_, err := s.CreateTransactionWithBalance(ctx, tx, models.DirectionOutgoing,
		&models.FraudAlert{RiskScore: 0.75, Reason: "Amount above 10000.", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, s.UpdateTransactionFraud(ctx, tx.ID, false, nil))
	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFraud)
	assert.Nil(t, got.FraudReason)

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	_, err = s.GetAlertByTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTransaction(ctx, tx.ID), apperrors.ErrNotFound)
}

func TestAlertStatusAndListing(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, account := createUser(t, s, "alerts@example.com", 50000)

	alert := &models.FraudAlert{RiskScore: 0.6, Reason: "Country differs from MA.", CreatedAt: time.Now().UTC()}
	_, err := s.CreateTransactionWithBalance(ctx, newTx(account.ID, 10, models.TypePaiement, true, time.Now().UTC()),
		models.DirectionOutgoing, alert)
	require.NoError(t, err)

	pending, err := s.ListAlerts(ctx, models.AlertStatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].Transaction)
	assert.Equal(t, "alerts@example.com", pending[0].Transaction.UserEmail)

	now := time.Now().UTC()
	require.NoError(t, s.UpdateAlertStatus(ctx, alert.ID, models.AlertStatusUnderReview, now))

	got, err := s.GetAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusUnderReview, got.Status)
	require.NotNil(t, got.UpdatedAt)
	assert.WithinDuration(t, now, *got.UpdatedAt, time.Millisecond)

	pending, err = s.PendingAlerts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, s.UpdateAlertStatus(ctx, 999, models.AlertStatusResolved, now), apperrors.ErrNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	user, account := createUser(t, s, "gone@example.com", 50000)

	_, err := s.CreateTransactionWithBalance(ctx, newTx(account.ID, 12000, models.TypeVirement, true, time.Now().UTC()),
		models.DirectionOutgoing, &models.FraudAlert{RiskScore: 0.75, Reason: "r", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	counts, err := s.TableCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TableCounts{}, *counts)
	assert.ErrorIs(t, s.DeleteUser(ctx, user.ID), apperrors.ErrNotFound)
}

func TestUserListingAndStats(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	user, account := createUser(t, s, "stats@example.com", 30000)
	createUser(t, s, "other@example.com", 0)

	_, err := s.CreateTransactionWithBalance(ctx, newTx(account.ID, 12000, models.TypeVirement, true, time.Now().UTC()),
		models.DirectionOutgoing, nil)
	require.NoError(t, err)
	_, err = s.CreateTransactionWithBalance(ctx, newTx(account.ID, 1000, models.TypeSalaire, false, time.Now().UTC()),
		models.DirectionIncoming, nil)
	require.NoError(t, err)

	users, total, err := s.ListUsers(ctx, models.UserFilter{Page: 1, PageSize: 10, Search: "STATS"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.EqualValues(t, 2, users[0].TransactionCount)
	assert.EqualValues(t, 1, users[0].FraudTransactionCount)
	assert.True(t, decimal.NewFromInt(19000).Equal(users[0].TotalBalance))

	stats, err := s.GetUserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00%", stats.FraudPercentage)
	assert.True(t, decimal.NewFromInt(13000).Equal(stats.TotalAmount))
	assert.Len(t, stats.RecentTransactions, 2)

	accStats, err := s.GetAccountStats(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, accStats.FraudTransactions)

	_, err = s.GetAccountStats(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAnalyticsQueries(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, account := createUser(t, s, "an@example.com", 1000000)

	day1 := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)
	txs := []*models.Transaction{
		newTx(account.ID, 12000, models.TypeVirement, true, day1),
		newTx(account.ID, 100, models.TypePaiement, false, day1),
		newTx(account.ID, 200, models.TypePaiement, false, day2),
	}
	txs[0].Country = "FR"
	txs[2].Device = "ATM"
	for i, tx := range txs {
		var alert *models.FraudAlert
		if tx.IsFraud {
			alert = &models.FraudAlert{RiskScore: 0.99, Reason: "r", CreatedAt: day1}
		}
		_, err := s.CreateTransactionWithBalance(ctx, tx, models.DirectionOutgoing, alert)
		require.NoError(t, err, "tx %d", i)
	}

	trends, err := s.DailyTrends(ctx, day1.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "2024-05-01", trends[0].Date)
	assert.EqualValues(t, 2, trends[0].TotalTransactions)
	assert.EqualValues(t, 1, trends[0].FraudTransactions)

	countries, err := s.FraudByCountry(ctx, true)
	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, "FR", countries[0].Country)
	assert.Equal(t, 100.0, countries[0].FraudRate)

	hours, err := s.HourlyPatterns(ctx)
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, 3, hours[0].Hour)
	assert.Equal(t, 50.0, hours[0].FraudRate)

	devices, err := s.FraudDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Mobile", devices[0].Device)

	high, err := s.HighRiskTransactions(ctx, 0.7, 10)
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, txs[0].ID, high[0].TransactionID)

	accounts, err := s.HighRiskAccounts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.InDelta(t, 33.33, accounts[0].RiskScore, 0.001)

	summary, err := s.FraudSummary(ctx, day1.Add(-time.Hour), day2)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.True(t, decimal.NewFromInt(12000).Equal(summary[0].AvgAmount))

	rows, err := s.PowerBIRows(ctx, day1, day2)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Thursday", rows[0].DayOfWeek)
	assert.Equal(t, 14, rows[0].Hour)

	w, err := s.WindowStats(ctx, day2.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.WindowStats{Transactions: 1}, w)

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, "33.33%", stats.FraudPercentage)
	assert.EqualValues(t, 1, stats.PendingAlerts)

	dash, err := s.Dashboard(ctx, day2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, dash.Transactions.Total)
	assert.EqualValues(t, 1, dash.Transactions.Today)
	assert.EqualValues(t, 99.0, dash.Alerts.AverageRiskScore)
	assert.True(t, decimal.NewFromInt(4100).Equal(dash.Transactions.AverageAmount))
}

func TestRetryOperation(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := retryOperation(ctx, func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	}, 3, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryOperation(ctx, func() error {
		calls++
		return errors.New("syntax error")
	}, 3, time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 1, 15, 14, 30, 0, 123456789, time.FixedZone("X", 3600))
	out, err := parseTime(formatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestMoneyTotals_AreExactToTheCent(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	user, account := createUser(t, s, "cents@example.com", 1000)

	for _, amount := range []string{"0.1", "0.2"} {
		tx := newTx(account.ID, 0, models.TypeDepot, false, time.Now().UTC())
		tx.Amount = decimal.RequireFromString(amount)
		_, err := s.CreateTransactionWithBalance(ctx, tx, models.DirectionIncoming, nil)
		require.NoError(t, err)
	}

	want := decimal.RequireFromString("0.3")

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.True(t, want.Equal(stats.TotalAmount), "total_amount=%s", stats.TotalAmount)
	assert.Equal(t, "0.3", stats.TotalAmount.String())

	dashboard, err := s.Dashboard(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, want.Equal(dashboard.Transactions.TotalAmount), "total_amount=%s", dashboard.Transactions.TotalAmount)
	assert.True(t, decimal.RequireFromString("1000.3").Equal(dashboard.Overview.TotalBalance), "total_balance=%s", dashboard.Overview.TotalBalance)

	userStats, err := s.GetUserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, want.Equal(userStats.TotalAmount), "user total_amount=%s", userStats.TotalAmount)
	assert.True(t, decimal.RequireFromString("1000.3").Equal(userStats.TotalBalance))

	accountStats, err := s.GetAccountStats(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, want.Equal(accountStats.TotalAmount), "account total_amount=%s", accountStats.TotalAmount)

	countries, err := s.FraudByCountry(ctx, true)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.True(t, want.Equal(countries[0].TotalAmount), "country total_amount=%s", countries[0].TotalAmount)
}

func TestAccountLookups(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	user, account := createUser(t, s, "lookup@example.com", 10)

	got, err := s.GetAccountByNumber(ctx, account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = s.GetAccountByNumber(ctx, "ACC-DEADBEEF")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	n, err := s.CountAccountsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.CountAccountsByUser(ctx, user.ID+100)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateAlert(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()
	_, account := createUser(t, s, "alert@example.com", 1000)

	tx := newTx(account.ID, 100, models.TypePaiement, true, time.Now().UTC())
	_, err := s.CreateTransactionWithBalance(ctx, tx, models.DirectionOutgoing, nil)
	require.NoError(t, err)

	alert := &models.FraudAlert{TransactionID: tx.ID, RiskScore: 0.4, Reason: "Flagged manually.", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateAlert(ctx, alert))
	assert.NotZero(t, alert.ID)
	assert.Equal(t, models.AlertStatusPending, alert.Status)

	stored, err := s.GetAlertByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.ID, stored.ID)

	err = s.CreateAlert(ctx, &models.FraudAlert{TransactionID: tx.ID, RiskScore: 0.5, Reason: "again", CreatedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	err = s.CreateAlert(ctx, &models.FraudAlert{TransactionID: 999, RiskScore: 0.5, Reason: "orphan", CreatedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/models"
	"fraudguard/internal/redis"
	redismocks "fraudguard/internal/redis/mocks"
	storagemocks "fraudguard/internal/storage/mocks"
)

func newAnalyticsFixture(cache redis.Cache) (*AnalyticsServiceImpl, *storagemocks.MockAnalyticsRepository) {
	repo := new(storagemocks.MockAnalyticsRepository)
	svc := NewAnalyticsService(repo, NewNotifier(nil, cache, nil), 0, 0).(*AnalyticsServiceImpl)
	svc.now = func() time.Time { return noon }
	return svc, repo
}

func TestAnalyticsService_Statistics_ReadThrough(t *testing.T) {
	svc, repo := newAnalyticsFixture(redis.NewMemoryCache())
	stats := &models.Statistics{TotalTransactions: 10, FraudTransactions: 2, TotalAmount: decimal.NewFromInt(500)}
	repo.On("Statistics", mock.Anything).Return(stats, nil).Once()

	first, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	second, err := svc.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), second.TotalTransactions)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	repo.AssertNumberOfCalls(t, "Statistics", 1)
}

func TestAnalyticsService_Invalidate(t *testing.T) {
	svc, repo := newAnalyticsFixture(redis.NewMemoryCache())
	repo.On("Statistics", mock.Anything).Return(&models.Statistics{TotalTransactions: 1}, nil).Twice()

	_, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	svc.Invalidate(context.Background())
	_, err = svc.Statistics(context.Background())
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "Statistics", 2)
}

func TestAnalyticsService_CacheErrorsFallThrough(t *testing.T) {
	cache := new(redismocks.MockCache)
	svc, repo := newAnalyticsFixture(cache)

	cache.On("GetJSON", mock.Anything, "analytics:hourly-patterns", mock.Anything).Return(false, errors.New("redis down"))
	cache.On("SetJSON", mock.Anything, "analytics:hourly-patterns", mock.Anything, DefaultCacheTTL).Return(errors.New("redis down"))
	repo.On("HourlyPatterns", mock.Anything).Return([]models.HourlyStat{{Hour: 3}}, nil)

	rows, err := svc.HourlyPatterns(context.Background())

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	cache.AssertExpectations(t)
}

func TestAnalyticsService_Trends(t *testing.T) {
	svc, repo := newAnalyticsFixture(nil)
	since := time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)
	repo.On("DailyTrends", mock.Anything, since).Return([]models.DailyTrend{{Date: "2024-03-10"}}, nil)

	report, err := svc.Trends(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, "30 days", report.Period)
	assert.Len(t, report.Data, 1)

	_, err = svc.Trends(context.Background(), 1000)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestAnalyticsService_HighRiskTransactions_UsesThreshold(t *testing.T) {
	svc, repo := newAnalyticsFixture(nil)
	repo.On("HighRiskTransactions", mock.Anything, 0.7, 50).Return([]models.HighRiskTransaction{}, nil)
	repo.On("HighRiskTransactions", mock.Anything, 0.7, models.MaxPageSize).Return([]models.HighRiskTransaction{}, nil)

	_, err := svc.HighRiskTransactions(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.HighRiskTransactions(context.Background(), 5000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_Overview(t *testing.T) {
	svc, repo := newAnalyticsFixture(nil)
	since30 := time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)
	since7 := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	repo.On("Statistics", mock.Anything).Return(&models.Statistics{TotalUsers: 3, TotalTransactions: 8, FraudTransactions: 2}, nil)
	repo.On("WindowStats", mock.Anything, since30).Return(models.WindowStats{Transactions: 8, Fraud: 2, FraudRate: 25}, nil)
	repo.On("WindowStats", mock.Anything, since7).Return(models.WindowStats{Transactions: 4, Fraud: 1, FraudRate: 25}, nil)
	repo.On("TopFraudCountries", mock.Anything, 10).Return([]models.CountryStat{}, nil)
	repo.On("FraudDevices", mock.Anything).Return([]models.DeviceStat{}, nil)
	repo.On("DailyTrends", mock.Anything, since30).Return([]models.DailyTrend{}, nil)
	repo.On("HighRiskUsers", mock.Anything, 10).Return([]models.HighRiskUser{}, nil)

	overview, err := svc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 25.0, overview.Overview.FraudRate)
	assert.Equal(t, int64(4), overview.Last7Days.Transactions)
	repo.AssertExpectations(t)
}

func TestAnalyticsService_Export(t *testing.T) {
	svc, repo := newAnalyticsFixture(nil)
	monthAgo := noon.AddDate(0, -1, 0)
	repo.On("ExportTransactions", mock.Anything, monthAgo, noon).Return([]*models.Transaction{{ID: 1}, {ID: 2}}, nil)
	repo.On("PowerBIRows", mock.Anything, monthAgo, noon).Return([]models.PowerBIRow{{TransactionID: 1}}, nil)

	result, err := svc.Export(context.Background(), "transactions", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RecordCount)
	assert.Equal(t, monthAgo, result.StartDate)

	result, err = svc.Export(context.Background(), "PowerBI", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ExportPowerBI, result.Kind)
	assert.Equal(t, 1, result.RecordCount)

	_, err = svc.Export(context.Background(), "pdf", nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))

	later := noon.Add(time.Hour)
	_, err = svc.Export(context.Background(), "transactions", &later, &noon)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

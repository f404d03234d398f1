package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fraudguard/internal/models"
)

// MockAnalyticsRepository is a mock of storage.AnalyticsRepository.
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statistics), args.Error(1)
}

func (m *MockAnalyticsRepository) Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockAnalyticsRepository) DailyTrends(ctx context.Context, since time.Time) ([]models.DailyTrend, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyTrend), args.Error(1)
}

func (m *MockAnalyticsRepository) FraudByCountry(ctx context.Context, orderByRate bool) ([]models.CountryStat, error) {
	args := m.Called(ctx, orderByRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CountryStat), args.Error(1)
}

func (m *MockAnalyticsRepository) FraudByDevice(ctx context.Context, orderByRate bool) ([]models.DeviceStat, error) {
	args := m.Called(ctx, orderByRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeviceStat), args.Error(1)
}

func (m *MockAnalyticsRepository) HourlyPatterns(ctx context.Context) ([]models.HourlyStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HourlyStat), args.Error(1)
}

func (m *MockAnalyticsRepository) UserSummaries(ctx context.Context) ([]*models.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) HighRiskTransactions(ctx context.Context, minScore float64, limit int) ([]models.HighRiskTransaction, error) {
	args := m.Called(ctx, minScore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HighRiskTransaction), args.Error(1)
}

func (m *MockAnalyticsRepository) RecentSuspicious(ctx context.Context, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockAnalyticsRepository) PendingAlerts(ctx context.Context, limit int) ([]*models.FraudAlert, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudAlert), args.Error(1)
}

func (m *MockAnalyticsRepository) HighRiskAccounts(ctx context.Context, limit int) ([]models.HighRiskAccount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HighRiskAccount), args.Error(1)
}

func (m *MockAnalyticsRepository) WindowStats(ctx context.Context, since time.Time) (models.WindowStats, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(models.WindowStats), args.Error(1)
}

func (m *MockAnalyticsRepository) TopFraudCountries(ctx context.Context, limit int) ([]models.CountryStat, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CountryStat), args.Error(1)
}

func (m *MockAnalyticsRepository) FraudDevices(ctx context.Context) ([]models.DeviceStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeviceStat), args.Error(1)
}

func (m *MockAnalyticsRepository) HighRiskUsers(ctx context.Context, limit int) ([]models.HighRiskUser, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HighRiskUser), args.Error(1)
}

func (m *MockAnalyticsRepository) ExportTransactions(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockAnalyticsRepository) FraudSummary(ctx context.Context, start, end time.Time) ([]models.FraudSummaryRow, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FraudSummaryRow), args.Error(1)
}

func (m *MockAnalyticsRepository) PowerBIRows(ctx context.Context, start, end time.Time) ([]models.PowerBIRow, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PowerBIRow), args.Error(1)
}

func (m *MockAnalyticsRepository) TableCounts(ctx context.Context) (*models.TableCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TableCounts), args.Error(1)
}

func (m *MockAnalyticsRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

package mocks

import (
	"context"
	"time"

	"fraudguard/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockFraudAlertService is a mock of services.FraudAlertService.
type MockFraudAlertService struct {
	mock.Mock
}

func (m *MockFraudAlertService) ListAlerts(ctx context.Context, status string, limit int) ([]*models.FraudAlert, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudAlert), args.Error(1)
}

func (m *MockFraudAlertService) GetAlert(ctx context.Context, id int64) (*models.FraudAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FraudAlert), args.Error(1)
}

func (m *MockFraudAlertService) UpdateAlertStatus(ctx context.Context, id int64, status string) (*models.FraudAlert, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FraudAlert), args.Error(1)
}

// MockAnalyticsService is a mock of services.AnalyticsService.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Statistics(ctx context.Context) (*models.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statistics), args.Error(1)
}

func (m *MockAnalyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

func (m *MockAnalyticsService) Trends(ctx context.Context, days int) (*models.TrendReport, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrendReport), args.Error(1)
}

func (m *MockAnalyticsService) FraudByCountry(ctx context.Context, byRate bool) ([]models.CountryStat, error) {
	args := m.Called(ctx, byRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CountryStat), args.Error(1)
}

func (m *MockAnalyticsService) FraudByDevice(ctx context.Context, byRate bool) ([]models.DeviceStat, error) {
	args := m.Called(ctx, byRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeviceStat), args.Error(1)
}

func (m *MockAnalyticsService) HourlyPatterns(ctx context.Context) ([]models.HourlyStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HourlyStat), args.Error(1)
}

func (m *MockAnalyticsService) UserSummaries(ctx context.Context) ([]*models.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSummary), args.Error(1)
}

func (m *MockAnalyticsService) HighRiskTransactions(ctx context.Context, limit int) ([]models.HighRiskTransaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HighRiskTransaction), args.Error(1)
}

func (m *MockAnalyticsService) RecentSuspicious(ctx context.Context, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockAnalyticsService) PendingAlerts(ctx context.Context, limit int) ([]*models.FraudAlert, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudAlert), args.Error(1)
}

func (m *MockAnalyticsService) HighRiskAccounts(ctx context.Context, limit int) ([]models.HighRiskAccount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HighRiskAccount), args.Error(1)
}

func (m *MockAnalyticsService) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalyticsOverview), args.Error(1)
}

func (m *MockAnalyticsService) Export(ctx context.Context, kind string, start, end *time.Time) (*models.ExportResult, error) {
	args := m.Called(ctx, kind, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExportResult), args.Error(1)
}

func (m *MockAnalyticsService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// MockHealthService is a mock of services.HealthService.
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Health(ctx context.Context) *models.HealthReport {
	return m.Called(ctx).Get(0).(*models.HealthReport)
}

func (m *MockHealthService) Detailed(ctx context.Context) *models.HealthReport {
	return m.Called(ctx).Get(0).(*models.HealthReport)
}

func (m *MockHealthService) Stats(ctx context.Context) (*models.TableCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TableCounts), args.Error(1)
}

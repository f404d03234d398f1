package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fraudguard/internal/models"
	storagemocks "fraudguard/internal/storage/mocks"
)

func TestHealthService_Health(t *testing.T) {
	svc := NewHealthService(new(storagemocks.MockAnalyticsRepository), "1.2.3", nil)

	report := svc.Health(context.Background())

	assert.Equal(t, models.HealthStatusHealthy, report.Status)
	assert.Equal(t, "fraudguard-api", report.Service)
	assert.Equal(t, "1.2.3", report.Version)
	assert.Nil(t, report.Checks)
}

func TestHealthService_Detailed(t *testing.T) {
	repo := new(storagemocks.MockAnalyticsRepository)
	repo.On("Ping", mock.Anything).Return(nil)

	svc := NewHealthService(repo, "dev", map[string]Check{
		"cache": func(context.Context) error { return errors.New("connection refused") },
		"kafka": nil,
	})

	report := svc.Detailed(context.Background())

	assert.Equal(t, models.HealthStatusUnhealthy, report.Status)
	assert.NotEmpty(t, report.Uptime)
	require.Len(t, report.Checks, 3)
	assert.Equal(t, models.HealthStatusHealthy, report.Checks["database"].Status)
	assert.Equal(t, models.HealthStatusUnhealthy, report.Checks["cache"].Status)
	assert.Equal(t, "connection refused", report.Checks["cache"].Error)
	assert.Equal(t, models.HealthStatusDisabled, report.Checks["kafka"].Status)
}

func TestHealthService_Stats(t *testing.T) {
	repo := new(storagemocks.MockAnalyticsRepository)
	repo.On("TableCounts", mock.Anything).Return(&models.TableCounts{Users: 2, Transactions: 9}, nil)

	counts, err := NewHealthService(repo, "dev", nil).Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(9), counts.Transactions)
}

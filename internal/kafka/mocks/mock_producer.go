package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fraudguard/internal/models"
)

// MockPublisher is a mock of kafka.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransaction(ctx context.Context, event *models.BusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) PublishFraudAlert(ctx context.Context, event *models.BusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) PublishAudit(ctx context.Context, event *models.BusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

package mocks

import (
	"context"

	"fraudguard/internal/fraud"
	"fraudguard/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockTransactionService is a mock of services.TransactionService.
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.TransactionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionResult), args.Error(1)
}

func (m *MockTransactionService) EvaluateTransaction(ctx context.Context, req *models.EvaluateRequest) (*models.Evaluation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Evaluation), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, id int64) (*models.TransactionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionDetail), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, filter models.TransactionFilter) (*models.Page[*models.Transaction], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[*models.Transaction]), args.Error(1)
}

func (m *MockTransactionService) ListAccountTransactions(ctx context.Context, accountID int64, filter models.TransactionFilter) (*models.Page[*models.Transaction], error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[*models.Transaction]), args.Error(1)
}

func (m *MockTransactionService) ListUserTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (*models.UserTransactionsPage, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserTransactionsPage), args.Error(1)
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, id int64, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionService) GenerateTransaction(riskLevel string, accountID int64) *models.CreateTransactionRequest {
	args := m.Called(riskLevel, accountID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.CreateTransactionRequest)
}

func (m *MockTransactionService) Rules() []fraud.RuleInfo {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]fraud.RuleInfo)
}

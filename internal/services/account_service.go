package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/logger"
	"fraudguard/internal/models"
	"fraudguard/internal/storage"
)

// accountNumberAttempts bounds retries on a generated number that is already taken.
const accountNumberAttempts = 3

type AccountServiceImpl struct {
	users    storage.UserRepository
	accounts storage.AccountRepository
	notify   Notifier
}

func NewAccountService(users storage.UserRepository, accounts storage.AccountRepository, n Notifier) AccountService {
	return &AccountServiceImpl{users: users, accounts: accounts, notify: n}
}

// CreateAccount opens an account for a user who has none yet.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	if req.InitialBalance.IsNegative() {
		return nil, apperrors.Invalid("initial balance cannot be negative")
	}
	if _, err := s.users.GetUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	existing, err := s.accounts.CountAccountsByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.New(apperrors.ErrAlreadyExists, "user %d already has an account", req.UserID)
	}

	number, err := s.freeAccountNumber(ctx)
	if err != nil {
		return nil, err
	}
	account := &models.Account{
		UserID:        req.UserID,
		AccountNumber: number,
		Balance:       req.InitialBalance,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.notify.invalidate(ctx)

	logger.LogEvent(logger.EventAccountCreated, serviceName, logger.ComponentSQLite, map[string]interface{}{
		"account_id":     account.ID,
		"account_number": account.AccountNumber,
		"user_id":        account.UserID,
	})
	return account, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.accounts.GetAccount(ctx, id)
}

func (s *AccountServiceImpl) ListAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.accounts.ListAccountsByUser(ctx, userID)
}

func (s *AccountServiceImpl) GetAccountStats(ctx context.Context, id int64) (*models.AccountStats, error) {
	return s.accounts.GetAccountStats(ctx, id)
}

// GetAccountByNumber looks an account up by its ACC-/FG number, case-insensitively.
func (s *AccountServiceImpl) GetAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, apperrors.Invalid("account number is required")
	}
	return s.accounts.GetAccountByNumber(ctx, number)
}

func (s *AccountServiceImpl) freeAccountNumber(ctx context.Context) (string, error) {
	for i := 0; i < accountNumberAttempts; i++ {
		number := newAccountNumber()
		_, err := s.accounts.GetAccountByNumber(ctx, number)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return number, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", apperrors.New(apperrors.ErrInternal, "could not allocate an account number")
}

func newAccountNumber() string {
	return "ACC-" + strings.ToUpper(uuid.NewString()[:8])
}

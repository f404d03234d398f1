package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/models"
	"fraudguard/internal/storage"
)

const DefaultInitialBalance = 1000

type UserServiceImpl struct {
	users    storage.UserRepository
	accounts storage.AccountRepository
	notify   Notifier
}

func NewUserService(users storage.UserRepository, accounts storage.AccountRepository, n Notifier) UserService {
	return &UserServiceImpl{users: users, accounts: accounts, notify: n}
}

// CreateUser hashes the password and, unless disabled, opens a default account
// holding the initial balance (1000 when not given).
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.CreatedUser, error) {
	role, ok := models.NormalizeRole(req.Role)
	if !ok {
		return nil, apperrors.Invalid("invalid role %q. Valid roles: %s, %s", req.Role, models.RoleUser, models.RoleAdmin)
	}
	email := strings.TrimSpace(req.Email)

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.New(apperrors.ErrAlreadyExists, "email already exists")
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	result := &models.CreatedUser{User: user}
	if req.CreateDefaultAccount == nil || *req.CreateDefaultAccount {
		balance := decimal.NewFromInt(DefaultInitialBalance)
		if req.InitialBalance != nil {
			if req.InitialBalance.IsNegative() {
				return nil, apperrors.Invalid("initial balance cannot be negative")
			}
			balance = *req.InitialBalance
		}
		account, err := s.users.CreateUserWithAccount(ctx, user, balance)
		if err != nil {
			return nil, err
		}
		result.Account = account
	} else if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.notify.audit(ctx, models.EventUserCreated, "user", user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	s.notify.invalidate(ctx)
	return result, nil
}

// GetUser returns the user with accounts and activity stats.
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*models.UserDetail, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListAccountsByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.users.GetUserStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserDetail{User: user, Accounts: accounts, Stats: stats}, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, filter models.UserFilter) (*models.Page[*models.UserSummary], error) {
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize, 20)
	if filter.Role != "" {
		role, ok := models.NormalizeRole(filter.Role)
		if !ok {
			return nil, apperrors.Invalid("invalid role %q", filter.Role)
		}
		filter.Role = role
	}

	users, total, err := s.users.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.UserSummary]{
		Data:       users,
		Pagination: models.NewPagination(filter.Page, filter.PageSize, total),
	}, nil
}

// UpdateUser applies the non-nil fields of req.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, user.Email) {
			existing, err := s.users.GetUserByEmail(ctx, email)
			if err == nil && existing.ID != id {
				return nil, apperrors.New(apperrors.ErrAlreadyExists, "email already exists")
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if req.Role != nil {
		role, ok := models.NormalizeRole(*req.Role)
		if !ok {
			return nil, apperrors.Invalid("invalid role %q. Valid roles: %s, %s", *req.Role, models.RoleUser, models.RoleAdmin)
		}
		user.Role = role
	}
	if req.Password != nil {
		if user.PasswordHash, err = hashPassword(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.notify.invalidate(ctx)
	return user, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.notify.audit(ctx, models.EventUserDeleted, "user", id, nil)
	s.notify.invalidate(ctx)
	return nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, id int64, req *models.ChangePasswordRequest) error {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return apperrors.Invalid("current password is incorrect")
	}
	if user.PasswordHash, err = hashPassword(req.NewPassword); err != nil {
		return err
	}
	return s.users.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) GetUserStats(ctx context.Context, id int64) (*models.UserStats, error) {
	return s.users.GetUserStats(ctx, id)
}

func hashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", apperrors.Invalid("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

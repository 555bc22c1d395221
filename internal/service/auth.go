package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

type authService struct {
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
	tokens       security.TokenManager
}

func NewAuthService(customerRepo repository.CustomerRepository, employeeRepo repository.EmployeeRepository, tokens security.TokenManager) AuthService {
	return &authService{
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		tokens:       tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	account, err := s.findAccount(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("Login failed", "reason", "unknown email")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		logger.Info("Login failed", "reason", "password mismatch", "role", account.Role, "accountID", account.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(*account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue access token: %w", err)
	}
	account.PasswordHash = ""
	return account, token, nil
}

// findAccount looks the email up among customers first, then employees.
func (s *authService) findAccount(ctx context.Context, email string) (*domain.Account, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, email)
	if err == nil {
		account := customer.Account()
		return &account, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	employee, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	account := employee.Account()
	return &account, nil
}

func (s *authService) ChangePassword(ctx context.Context, account domain.Account, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	var current string
	switch account.Role {
	case domain.RoleCustomer:
		c, err := s.customerRepo.GetByID(ctx, account.ID)
		if err != nil {
			return err
		}
		current = c.PasswordHash
	case domain.RoleEmployee:
		e, err := s.employeeRepo.GetByID(ctx, account.ID)
		if err != nil {
			return err
		}
		current = e.PasswordHash
	default:
		return domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(current), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if account.Role == domain.RoleEmployee {
		return s.employeeRepo.UpdatePasswordHash(ctx, account.ID, string(hash))
	}
	return s.customerRepo.UpdatePasswordHash(ctx, account.ID, string(hash))
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository/memory"
	"fleetrent-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthStore(t *testing.T) (*memory.Store, domain.Customer, domain.Employee) {
	t.Helper()
	store := memory.NewStore()
	customer := store.AddCustomer(domain.Customer{
		Name:          "Ada Driver",
		Email:         "ada@example.com",
		PasswordHash:  hashPassword(t, "password123"),
		BirthDate:     time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		LicenseNumber: "D1234567",
		IsActive:      true,
	})
	employee := store.AddEmployee(domain.Employee{
		Name:         "Desk Clerk",
		Email:        "desk@fleetrent.example",
		PasswordHash: hashPassword(t, "counter-secret"),
		Position:     "Agent",
	})
	return store, customer, employee
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	store, customer, employee := newAuthStore(t)
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	svc := NewAuthService(store.Repos().Customers, store.Repos().Employees, tokens)

	t.Run("Customer", func(t *testing.T) {
		account, token, err := svc.Login(ctx, "ada@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCustomer, account.Role)
		assert.Equal(t, customer.ID, account.ID)
		assert.Empty(t, account.PasswordHash)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, claims.AccountID)
		assert.False(t, claims.IsEmployee())
	})

	t.Run("Employee", func(t *testing.T) {
		account, token, err := svc.Login(ctx, " DESK@fleetrent.example ", "counter-secret")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEmployee, account.Role)
		assert.Equal(t, employee.ID, account.ID)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.True(t, claims.IsEmployee())
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ada@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Token failure", func(t *testing.T) {
		tm := new(MockTokenManager)
		tm.On("GenerateAccessToken", mock.AnythingOfType("domain.Account")).Return("", errors.New("signing failed"))
		failing := NewAuthService(store.Repos().Customers, store.Repos().Employees, tm)

		_, _, err := failing.Login(ctx, "ada@example.com", "password123")
		assert.ErrorContains(t, err, "signing failed")
		tm.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	store, customer, employee := newAuthStore(t)
	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	svc := NewAuthService(store.Repos().Customers, store.Repos().Employees, tokens)

	t.Run("Success", func(t *testing.T) {
		err := svc.ChangePassword(ctx, customer.Account(), "password123", "new-password")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "ada@example.com", "new-password")
		assert.NoError(t, err)
		_, _, err = svc.Login(ctx, "ada@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Employee", func(t *testing.T) {
		err := svc.ChangePassword(ctx, employee.Account(), "counter-secret", "another-secret")
		require.NoError(t, err)
	})

	t.Run("Wrong old password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, employee.Account(), "guess", "another-secret-2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Too short", func(t *testing.T) {
		err := svc.ChangePassword(ctx, customer.Account(), "new-password", "short")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

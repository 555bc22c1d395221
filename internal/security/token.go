package security

import (
	"errors"
	"strconv"
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)

const (
	issuer         = "fleetrent-auth"
	accessAudience = "fleetrent-api"
)

// AccountClaims identifies the customer or employee a token was issued to
type AccountClaims struct {
	AccountID int32       `json:"account_id"`
	Role      domain.Role `json:"role"`
	Email     string      `json:"email,omitempty"`
	Type      TokenType   `json:"type"`
	jwt.RegisteredClaims
}

// IsEmployee reports whether the token belongs to rental desk staff
func (c *AccountClaims) IsEmployee() bool {
	return c.Role == domain.RoleEmployee
}

type TokenManager interface {
	GenerateAccessToken(account domain.Account) (string, error)
	ValidateToken(tokenString string) (*AccountClaims, error)
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *tokenManager) GenerateAccessToken(account domain.Account) (string, error) {
	now := time.Now()
	claims := AccountClaims{
		AccountID: account.ID,
		Role:      account.Role,
		Email:     account.Email,
		Type:      TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(account.Role) + ":" + strconv.Itoa(int(account.ID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{accessAudience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*AccountClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccountClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(accessAudience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccountClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	if !claims.Role.IsValid() || claims.AccountID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

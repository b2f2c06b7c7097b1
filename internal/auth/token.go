package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/dispatch-service/internal/config"
)

// Operator is the authenticated principal behind a request. Operators are
// provisioned by the upstream identity service; this service only verifies
// the tokens it is handed.
type Operator struct {
	ID   string
	Name string
}

// Claims carried in operator access tokens.
type Claims struct {
	OperatorID string `json:"operator_id"`
	Name       string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 operator tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a TokenManager from auth config.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
	}
}

// GenerateToken signs a token for an operator. Used by tooling and tests;
// production tokens come from the identity service sharing the same secret.
func (m *TokenManager) GenerateToken(operator Operator) (string, error) {
	now := time.Now()
	claims := Claims{
		OperatorID: operator.ID,
		Name:       operator.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken verifies a token and returns the operator it identifies.
func (m *TokenManager) ParseToken(tokenString string) (*Operator, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.OperatorID == "" {
		return nil, fmt.Errorf("token missing operator identity")
	}
	return &Operator{ID: claims.OperatorID, Name: claims.Name}, nil
}

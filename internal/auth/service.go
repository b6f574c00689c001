// Package auth verifies the bearer tokens issued by the external identity
// service and extracts them from HTTP requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artdeck/artdeck-go/internal/apperror"
)

// Verifier maps a bearer token to the user id it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Service verifies HS256 tokens signed with a shared secret. The user id is
// read from the "userId" claim, falling back to "sub".
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
}

var _ Verifier = (*Service)(nil)

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       24 * time.Hour,
	}
}

// Verify implements Verifier. Every failure wraps apperror.ErrAuthentication.
func (s *Service) Verify(ctx context.Context, tokenString string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperror.Authentication("verification aborted", err)
	}
	if tokenString == "" {
		return "", apperror.Authentication("missing token", nil)
	}

	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", apperror.Authentication("invalid token", err)
	}
	return userID, nil
}

func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	for _, key := range []string{"userId", "sub"} {
		if userID, ok := claims[key].(string); ok && userID != "" {
			return userID, nil
		}
	}
	return "", errors.New("invalid token subject")
}

// IssueToken signs a token for userID. Production tokens come from the
// identity service; this backs local development and tests.
func (s *Service) IssueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"sub":    userID,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Package auth exchanges the admin API key for short-lived JWT tokens used
// by the write endpoints.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snapvault/service/internal/config"
)

const tokenTTL = 24 * time.Hour

// ErrInvalidKey is returned when the presented API key does not match.
var ErrInvalidKey = errors.New("invalid API key")

// Service contains the business logic for admin authentication.
type Service struct {
	cfg *config.Config
}

// NewService creates a new auth Service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// IssueToken validates the admin API key and returns a signed JWT.
func (s *Service) IssueToken(apiKey string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.cfg.AdminAPIKey)) != 1 {
		return "", ErrInvalidKey
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/cricket-league/models"
	"github.com/Dosada05/cricket-league/utils"
)

const scorerTokenTTL = 12 * time.Hour

type ScorerToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService struct {
	pinHash   string
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService builds the scorer login. An empty pinHash disables it.
func NewAuthService(pinHash, jwtSecret string) *AuthService {
	return &AuthService{
		pinHash:   pinHash,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// LoginScorer exchanges the scorer PIN for a signed token carrying the scorer role.
func (s *AuthService) LoginScorer(_ context.Context, pin string) (*ScorerToken, error) {
	if s.pinHash == "" {
		return nil, ErrScorerLoginDisabled
	}
	if pin == "" || !utils.CheckPasswordHash(pin, s.pinHash) {
		return nil, ErrAuthInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(scorerTokenTTL)
	claims := jwt.MapClaims{
		"sub":  "scorer",
		"role": string(models.RoleScorer),
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &ScorerToken{Token: tokenString, ExpiresAt: expiresAt.UTC()}, nil
}

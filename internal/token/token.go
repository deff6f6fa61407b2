package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried by every bearer token.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Service signs and verifies bearer tokens. It is constructed once at
// start-up with the process-wide secret and lifetime and passed to whatever
// needs it; there is no package-level state.
type Service struct {
	secret   []byte
	lifetime time.Duration
}

func NewService(secret string, lifetimeSeconds int) *Service {
	return &Service{
		secret:   []byte(secret),
		lifetime: time.Duration(lifetimeSeconds) * time.Second,
	}
}

// Lifetime returns the configured token lifetime in seconds.
func (s *Service) Lifetime() int {
	return int(s.lifetime / time.Second)
}

// Issue signs a token embedding the principal's id, username and admin flag.
func (s *Service) Issue(id int64, username string, admin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:       id,
		Username: username,
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token. Malformed, tampered and
// expired tokens all fail the same way.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

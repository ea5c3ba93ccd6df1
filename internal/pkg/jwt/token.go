package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/jetfront/jetfront/internal/pkg/models"
)

// ClockSkew is the tolerance applied when checking token validity windows
const ClockSkew = 5 * time.Minute

var (
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenNotYetValid = errors.New("token is not valid yet")
	ErrInvalidIssuer    = errors.New("token issuer mismatch")
	ErrInvalidAudience  = errors.New("token audience mismatch")
)

// GenerateToken signs a token for the given subject. The gateway itself never
// mints credentials for callers; this exists for tests and local tooling.
func GenerateToken(subject string, ttl time.Duration, cfg models.JWTConfig) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Key))
}

// ValidateToken verifies the token signature and claims against the
// configured key, expected issuer and expected audience. Validity window
// checks tolerate up to ClockSkew of drift.
func ValidateToken(tokenString string, cfg models.JWTConfig) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Key), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	now := time.Now()
	if !claims.VerifyExpiresAt(now.Add(-ClockSkew), true) {
		return nil, ErrTokenExpired
	}
	if !claims.VerifyNotBefore(now.Add(ClockSkew), false) {
		return nil, ErrTokenNotYetValid
	}
	if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
		return nil, ErrInvalidIssuer
	}
	if cfg.Audience != "" && !claims.VerifyAudience(cfg.Audience, true) {
		return nil, ErrInvalidAudience
	}

	return claims, nil
}

// Package security verifies the bearer tokens issued by the identity provider.
package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("unauthorized")

const bearerPrefix = "bearer "

// TokenVerifier checks HS256 tokens signed with the provider's shared JWT
// secret. Only the subject is trusted; it becomes the user id.
type TokenVerifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func NewTokenVerifier(secret []byte, audience string) (*TokenVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenVerifier{secret: secret, audience: strings.TrimSpace(audience), now: time.Now}, nil
}

// Verify accepts a raw Authorization header value and returns the subject.
func (verifier *TokenVerifier) Verify(authorization string) (string, error) {
	raw := strings.TrimSpace(authorization)
	if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return "", fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}
	tokenValue := strings.TrimSpace(raw[len(bearerPrefix):])

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(verifier.now),
	}
	if verifier.audience != "" {
		options = append(options, jwt.WithAudience(verifier.audience))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(*jwt.Token) (any, error) {
		return verifier.secret, nil
	}, options...)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return subject, nil
}

// IssueToken signs a token the verifier accepts. Used for local development
// and tests; production tokens come from the identity provider.
func IssueToken(secret []byte, subject string, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-with-enough-length-123")

func TestVerifyAcceptsValidBearerToken(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret, "authenticated")
	if err != nil {
		t.Fatalf("NewTokenVerifier() unexpected error: %v", err)
	}

	token, err := IssueToken(testSecret, "user-123", "authenticated", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	for _, header := range []string{"Bearer " + token, "bearer   " + token} {
		subject, err := verifier.Verify(header)
		if err != nil {
			t.Fatalf("Verify(%q) unexpected error: %v", header[:10], err)
		}
		if subject != "user-123" {
			t.Fatalf("expected subject user-123, got %q", subject)
		}
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret, "authenticated")
	if err != nil {
		t.Fatalf("NewTokenVerifier() unexpected error: %v", err)
	}

	expired, _ := IssueToken(testSecret, "user-123", "authenticated", -time.Minute)
	foreign, _ := IssueToken([]byte("another-secret"), "user-123", "authenticated", time.Hour)
	wrongAudience, _ := IssueToken(testSecret, "user-123", "anon", time.Hour)
	noSubject, _ := IssueToken(testSecret, "", "authenticated", time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "user-123",
		Audience: jwt.ClaimStrings{"authenticated"},
	}).SignedString(testSecret)
	otherAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-123",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)

	tests := map[string]string{
		"empty header":   "",
		"missing scheme": expired,
		"basic scheme":   "Basic dXNlcjpwYXNz",
		"garbage":        "Bearer not-a-jwt",
		"expired":        "Bearer " + expired,
		"foreign secret": "Bearer " + foreign,
		"wrong audience": "Bearer " + wrongAudience,
		"no subject":     "Bearer " + noSubject,
		"no expiry":      "Bearer " + noExpiry,
		"hs512":          "Bearer " + otherAlg,
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := verifier.Verify(header); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestVerifyWithoutAudienceConfigured(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret, "")
	if err != nil {
		t.Fatalf("NewTokenVerifier() unexpected error: %v", err)
	}
	token, _ := IssueToken(testSecret, "user-9", "whatever", time.Hour)
	if subject, err := verifier.Verify("Bearer " + token); err != nil || subject != "user-9" {
		t.Fatalf("Verify() = %q, %v", subject, err)
	}
}

func TestNewTokenVerifierRequiresSecret(t *testing.T) {
	if _, err := NewTokenVerifier(nil, ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

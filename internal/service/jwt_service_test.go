package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTService_AccessRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	token, err := svc.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.Subject != "user@example.com" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected token type: %q", claims.TokenType)
	}
}

func TestJWTService_RefreshRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	token, err := svc.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	claims, err := svc.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if claims.Subject != "user@example.com" || claims.TokenType != TokenTypeRefresh {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti on refresh token")
	}
}

func TestJWTService_RejectsCrossTypeUse(t *testing.T) {
	svc := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	access, err := svc.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refresh, err := svc.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	if _, err := svc.VerifyRefresh(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for access token in refresh path, got %v", err)
	}
	if _, err := svc.VerifyAccess(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for refresh token in access path, got %v", err)
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	other := NewJWTService("other-secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	token, err := other.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign secret, got %v", err)
	}
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	now := time.Now().UTC()
	claims := Claims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "account-service",
			Subject:   "user@example.com",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)
	now := time.Now().UTC()
	claims := Claims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-issuer",
			Subject:   "user@example.com",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}
}

func TestJWTService_RejectsMalformedToken(t *testing.T) {
	svc := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	for _, token := range []string{"", "   ", "not.a.jwt", "garbage"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", token, err)
		}
	}
}

func TestJWTService_RejectsForeignAlgorithm(t *testing.T) {
	// Un token HS512 no pasa un verificador configurado para HS256.
	hs512 := NewJWTService("secret", "HS512", 30*time.Minute, 7*24*time.Hour)
	hs256 := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	token, err := hs512.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if _, err := hs256.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign algorithm, got %v", err)
	}
	if _, err := hs512.Verify(token); err != nil {
		t.Fatalf("expected HS512 verifier to accept its own token, got %v", err)
	}
}

func TestJWTService_UnknownAlgorithmFallsBackToHS256(t *testing.T) {
	svc := NewJWTService("secret", "RS256", 30*time.Minute, 7*24*time.Hour)
	hs256 := NewJWTService("secret", "HS256", 30*time.Minute, 7*24*time.Hour)

	token, err := svc.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if _, err := hs256.Verify(token); err != nil {
		t.Fatalf("expected fallback HS256 token to verify, got %v", err)
	}
}

func TestJWTService_RejectsEmptySecret(t *testing.T) {
	svc := NewJWTService("", "HS256", 30*time.Minute, 7*24*time.Hour)

	if _, err := svc.IssueAccess("user@example.com"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty secret, got %v", err)
	}
}

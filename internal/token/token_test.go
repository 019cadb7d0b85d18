package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := Issue("auth-123", "firm-1", "analyst", "a@example.com", secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := Parse(tok, secret)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "auth-123" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "auth-123")
	}
	if claims.FirmID != "firm-1" {
		t.Fatalf("firm mismatch: got %q want %q", claims.FirmID, "firm-1")
	}
	if claims.Role != "analyst" {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, "analyst")
	}
	if claims.Email != "a@example.com" {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, "a@example.com")
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := Issue("auth-1", "firm-1", "analyst", "a@example.com", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Parse(tok, secret)
	if err == nil {
		t.Fatalf("expected error for expired token, got nil")
	}
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := Issue("auth-2", "firm-1", "analyst", "a@example.com", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := Parse(tok, []byte("wrong-secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth-3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := Parse(tok, []byte("secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := Parse("not-a-token", []byte("secret")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

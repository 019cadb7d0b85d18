// Package token issues and verifies the HS256 bearer tokens used for
// API authentication.
//
// The subject claim carries the auth user id; firm, role, and email ride
// along so the auth middleware can log and scope without extra lookups.
// Tokens are always signature-checked; unsigned or foreign-algorithm
// tokens are rejected.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, unsigned, or tampered tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for structurally valid but expired tokens.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the access-token claim set. Subject holds the auth user id.
type Claims struct {
	jwt.RegisteredClaims
	FirmID string `json:"firm_id,omitempty"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Issue signs a token for the given auth user.
func Issue(authUserID, firmID, role, email string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authUserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		FirmID: firmID,
		Role:   role,
		Email:  email,
	})

	signed, err := t.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies the signature and expiry of a bearer token and returns
// its claims.
func Parse(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !t.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

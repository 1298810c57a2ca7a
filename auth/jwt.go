// Package auth is the identity boundary: it turns an opaque bearer token
// into a verified owner id. Every verification failure — bad signature,
// expiry, malformed token — collapses into the single ErrUnauthenticated,
// so a caller can't probe which check failed.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnauthenticated = errors.New("auth: invalid or expired token")
	ErrEmptyUserID     = errors.New("auth: user id cannot be empty")
	ErrShortSecret     = errors.New("auth: secret must be at least 32 characters")
)

// Manager issues and verifies HMAC-signed tokens carrying an owner id.
type Manager struct {
	secretKey []byte
	tokenTTL  time.Duration
}

// NewManager creates a token manager.
// Returns an error if the secret is shorter than 32 characters.
func NewManager(secret string, tokenTTL time.Duration) (*Manager, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}
	return &Manager{
		secretKey: []byte(secret),
		tokenTTL:  tokenTTL,
	}, nil
}

// IssueToken signs a new token for userID, valid for the manager's TTL.
func (m *Manager) IssueToken(userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Authenticate verifies a bearer token and returns the owner id it was
// issued for. All failures report ErrUnauthenticated uniformly.
func (m *Manager) Authenticate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrUnauthenticated
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return m.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthenticated
	}
	if claims.Subject == "" {
		return "", ErrUnauthenticated
	}

	return claims.Subject, nil
}

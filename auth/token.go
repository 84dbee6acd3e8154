package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs and verifies bearer tokens. Credential issuance itself
// (passwords, registration) lives in the auth service; the fan-out layer
// only needs to turn a token into an identity.
type Manager struct {
	secret   []byte
	duration time.Duration
}

func NewManager(secret string, duration time.Duration) *Manager {
	return &Manager{secret: []byte(secret), duration: duration}
}

// Generate creates a signed JWT for a specific user. Used by tooling and
// tests; production tokens come from the auth service sharing the secret.
func (m *Manager) Generate(userID string) (string, error) {
	expirationTime := time.Now().Add(m.duration)

	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "collab-hub",
		},
	}

	// HS256 (HMAC with SHA256), same algorithm the auth service signs with.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

// Verify parses the token, validates signature and expiration, and
// returns the user id it was issued for.
func (m *Manager) Verify(_ context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims.UserID, nil
	}

	return "", jwt.ErrSignatureInvalid
}

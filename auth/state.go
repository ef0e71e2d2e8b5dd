package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// stateTTL bounds how long an authorization redirect may take before the
// callback rejects it
const stateTTL = 10 * time.Minute

// NewStateToken issues a short-lived signed token used as the OAuth2 state
// parameter. Verifying it on the callback ties the response to a redirect
// this service issued.
func NewStateToken(key []byte) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyStateToken checks the signature and expiry of a state parameter
func VerifyStateToken(key []byte, state string) error {
	token, err := jwt.Parse(state, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return fmt.Errorf("invalid state parameter: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid state parameter")
	}
	return nil
}

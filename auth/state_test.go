package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateToken_RoundTrip(t *testing.T) {
	key := []byte("test-signing-key")

	state, err := NewStateToken(key)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	assert.NoError(t, VerifyStateToken(key, state))
}

func TestStateToken_WrongKey(t *testing.T) {
	state, err := NewStateToken([]byte("key-one"))
	require.NoError(t, err)

	assert.Error(t, VerifyStateToken([]byte("key-two"), state))
}

func TestStateToken_Tampered(t *testing.T) {
	key := []byte("test-signing-key")

	state, err := NewStateToken(key)
	require.NoError(t, err)

	assert.Error(t, VerifyStateToken(key, state+"x"))
	assert.Error(t, VerifyStateToken(key, "not-a-token"))
	assert.Error(t, VerifyStateToken(key, ""))
}

func TestStateToken_Expired(t *testing.T) {
	key := []byte("test-signing-key")

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-20 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-10 * time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)

	assert.Error(t, VerifyStateToken(key, expired))
}

func TestStateToken_RejectsUnsignedAlg(t *testing.T) {
	key := []byte("test-signing-key")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Error(t, VerifyStateToken(key, unsigned))
}

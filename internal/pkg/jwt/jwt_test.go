// internal/pkg/jwt/jwt_test.go
package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &Manager{
		Generator: NewGenerator(key, "shiftcare", "shiftcare-accounts", "test-key", time.Hour),
		Verifier:  NewVerifier(&key.PublicKey, "shiftcare", "shiftcare-accounts"),
	}
}

func TestPasswordResetTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, jti, err := m.Generator.GeneratePasswordResetToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.Verifier.VerifyPasswordResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.AccountID)
	assert.True(t, claims.IsTemp)
}

func TestPasswordResetTokenPurposeIsolation(t *testing.T) {
	m := newTestManager(t)

	reset, _, err := m.Generator.GeneratePasswordResetToken(42)
	require.NoError(t, err)
	verify, _, err := m.Generator.GenerateEmailVerificationToken(42)
	require.NoError(t, err)

	// Tokens minted for one purpose must not satisfy another.
	_, err = m.Verifier.VerifyAccessToken(reset)
	assert.Error(t, err)
	_, err = m.Verifier.VerifyPasswordResetToken(verify)
	assert.Error(t, err)
	_, err = m.Verifier.VerifyEmailVerificationToken(reset)
	assert.Error(t, err)
}

package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "01234567890123456789012345678901"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestVerifier_RejectsShortSecret(t *testing.T) {
	_, err := NewVerifier("too-short")
	require.Error(t, err)
}

func TestVerifier_VerifyReturnsProfileID(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	profileID := uuid.New()
	tok := signToken(t, testSecret, jwt.MapClaims{
		"profile_id": profileID.String(),
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	got, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, profileID, got)
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	tok := signToken(t, testSecret, jwt.MapClaims{
		"profile_id": uuid.New().String(),
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})

	_, err = v.Verify(tok)
	require.Error(t, err)
}

func TestVerifier_RejectsWrongSigningKey(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	tok := signToken(t, "a-completely-different-secret-key", jwt.MapClaims{
		"profile_id": uuid.New().String(),
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	_, err = v.Verify(tok)
	require.Error(t, err)
}

func TestVerifier_RejectsMissingProfileIDClaim(t *testing.T) {
	v, err := NewVerifier(testSecret)
	require.NoError(t, err)

	tok := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err = v.Verify(tok)
	require.Error(t, err)
}

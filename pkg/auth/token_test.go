package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viniduminsara/ClearLens-Backend/pkg/config"
)

func newIssuer(t *testing.T, ttl time.Duration) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(config.JWTConfig{
		Secret: "0123456789abcdef0123456789abcdef",
		Issuer: "clearlens",
		TTL:    ttl,
	})
	require.NoError(t, err)
	return issuer
}

func Test_TokenIssuer_RoundTrip(t *testing.T) {
	issuer := newIssuer(t, time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func Test_TokenIssuer_RejectsExpired(t *testing.T) {
	issuer := newIssuer(t, -time.Minute)

	token, err := issuer.Issue(uuid.New(), "USER")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func Test_TokenIssuer_RejectsForeignSignature(t *testing.T) {
	issuer := newIssuer(t, time.Hour)
	foreign, err := NewTokenIssuer(config.JWTConfig{
		Secret: "another-secret-another-secret-xx",
		Issuer: "clearlens",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	token, err := foreign.Issue(uuid.New(), "USER")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func Test_TokenIssuer_RejectsWrongIssuer(t *testing.T) {
	issuer := newIssuer(t, time.Hour)
	other, err := NewTokenIssuer(config.JWTConfig{
		Secret: "0123456789abcdef0123456789abcdef",
		Issuer: "someone-else",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	token, err := other.Issue(uuid.New(), "USER")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

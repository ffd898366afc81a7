package auth_test

import (
	"testing"
	"time"

	auth "github.com/encantar/go-auth"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		ttl      string
		expected int64
	}{
		{"15m", 900},
		{"30s", 30},
		{"2h", 7200},
		{"7d", 604800},
		{"1d", 86400},
		{"0s", 0},
		{"", 900},
		{"m", 900},
		{"15", 900},
		{"abc", 900},
		{"10x", 900},
		{"x10", 900},
		{"1.5h", 900},
	}

	for _, tt := range tests {
		t.Run(tt.ttl, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.ParseTTL(tt.ttl))
		})
	}
}

func TestNewTokenServiceRejectsMissingSecrets(t *testing.T) {
	_, err := auth.NewTokenService(auth.TokenConfig{
		RefreshSecret: "refresh-ok",
	}, nil)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, goerrors.CategoryOperation, richErr.Category)

	_, err = auth.NewTokenService(auth.TokenConfig{
		AccessSecret: "access-ok",
	}, nil)
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsPlaceholderSecrets(t *testing.T) {
	insecure := []string{
		"fallback-secret",
		"ENCANTAR-SECRET-2024",
		"my-fallback-value",
	}

	for _, secret := range insecure {
		t.Run(secret, func(t *testing.T) {
			_, err := auth.NewTokenService(auth.TokenConfig{
				AccessSecret:  secret,
				RefreshSecret: "refresh-ok",
			}, nil)
			assert.Error(t, err)

			_, err = auth.NewTokenService(auth.TokenConfig{
				AccessSecret:  "access-ok",
				RefreshSecret: secret,
			}, nil)
			assert.Error(t, err)
		})
	}
}

func TestSignAndVerifyAccess(t *testing.T) {
	tokens := testTokenService(t)

	admin := &auth.Administrator{
		ID:    uuid.New(),
		Nome:  "Ana",
		Login: "ana",
	}

	signed, err := tokens.SignAccess(admin)
	require.NoError(t, err)

	claims, err := tokens.VerifyAccess(signed)
	require.NoError(t, err)

	assert.Equal(t, admin.ID, claims.AdministratorID())
	assert.Equal(t, "ana", claims.Login)
	assert.Equal(t, "Ana", claims.Nome)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.Expires(), 5*time.Second)
}

func TestVerifyRejectsWrongTokenClass(t *testing.T) {
	tokens := testTokenService(t)

	admin := &auth.Administrator{ID: uuid.New(), Login: "ana"}

	access, err := tokens.SignAccess(admin)
	require.NoError(t, err)
	refresh, err := tokens.SignRefresh(admin)
	require.NoError(t, err)

	_, err = tokens.VerifyRefresh(access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = tokens.VerifyAccess(refresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	tokens := testTokenService(t)

	claims := &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		ID: uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-access-secret"))
	require.NoError(t, err)

	_, err = tokens.VerifyAccess(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	tokens := testTokenService(t)

	claims := &auth.TokenClaims{ID: uuid.NewString()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.VerifyAccess(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := testTokenService(t)

	_, err := tokens.VerifyAccess("definitely-not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAccessExpiresIn(t *testing.T) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  "access-ok",
		RefreshSecret: "refresh-ok",
		AccessTTL:     "1h",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3600), tokens.AccessExpiresIn())
}

func TestAccessExpiresInFallsBack(t *testing.T) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  "access-ok",
		RefreshSecret: "refresh-ok",
		AccessTTL:     "bogus",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(900), tokens.AccessExpiresIn())
}

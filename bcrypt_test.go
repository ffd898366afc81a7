package auth_test

import (
	"strings"
	"testing"

	auth "github.com/encantar/go-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("senha-secreta")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.NoError(t, auth.ComparePasswordAndHash("senha-secreta", hash))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}

func TestComparePasswordAndHashMismatch(t *testing.T) {
	hash, err := auth.HashPassword("senha-secreta")
	require.NoError(t, err)

	err = auth.ComparePasswordAndHash("senha-errada", hash)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestComparePasswordAndHashMalformedHash(t *testing.T) {
	// A corrupt hash must be indistinguishable from a wrong password.
	err := auth.ComparePasswordAndHash("senha-secreta", "not-a-bcrypt-hash")
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestRandomPasswordHash(t *testing.T) {
	hash := auth.RandomPasswordHash()
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
}

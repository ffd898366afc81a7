package auth_test

import (
	"testing"

	auth "github.com/encantar/go-auth"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

// The pt-BR messages and text codes are part of the public API contract;
// clients key off both.
func TestErrorContract(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		message  string
		textCode string
		code     int
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, "Login ou senha inválidos", "INVALID_CREDENTIALS", goerrors.CodeUnauthorized},
		{"account disabled", auth.ErrAccountDisabled, "Conta desativada", "ACCOUNT_DISABLED", goerrors.CodeUnauthorized},
		{"invalid token", auth.ErrInvalidToken, "Token inválido", "INVALID_TOKEN", goerrors.CodeUnauthorized},
		{"login taken", auth.ErrLoginTaken, "Login já está em uso", "LOGIN_TAKEN", goerrors.CodeConflict},
		{"invite not found", auth.ErrInviteNotFound, "Convite inválido", "INVITE_NOT_FOUND", goerrors.CodeBadRequest},
		{"invite used", auth.ErrInviteUsed, "Convite já foi utilizado", "INVITE_USED", goerrors.CodeBadRequest},
		{"invite expired", auth.ErrInviteExpired, "Convite expirado", "INVITE_EXPIRED", goerrors.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Message)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, goerrors.CategoryAuth, auth.ErrInvalidCredentials.Category)
	assert.Equal(t, goerrors.CategoryAuth, auth.ErrAccountDisabled.Category)
	assert.Equal(t, goerrors.CategoryAuth, auth.ErrInvalidToken.Category)
	assert.Equal(t, goerrors.CategoryConflict, auth.ErrLoginTaken.Category)
	assert.Equal(t, goerrors.CategoryConflict, auth.ErrActiveInviteExists.Category)
	assert.Equal(t, goerrors.CategoryValidation, auth.ErrContactRequired.Category)
	assert.Equal(t, goerrors.CategoryBadInput, auth.ErrInviteContactMismatch.Category)
	assert.Equal(t, goerrors.CategoryInternal, auth.ErrNoActiveAdministrator.Category)
}

package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes give API clients a stable machine readable identifier that
// survives message changes. The HTTP layer maps categories to status codes;
// handlers should never branch on the pt-BR message strings.
const (
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeAccountDisabled     = "ACCOUNT_DISABLED"
	TextCodeInvalidToken        = "INVALID_TOKEN"
	TextCodeLoginTaken          = "LOGIN_TAKEN"
	TextCodeActiveInviteExists  = "ACTIVE_INVITE_EXISTS"
	TextCodeInviteNotFound      = "INVITE_NOT_FOUND"
	TextCodeInviteUsed          = "INVITE_USED"
	TextCodeInviteExpired       = "INVITE_EXPIRED"
	TextCodeContactMismatch     = "INVITE_CONTACT_MISMATCH"
	TextCodeContactConfirmation = "INVITE_CONTACT_CONFIRMATION_REQUIRED"
	TextCodeContactRequired     = "INVITE_CONTACT_REQUIRED"
	TextCodeEmptyPassword       = "EMPTY_PASSWORD"
	TextCodeNoAuditActor        = "NO_AUDIT_ACTOR"
)

// ErrInvalidCredentials covers both the unknown-login and wrong-password
// cases so the two are indistinguishable to a caller probing for accounts.
var ErrInvalidCredentials = goerrors.New("Login ou senha inválidos", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrAccountDisabled is returned when the administrator exists but ativo is
// false. The message intentionally differs from ErrInvalidCredentials,
// matching the platform's established API contract.
var ErrAccountDisabled = goerrors.New("Conta desativada", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeAccountDisabled)

// ErrInvalidToken is the single error for every token verification failure:
// bad signature, expired, malformed, wrong algorithm. Collapsing them denies
// an attacker a verification oracle. The differentiated cause is logged.
var ErrInvalidToken = goerrors.New("Token inválido", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidToken)

// ErrLoginTaken is returned when registering with a login that already exists.
var ErrLoginTaken = goerrors.New("Login já está em uso", goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict).
	WithTextCode(TextCodeLoginTaken)

// ErrActiveInviteExists enforces the one-active-invite-per-sender rule.
var ErrActiveInviteExists = goerrors.New(
	"Já existe um convite ativo. Aguarde sua expiração antes de criar um novo.",
	goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict).
	WithTextCode(TextCodeActiveInviteExists)

// ErrContactRequired rejects invite creation with neither email nor telefone.
var ErrContactRequired = goerrors.New(
	"Email ou telefone é obrigatório para validação do convite",
	goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeContactRequired)

var ErrInviteNotFound = goerrors.New("Convite inválido", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeInviteNotFound)

var ErrInviteUsed = goerrors.New("Convite já foi utilizado", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeInviteUsed)

var ErrInviteExpired = goerrors.New("Convite expirado", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeInviteExpired)

// ErrInviteContactMismatch is returned when the guess does not match the
// contact the invite was bound to. Comparison is exact string equality.
var ErrInviteContactMismatch = goerrors.New(
	"O contato informado não confere com o convite",
	goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeContactMismatch)

// ErrInviteContactConfirmation is returned when the invite carries a contact
// but the caller supplied no guess at all.
var ErrInviteContactConfirmation = goerrors.New(
	"É necessário informar o email ou telefone para validar o convite",
	goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeContactConfirmation)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is the internal compare failure. Callers in
// the login path translate it to ErrInvalidCredentials before returning.
var ErrMismatchedHashAndPassword = goerrors.New(
	"the credentials provided are invalid",
	goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoActiveAdministrator means audit attribution is impossible: no explicit
// actor and not a single active administrator to fall back to.
var ErrNoActiveAdministrator = goerrors.New(
	"Nenhum administrador ativo encontrado para auditoria",
	goerrors.CategoryInternal).
	WithCode(goerrors.CodeInternal).
	WithTextCode(TextCodeNoAuditActor)

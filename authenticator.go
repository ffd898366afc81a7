package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AuthenticatedUser is the public projection of an administrator returned
// from login and registration. The senha hash never leaves the package.
type AuthenticatedUser struct {
	ID    uuid.UUID `json:"id"`
	Nome  string    `json:"nome"`
	Login string    `json:"login"`
}

// AuthResult is the envelope for login and register: the user plus a fresh
// access/refresh token pair.
type AuthResult struct {
	User         AuthenticatedUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int64             `json:"expiresIn"`
}

// RefreshResult carries only a new access token; the refresh token is never
// rotated by a refresh call.
type RefreshResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterInput is everything invite-gated registration needs.
type RegisterInput struct {
	Nome              string
	Login             string
	Senha             string
	Token             string
	EmailValidacao    string
	TelefoneValidacao string
}

// Coordinator orchestrates login, invite-gated registration and token
// refresh over the password hasher, token service and invite manager.
type Coordinator struct {
	repo      RepositoryManager
	tokens    *TokenService
	invites   *InviteManager
	logger    Logger
	useHashid bool
}

type CoordinatorOption func(*Coordinator)

// WithLogger replaces the default logger.
func WithLogger(logger Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDeterministicIDs derives new administrator ids from their login via
// hashid instead of random UUIDs.
func WithDeterministicIDs() CoordinatorOption {
	return func(c *Coordinator) {
		c.useHashid = true
	}
}

func NewCoordinator(repo RepositoryManager, tokens *TokenService, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.invites = NewInviteManager(repo, c.logger)

	return c
}

// Invites exposes the invite manager built over the same repositories.
func (c *Coordinator) Invites() *InviteManager {
	return c.invites
}

// TokenService exposes the token service used by this coordinator.
func (c *Coordinator) TokenService() *TokenService {
	return c.tokens
}

// Login authenticates an administrator by login and password. An unknown
// login and a wrong password produce the same error; a deactivated account
// is reported as such.
func (c *Coordinator) Login(ctx context.Context, login, senha string) (*AuthResult, error) {
	admin, err := c.repo.Administrators().GetByLogin(ctx, login)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// Burn the same bcrypt work as the happy path so a missing
			// account cannot be inferred from response timing.
			_ = ComparePasswordAndHash(senha, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up administrator")
	}

	if !admin.Ativo {
		return nil, ErrAccountDisabled
	}

	if err := ComparePasswordAndHash(senha, admin.SenhaHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return c.mintPair(admin)
}

// Register redeems an invite into a new administrator account. The account
// creation and the invite redemption commit atomically: the conditional
// usado flip aborts the transaction when another registration claimed the
// invite first.
func (c *Coordinator) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	invite, err := c.invites.ValidateForRedemption(ctx, input.Token, input.EmailValidacao, input.TelefoneValidacao)
	if err != nil {
		return nil, err
	}

	if _, err := c.repo.Administrators().GetByLogin(ctx, input.Login); err == nil {
		return nil, ErrLoginTaken
	} else if !repository.IsRecordNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up administrator")
	}

	hash, err := HashPassword(input.Senha)
	if err != nil {
		return nil, err
	}

	admin := &Administrator{
		Nome:      input.Nome,
		Login:     input.Login,
		SenhaHash: hash,
	}

	if c.useHashid {
		if id, err := hashid.NewUUID(input.Login); err == nil {
			admin.ID = id
		}
	}

	err = c.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if admin, err = c.repo.Administrators().RegisterTx(ctx, tx, admin); err != nil {
			// The unique constraint on login is the authoritative guard;
			// the pre-check above only catches the common case early. Only a
			// login that actually exists maps to the conflict error, anything
			// else surfaces as an internal failure with its cause intact.
			if _, lookupErr := c.repo.Administrators().GetByLoginTx(ctx, tx, input.Login); lookupErr == nil {
				return ErrLoginTaken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create administrator")
		}

		claimed, err := c.repo.Invites().MarkUsedTx(ctx, tx, invite.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to redeem invite")
		}

		if !claimed {
			return ErrInviteUsed
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "registration transaction failed")
	}

	return c.mintPair(admin)
}

// Refresh exchanges a valid refresh token for a new access token. The
// administrator is re-fetched so deactivation invalidates outstanding
// refresh tokens; embedded claims are not trusted to be current.
func (c *Coordinator) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := c.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	id := claims.AdministratorID()
	if id == uuid.Nil {
		return nil, ErrInvalidToken
	}

	admin, err := c.repo.Administrators().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up administrator")
	}

	if !admin.Ativo {
		return nil, ErrInvalidToken
	}

	access, err := c.tokens.SignAccess(admin)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken: access,
		ExpiresIn:   c.tokens.AccessExpiresIn(),
	}, nil
}

// VerifyAccess validates an access token for the request-authentication
// middleware.
func (c *Coordinator) VerifyAccess(token string) (*TokenClaims, error) {
	return c.tokens.VerifyAccess(token)
}

func (c *Coordinator) mintPair(admin *Administrator) (*AuthResult, error) {
	access, err := c.tokens.SignAccess(admin)
	if err != nil {
		return nil, err
	}

	refresh, err := c.tokens.SignRefresh(admin)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User: AuthenticatedUser{
			ID:    admin.ID,
			Nome:  admin.Nome,
			Login: admin.Login,
		},
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    c.tokens.AccessExpiresIn(),
	}, nil
}

package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ContextKeyUser is the router locals key holding the authenticated
// administrator on protected routes.
const ContextKeyUser = "user"

// ErrorResponse is the JSON error envelope every endpoint returns on
// failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// DataResponse is the JSON success envelope: payload under data, optional
// human readable message.
type DataResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// WriteError maps an error onto the JSON envelope. Operational errors keep
// their status, message and text code; anything else is masked as a 500 and
// the real cause goes to the log only.
func WriteError(ctx router.Context, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Category == goerrors.CategoryInternal {
		logger.Error("request failed: %v", err)
		return ctx.JSON(router.StatusInternalServerError, ErrorResponse{
			Error: "Erro interno do servidor",
			Code:  "INTERNAL_ERROR",
		})
	}

	status := richErr.Code
	if status == 0 {
		status = router.StatusInternalServerError
	}

	return ctx.JSON(status, ErrorResponse{
		Error: richErr.Message,
		Code:  richErr.TextCode,
	})
}

// RouteAuthenticator guards routes with access token verification.
type RouteAuthenticator struct {
	coordinator *Coordinator
	repo        RepositoryManager
	logger      Logger
}

func NewRouteAuthenticator(coordinator *Coordinator, repo RepositoryManager, logger Logger) *RouteAuthenticator {
	if logger == nil {
		logger = defLogger{}
	}
	return &RouteAuthenticator{
		coordinator: coordinator,
		repo:        repo,
		logger:      logger,
	}
}

// RequireAuth rejects requests without a valid bearer token. The
// administrator is re-fetched on every request so a deactivated account is
// locked out immediately, before any outstanding token expires.
func (a *RouteAuthenticator) RequireAuth() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			token := bearerToken(ctx)
			if token == "" {
				return ctx.JSON(router.StatusUnauthorized, ErrorResponse{
					Error: "Token de acesso necessário",
					Code:  "MISSING_TOKEN",
				})
			}

			claims, err := a.coordinator.VerifyAccess(token)
			if err != nil {
				return WriteError(ctx, a.logger, err)
			}

			admin, err := a.lookup(ctx, claims)
			if err != nil {
				return WriteError(ctx, a.logger, err)
			}

			if admin == nil || !admin.Ativo {
				return ctx.JSON(router.StatusUnauthorized, ErrorResponse{
					Error: "Usuário não encontrado ou inativo",
					Code:  "USER_NOT_FOUND",
				})
			}

			ctx.Locals(ContextKeyUser, admin)
			ctx.SetContext(WithActor(ctx.Context(), admin))

			return next(ctx)
		}
	}
}

// OptionalAuth resolves the administrator when a valid token is present but
// lets the request through either way.
func (a *RouteAuthenticator) OptionalAuth() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			token := bearerToken(ctx)
			if token == "" {
				return next(ctx)
			}

			claims, err := a.coordinator.VerifyAccess(token)
			if err != nil {
				return next(ctx)
			}

			if admin, err := a.lookup(ctx, claims); err == nil && admin != nil && admin.Ativo {
				ctx.Locals(ContextKeyUser, admin)
				ctx.SetContext(WithActor(ctx.Context(), admin))
			}

			return next(ctx)
		}
	}
}

func (a *RouteAuthenticator) lookup(ctx router.Context, claims *TokenClaims) (*Administrator, error) {
	id := claims.AdministratorID()
	if id == uuid.Nil {
		return nil, nil
	}

	admin, err := a.repo.Administrators().GetByID(ctx.Context(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up administrator")
	}

	return admin, nil
}

// AdminFromLocals retrieves the administrator stashed by RequireAuth.
func AdminFromLocals(ctx router.Context) (*Administrator, bool) {
	admin, ok := ctx.Locals(ContextKeyUser).(*Administrator)
	return admin, ok
}

func bearerToken(ctx router.Context) string {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

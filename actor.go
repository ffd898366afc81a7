package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

var actorCtxKey = &contextKey{"actor"}

type contextKey struct {
	name string
}

// WithActor sets the authenticated administrator in the given context. The
// request-authentication middleware does this on every protected call so
// mutations downstream can be stamped with the real actor.
func WithActor(ctx context.Context, admin *Administrator) context.Context {
	return context.WithValue(ctx, actorCtxKey, admin)
}

// ActorFromContext finds the authenticated administrator from the context.
func ActorFromContext(ctx context.Context) (*Administrator, bool) {
	raw, ok := ctx.Value(actorCtxKey).(*Administrator)
	return raw, ok
}

// ActorResolver decides which administrator id gets stamped on a mutation
// when the caller did not pass one explicitly. Every create/update across
// the platform funnels through it, not only the auth endpoints.
type ActorResolver struct {
	repo   RepositoryManager
	logger Logger
}

func NewActorResolver(repo RepositoryManager, logger Logger) *ActorResolver {
	if logger == nil {
		logger = defLogger{}
	}
	return &ActorResolver{
		repo:   repo,
		logger: logger,
	}
}

// ResolveActor returns the administrator id to stamp. Precedence: the
// explicit id, then the authenticated administrator threaded through the
// context, then any one active administrator. The last resort substitutes
// an arbitrary admin into the audit trail, so each occurrence is logged
// loudly; with no active administrator at all it fails outright.
func (r *ActorResolver) ResolveActor(ctx context.Context, explicit uuid.UUID) (uuid.UUID, error) {
	if explicit != uuid.Nil {
		return explicit, nil
	}

	if admin, ok := ActorFromContext(ctx); ok && admin != nil {
		return admin.ID, nil
	}

	admin, err := r.repo.Administrators().FirstActive(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return uuid.Nil, ErrNoActiveAdministrator
		}
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve audit actor")
	}

	r.logger.Error(
		"audit actor fallback: attributing mutation to arbitrary active administrator %s",
		admin.ID.String(),
	)

	return admin.ID, nil
}

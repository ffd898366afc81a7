package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Administrators() Administrators
	Invites() Invites
}

type mngr struct {
	db             *bun.DB
	administrators Administrators
	invites        Invites
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:             db,
		administrators: NewAdministratorsRepository(db),
		invites:        NewInvitesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.administrators == nil {
		return errors.New("repository administrators should be initialized")
	}

	if m.invites == nil {
		return errors.New("repository invites should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Administrators() Administrators {
	return m.administrators
}

func (m mngr) Invites() Invites {
	return m.invites
}

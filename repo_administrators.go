package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Administrators is the persistence surface for administrator records.
type Administrators interface {
	repository.Repository[*Administrator]

	GetByLogin(ctx context.Context, login string) (*Administrator, error)
	GetByLoginTx(ctx context.Context, tx bun.IDB, login string) (*Administrator, error)

	Register(ctx context.Context, record *Administrator) (*Administrator, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Administrator) (*Administrator, error)
	Create(ctx context.Context, record *Administrator, criteria ...repository.InsertCriteria) (*Administrator, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Administrator, criteria ...repository.InsertCriteria) (*Administrator, error)

	// FirstActive returns any one active administrator. The tie-break among
	// multiple active rows is deliberately unspecified.
	FirstActive(ctx context.Context) (*Administrator, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Administrator, error)
}

type administrators struct {
	repository.Repository[*Administrator]
	db *bun.DB
}

var (
	_ Administrators                        = (*administrators)(nil)
	_ repository.Repository[*Administrator] = (*administrators)(nil)
)

func NewAdministratorsRepository(db *bun.DB) Administrators {
	repo := repository.NewRepository[*Administrator](db, repository.ModelHandlers[*Administrator]{
		NewRecord: func() *Administrator { return &Administrator{} },
		GetID: func(a *Administrator) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Administrator, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "login"
		},
	})

	return &administrators{
		Repository: repo,
		db:         db,
	}
}

func (a *administrators) GetByLogin(ctx context.Context, login string) (*Administrator, error) {
	return a.GetByLoginTx(ctx, a.db, login)
}

func (a *administrators) GetByLoginTx(ctx context.Context, tx bun.IDB, login string) (*Administrator, error) {
	record := &Administrator{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.login = ?", login).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"login": login,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *administrators) Register(ctx context.Context, record *Administrator) (*Administrator, error) {
	return a.RegisterTx(ctx, a.db, record)
}

func (a *administrators) RegisterTx(ctx context.Context, tx bun.IDB, record *Administrator) (*Administrator, error) {
	return a.CreateTx(ctx, tx, record)
}

func (a *administrators) Create(ctx context.Context, record *Administrator, criteria ...repository.InsertCriteria) (*Administrator, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *administrators) CreateTx(ctx context.Context, tx bun.IDB, record *Administrator, criteria ...repository.InsertCriteria) (*Administrator, error) {
	prepareAdministratorDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *administrators) FirstActive(ctx context.Context) (*Administrator, error) {
	record := &Administrator{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.ativo = ?", true).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound()
		}
		return nil, err
	}

	return record, nil
}

func (a *administrators) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Administrator, error) {
	// The ORM skips zero-value fields on update, so flipping ativo to FALSE
	// needs a raw statement.
	now := time.Now()
	_, err := a.db.NewRaw(`
		UPDATE "administradores" AS "adm"
		SET
			"ativo" = ?,
			"atualizado_em" = ?
		WHERE
			("adm".id = ?);
	`, active, now, id).Exec(ctx)

	if err != nil {
		return nil, err
	}

	return a.Repository.GetByID(ctx, id.String())
}

func prepareAdministratorDefaults(record *Administrator) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	// Registration always yields an active account; deactivation happens
	// through SetActive later.
	record.Ativo = true
}

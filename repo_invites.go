package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Invites is the persistence surface for invite records.
type Invites interface {
	repository.Repository[*Invite]

	GetByToken(ctx context.Context, token string) (*Invite, error)
	GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*Invite, error)

	// GetActiveBySender returns the newest unused, unexpired invite issued
	// by the given administrator.
	GetActiveBySender(ctx context.Context, senderID uuid.UUID) (*Invite, error)

	Create(ctx context.Context, record *Invite, criteria ...repository.InsertCriteria) (*Invite, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Invite, criteria ...repository.InsertCriteria) (*Invite, error)

	// MarkUsed flips usado on an unused invite and reports whether this call
	// claimed it. A false return means another transaction got there first;
	// composing registrations abort on it.
	MarkUsed(ctx context.Context, id uuid.UUID) (bool, error)
	MarkUsedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (bool, error)
}

type invites struct {
	repository.Repository[*Invite]
	db *bun.DB
}

var (
	_ Invites                        = (*invites)(nil)
	_ repository.Repository[*Invite] = (*invites)(nil)
)

func NewInvitesRepository(db *bun.DB) Invites {
	repo := repository.NewRepository[*Invite](db, repository.ModelHandlers[*Invite]{
		NewRecord: func() *Invite { return &Invite{} },
		GetID: func(i *Invite) uuid.UUID {
			if i == nil {
				return uuid.Nil
			}
			return i.ID
		},
		SetID: func(i *Invite, id uuid.UUID) {
			if i != nil {
				i.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &invites{
		Repository: repo,
		db:         db,
	}
}

func (r *invites) GetByToken(ctx context.Context, token string) (*Invite, error) {
	return r.GetByTokenTx(ctx, r.db, token)
}

func (r *invites) GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*Invite, error) {
	record := &Invite{}

	err := tx.NewSelect().
		Model(record).
		Relation("EnviadoPor").
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": token,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *invites) GetActiveBySender(ctx context.Context, senderID uuid.UUID) (*Invite, error) {
	record := &Invite{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.enviado_por_id = ?", senderID).
		Where("?TableAlias.usado = ?", false).
		Where("?TableAlias.expira_em > ?", time.Now()).
		OrderExpr("?TableAlias.criado_em DESC").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"enviado_por_id": senderID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *invites) Create(ctx context.Context, record *Invite, criteria ...repository.InsertCriteria) (*Invite, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *invites) CreateTx(ctx context.Context, tx bun.IDB, record *Invite, criteria ...repository.InsertCriteria) (*Invite, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *invites) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.MarkUsedTx(ctx, r.db, id)
}

func (r *invites) MarkUsedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (bool, error) {
	// Conditional update: the usado = FALSE guard makes redemption a
	// compare-and-set, so two concurrent registrations on the same invite
	// can never both claim it.
	usadoEm := time.Now()
	res, err := tx.NewRaw(`
		UPDATE "convites" AS "cnv"
		SET
			"usado" = TRUE,
			"usado_em" = ?
		WHERE
			("cnv".id = ?)
			AND "cnv"."usado" = FALSE;
	`, usadoEm, id).Exec(ctx)

	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Administrator is the only principal in the system. Rows are created through
// invite-gated registration and are never deleted; deactivation flips Ativo.
type Administrator struct {
	bun.BaseModel `bun:"table:administradores,alias:adm"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Nome          string     `bun:"nome,notnull" json:"nome,omitempty"`
	Login         string     `bun:"login,notnull,unique" json:"login,omitempty"`
	SenhaHash     string     `bun:"senha_hash,notnull" json:"-"`
	Ativo         bool       `bun:"ativo,notnull,default:true" json:"ativo"`
	CriadoEm      *time.Time `bun:"criado_em,nullzero,default:current_timestamp" json:"criado_em,omitempty"`
	AtualizadoEm  *time.Time `bun:"atualizado_em,nullzero,default:current_timestamp" json:"atualizado_em,omitempty"`
}

// Invite is a single-use, time-boxed registration token. At least one of
// Email/Telefone is set at creation; redemption must confirm whichever is
// present. Rows are never deleted, expiry and usado make them inert.
type Invite struct {
	bun.BaseModel `bun:"table:convites,alias:cnv"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string         `bun:"email,nullzero" json:"email,omitempty"`
	Telefone      string         `bun:"telefone,nullzero" json:"telefone,omitempty"`
	Token         string         `bun:"token,notnull,unique" json:"token,omitempty"`
	ExpiraEm      time.Time      `bun:"expira_em,notnull" json:"expira_em"`
	Usado         bool           `bun:"usado,notnull,default:false" json:"usado"`
	UsadoEm       *time.Time     `bun:"usado_em,nullzero" json:"usado_em,omitempty"`
	EnviadoPorID  uuid.UUID      `bun:"enviado_por_id,notnull,type:uuid" json:"enviado_por_id,omitempty"`
	EnviadoPor    *Administrator `bun:"rel:belongs-to,join:enviado_por_id=id" json:"enviado_por,omitempty"`
	CriadoEm      *time.Time     `bun:"criado_em,nullzero,default:current_timestamp" json:"criado_em,omitempty"`
}

// Active reports whether the invite can still gate a registration at the
// given instant: not yet redeemed and not expired (strict comparison).
func (i *Invite) Active(now time.Time) bool {
	if i == nil {
		return false
	}
	return !i.Usado && i.ExpiraEm.After(now)
}

// HasContact reports whether the invite was bound to an email or telefone.
func (i *Invite) HasContact() bool {
	return i != nil && (i.Email != "" || i.Telefone != "")
}

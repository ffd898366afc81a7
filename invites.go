package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// InviteTTL is how long an invite stays redeemable after creation.
const InviteTTL = 15 * time.Minute

// inviteTokenBytes yields a 64 character hex token.
const inviteTokenBytes = 32

// defaultPhoneRegion is the region used to parse telefone values that carry
// no country prefix.
const defaultPhoneRegion = "BR"

// InviteContact is the contact an invite gets bound to. At least one field
// must be set; redemption later requires confirming whichever is present.
type InviteContact struct {
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone,omitempty"`
}

// InviteManager owns the invite lifecycle: creation, lookup, and the
// validation gates in front of redemption. Redemption itself happens inside
// the registration transaction, see Coordinator.Register.
type InviteManager struct {
	repo   RepositoryManager
	logger Logger
}

func NewInviteManager(repo RepositoryManager, logger Logger) *InviteManager {
	if logger == nil {
		logger = defLogger{}
	}
	return &InviteManager{
		repo:   repo,
		logger: logger,
	}
}

// Create issues a new invite on behalf of senderID. A sender can hold at
// most one active invite at a time.
func (m *InviteManager) Create(ctx context.Context, contact InviteContact, senderID uuid.UUID) (*Invite, error) {
	if contact.Email == "" && contact.Telefone == "" {
		return nil, ErrContactRequired
	}

	if contact.Email != "" && !isEmail(contact.Email) {
		return nil, goerrors.New("Email inválido", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeContactRequired)
	}

	if contact.Telefone != "" && !isPhoneNumber(contact.Telefone) {
		return nil, goerrors.New("Telefone inválido", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeContactRequired)
	}

	active, err := m.repo.Invites().GetActiveBySender(ctx, senderID)
	if err != nil && !repository.IsRecordNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for an active invite")
	}

	if active != nil {
		return nil, ErrActiveInviteExists
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate invite token")
	}

	invite := &Invite{
		Email:        contact.Email,
		Telefone:     contact.Telefone,
		Token:        token,
		ExpiraEm:     time.Now().Add(InviteTTL),
		EnviadoPorID: senderID,
	}

	invite, err = m.repo.Invites().Create(ctx, invite)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist invite")
	}

	return invite, nil
}

// GetActive returns the sender's current active invite, or nil when none.
func (m *InviteManager) GetActive(ctx context.Context, senderID uuid.UUID) (*Invite, error) {
	invite, err := m.repo.Invites().GetActiveBySender(ctx, senderID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up active invite")
	}

	return invite, nil
}

// Validate runs the read-only gate used before showing invite details:
// the token must resolve, be unredeemed, and be unexpired. Checked in that
// order so the caller gets the most specific failure.
func (m *InviteManager) Validate(ctx context.Context, token string) (*Invite, error) {
	invite, err := m.repo.Invites().GetByToken(ctx, token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInviteNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up invite")
	}

	if invite.Usado {
		return nil, ErrInviteUsed
	}

	if invite.ExpiraEm.Before(time.Now()) {
		return nil, ErrInviteExpired
	}

	return invite, nil
}

// ValidateForRedemption runs Validate plus contact confirmation: whichever
// contact the invite carries must be matched exactly by the caller's guess.
// Matching is byte-for-byte string equality; no trimming or case folding.
func (m *InviteManager) ValidateForRedemption(ctx context.Context, token, emailGuess, phoneGuess string) (*Invite, error) {
	invite, err := m.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if invite.HasContact() && emailGuess == "" && phoneGuess == "" {
		return nil, ErrInviteContactConfirmation
	}

	if invite.Email != "" && invite.Email != emailGuess {
		return nil, ErrInviteContactMismatch
	}

	if invite.Telefone != "" && invite.Telefone != phoneGuess {
		return nil, ErrInviteContactMismatch
	}

	return invite, nil
}

// newInviteToken returns 256 bits of randomness encoded as hex, the token
// format registration links are built from.
func newInviteToken() (string, error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isPhoneNumber(telefone string) bool {
	num, err := phonenumbers.Parse(telefone, defaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

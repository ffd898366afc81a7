package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the payload carried by both token classes. Access and
// refresh tokens share the shape and differ only in signing secret and TTL.
type TokenClaims struct {
	jwt.RegisteredClaims
	ID    string `json:"id,omitempty"`
	Login string `json:"login,omitempty"`
	Nome  string `json:"nome,omitempty"`
}

// AdministratorID parses the id claim. Returns uuid.Nil when the claim is
// absent or not a UUID; callers treat that as an invalid token.
func (c *TokenClaims) AdministratorID() uuid.UUID {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func newTokenClaims(admin *Administrator, now time.Time, ttl time.Duration) *TokenClaims {
	return &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ID:    admin.ID.String(),
		Login: admin.Login,
		Nome:  admin.Nome,
	}
}

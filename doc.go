// Package auth provides the authentication and invite-gated onboarding
// primitives of the platform: bcrypt credential handling, dual-secret JWT
// issuance, Bun-backed repositories, and HTTP helpers.
//
// Administrators:
//   - Administrator is the only principal. Accounts are created exclusively
//     through invite redemption and are never deleted; SetActive flips the
//     ativo flag and deactivation immediately invalidates outstanding
//     refresh tokens because every verification re-fetches the row.
//
// Invites:
//   - InviteManager owns issuance and the validation gates. An invite is a
//     single-use hex token bound to an email and/or telefone that must be
//     confirmed, by exact match, at redemption. Each sender holds at most one
//     active invite. Redemption is a compare-and-set inside the registration
//     transaction, so concurrent registrations on the same invite resolve to
//     exactly one winner.
//
// Tokens:
//   - TokenService signs HS256 access and refresh tokens with independent
//     secrets and refuses placeholder secrets at construction. Every
//     verification failure collapses into the same generic error; the
//     differentiated cause is only logged.
//
// Audit attribution:
//   - ActorResolver decides which administrator gets stamped on a mutation:
//     explicit id, then the request actor threaded through the context by
//     RequireAuth, then any active administrator as a logged last resort.
package auth

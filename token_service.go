package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// DefaultAccessTTL is the access token lifetime when none is configured.
	DefaultAccessTTL = "15m"
	// DefaultRefreshTTL is the refresh token lifetime when none is configured.
	DefaultRefreshTTL = "7d"

	// defaultTTLSeconds is the silent fallback for TTL strings that do not
	// parse. Misconfigured values become 15 minutes instead of an error;
	// an established platform behavior that callers depend on.
	defaultTTLSeconds int64 = 900
)

// insecureSecretMarkers are substrings of development placeholder secrets.
// Construction refuses them so a fallback secret cannot reach production.
var insecureSecretMarkers = []string{"fallback", "ENCANTAR-SECRET"}

// TokenService signs and verifies the two bearer token classes. Access and
// refresh tokens use independent secrets; a token signed with one never
// verifies against the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     string
	refreshTTL    string
	logger        Logger
}

// NewTokenService creates a new TokenService instance. It fails fast when
// either secret is empty or matches a known insecure placeholder.
func NewTokenService(cfg Config, logger Logger) (*TokenService, error) {
	if logger == nil {
		logger = defLogger{}
	}

	if err := checkSecret("access", cfg.GetAccessSecret()); err != nil {
		return nil, err
	}

	if err := checkSecret("refresh", cfg.GetRefreshSecret()); err != nil {
		return nil, err
	}

	return &TokenService{
		accessSecret:  []byte(cfg.GetAccessSecret()),
		refreshSecret: []byte(cfg.GetRefreshSecret()),
		accessTTL:     cfg.GetAccessTTL(),
		refreshTTL:    cfg.GetRefreshTTL(),
		logger:        logger,
	}, nil
}

func checkSecret(name, secret string) error {
	if secret == "" {
		return goerrors.New("JWT "+name+" secret is not configured", goerrors.CategoryOperation).
			WithMetadata(map[string]any{"secret": name})
	}

	for _, marker := range insecureSecretMarkers {
		if strings.Contains(secret, marker) {
			return goerrors.New("JWT "+name+" secret matches an insecure placeholder", goerrors.CategoryOperation).
				WithMetadata(map[string]any{"secret": name})
		}
	}

	return nil
}

// SignAccess mints an access token for the administrator.
func (ts *TokenService) SignAccess(admin *Administrator) (string, error) {
	return ts.sign(admin, ts.accessSecret, ts.accessTTL)
}

// SignRefresh mints a refresh token for the administrator.
func (ts *TokenService) SignRefresh(admin *Administrator) (string, error) {
	return ts.sign(admin, ts.refreshSecret, ts.refreshTTL)
}

func (ts *TokenService) sign(admin *Administrator, secret []byte, ttl string) (string, error) {
	if admin == nil {
		return "", goerrors.New("administrator must not be nil", goerrors.CategoryInternal)
	}

	claims := newTokenClaims(admin, time.Now(), time.Duration(ParseTTL(ttl))*time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// VerifyAccess validates a token against the access secret.
func (ts *TokenService) VerifyAccess(tokenString string) (*TokenClaims, error) {
	return ts.verify(tokenString, ts.accessSecret)
}

// VerifyRefresh validates a token against the refresh secret.
func (ts *TokenService) VerifyRefresh(tokenString string) (*TokenClaims, error) {
	return ts.verify(tokenString, ts.refreshSecret)
}

// verify collapses every failure mode into ErrInvalidToken. The underlying
// cause is logged with enough detail to debug, but callers, and through them
// API clients, only ever see the generic error.
func (ts *TokenService) verify(tokenString string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			ts.logger.Debug("token rejected: expired")
		case errors.Is(err, jwt.ErrTokenMalformed):
			ts.logger.Debug("token rejected: malformed")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			ts.logger.Debug("token rejected: bad signature or algorithm")
		default:
			ts.logger.Debug("token rejected: %v", err)
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token parsed but claims could not be decoded")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessExpiresIn returns the configured access token lifetime in seconds,
// for the expiresIn field of auth responses.
func (ts *TokenService) AccessExpiresIn() int64 {
	return ParseTTL(ts.accessTTL)
}

// ParseTTL converts a "<integer><unit>" duration string into seconds, with
// unit one of s, m, h, d. Any string that does not match the grammar falls
// back to 900 seconds rather than failing.
func ParseTTL(ttl string) int64 {
	if len(ttl) < 2 {
		return defaultTTLSeconds
	}

	value, err := strconv.ParseInt(ttl[:len(ttl)-1], 10, 64)
	if err != nil {
		return defaultTTLSeconds
	}

	switch ttl[len(ttl)-1] {
	case 's':
		return value
	case 'm':
		return value * 60
	case 'h':
		return value * 60 * 60
	case 'd':
		return value * 60 * 60 * 24
	default:
		return defaultTTLSeconds
	}
}

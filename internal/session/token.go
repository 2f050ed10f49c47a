package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken means no session token is stored.
	ErrNoToken = errors.New("session: no token")
	// ErrTokenExpired means the stored token's exp claim has passed.
	ErrTokenExpired = errors.New("session: token expired")
)

// Credentials reads the bearer token from a KV on every call. It satisfies
// api.TokenSource.
type Credentials struct {
	KV  KV
	Now func() time.Time
}

// NewCredentials wraps kv as a token source.
func NewCredentials(kv KV) *Credentials {
	return &Credentials{KV: kv, Now: time.Now}
}

// Token returns the stored token. Tokens that parse as JWTs are checked
// locally for expiry so an expired session is sent to login without a round
// trip; the signature is left to the server. Opaque tokens pass through.
func (c *Credentials) Token() (string, error) {
	if c == nil || c.KV == nil {
		return "", ErrNoToken
	}
	token, ok := c.KV.Get(KeyToken)
	if !ok {
		return "", ErrNoToken
	}
	token = strings.TrimSpace(token)
	if expired(token, c.now()) {
		return "", ErrTokenExpired
	}
	return token, nil
}

// Save stores a freshly issued token.
func (c *Credentials) Save(token string) error {
	return c.KV.Set(KeyToken, strings.TrimSpace(token))
}

// Clear forgets the stored token.
func (c *Credentials) Clear() error {
	return c.KV.Delete(KeyToken)
}

// Expiry returns the exp claim of a JWT token, or false when the token is not
// a JWT or carries no exp.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	if !ok {
		return false
	}
	return !now.Before(exp)
}

func (c *Credentials) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

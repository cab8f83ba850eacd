// Package magiclink issues and verifies the signed, short-lived tokens
// embedded in passwordless login links.
//
// Tokens are self-contained: validity is computed purely from the signature
// and the embedded expiry, no server-side state is consulted or mutated.
// Verification is idempotent; a token verifies repeatedly until it expires.
package magiclink

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSecretRequired is returned when the signing secret is missing.
	ErrSecretRequired = errors.New("magiclink: signing secret is required")

	// ErrTampered is returned when the token signature does not verify.
	ErrTampered = errors.New("magiclink: token signature is invalid")

	// ErrExpired is returned when the token is past its embedded expiry.
	ErrExpired = errors.New("magiclink: token has expired")
)

type clocker interface {
	Now() time.Time
}

// Codec signs and verifies magic-link tokens with a process-wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	clock  clocker
}

type linkClaims struct {
	libJWT.RegisteredClaims
	Destination string `json:"destination"`
}

// NewCodec constructs a Codec. A non-positive ttl falls back to 20 seconds,
// matching the short window a user needs to click a freshly delivered link.
func NewCodec(secret []byte, ttl time.Duration, clock clocker) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrSecretRequired
	}

	if ttl <= 0 {
		ttl = 20 * time.Second
	}

	return &Codec{secret: secret, ttl: ttl, clock: clock}, nil
}

// Issue builds and signs a token carrying the destination claim.
func (c *Codec) Issue(destination string) (string, error) {
	now := c.clock.Now()

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS256, linkClaims{
			RegisteredClaims: libJWT.RegisteredClaims{
				IssuedAt:  libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(c.ttl)),
			},
			Destination: destination,
		}).
		SignedString(c.secret)
}

// Verify checks signature integrity first, then expiry, and returns the
// embedded destination.
func (c *Codec) Verify(token string) (string, error) {
	var claims linkClaims

	parsed, err := libJWT.ParseWithClaims(token, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS256 {
				return nil, ErrTampered
			}
			return c.secret, nil
		},
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS256.Alg()}),
		libJWT.WithTimeFunc(c.clock.Now),
		libJWT.WithExpirationRequired(),
	)

	switch {
	case err == nil && parsed.Valid:
		return claims.Destination, nil
	case errors.Is(err, libJWT.ErrTokenExpired):
		return "", ErrExpired
	default:
		return "", ErrTampered
	}
}

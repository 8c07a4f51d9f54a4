// Package token signs and validates the bearer tokens carried in cookies.
// Access and refresh tokens share one codec, constructed with different
// secret keys and lifetimes so neither key can forge the other kind.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

var (
	// ErrExpired reports a token past its embedded expiry.
	ErrExpired = errors.New("token: expired")
	// ErrInvalid reports a bad signature or malformed payload.
	ErrInvalid = errors.New("token: invalid")
)

// Codec issues and verifies HS256-signed tokens carrying a single subject id.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec constructs a codec for the given signing key and token lifetime.
func NewCodec(key []byte, ttl time.Duration) *Codec {
	return &Codec{key: key, ttl: ttl}
}

// TTL returns the lifetime applied to issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the subject with a fresh expiry.
func (c *Codec) Issue(subject int64) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: c.key},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	now := time.Now().UTC()
	claims := gojwt.Claims{
		Subject:  strconv.FormatInt(subject, 10),
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(c.ttl)),
	}

	raw, err := gojwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return raw, nil
}

// Verify checks the signature and expiry of raw and returns the subject id.
// Failures are always ErrExpired or ErrInvalid.
func (c *Codec) Verify(raw string) (int64, error) {
	parsed, err := gojwt.ParseSigned(raw, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return 0, ErrInvalid
	}

	var claims gojwt.Claims
	if err := parsed.Claims(c.key, &claims); err != nil {
		return 0, ErrInvalid
	}

	if err := claims.Validate(gojwt.Expected{Time: time.Now().UTC()}); err != nil {
		if errors.Is(err, gojwt.ErrExpired) {
			return 0, ErrExpired
		}
		return 0, ErrInvalid
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return subject, nil
}

// Package assertion builds the signed JWT bearer assertions that authenticate token requests.
//
// Every call to Sign produces a fresh, single-use assertion:
//
//	header: {"alg": "RS256", "typ": "JWT", "kid": <key id>}
//	claims: {"iss": <client id>, "sub": <client id>, "jti": <random UUID>, "exp": now+1h, "aud": <token service>}
//
// Assertions are never cached. Signing failures surface as *apierr.AuthenticationError.
package assertion

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AmmannChristian/go-pandago/apierr"
	"github.com/AmmannChristian/go-pandago/config"
)

// Type is the client_assertion_type sent alongside the assertion.
const Type = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

// Lifetime is how long an assertion stays valid after it is issued.
const Lifetime = time.Hour

// Signer creates RS256 assertions from a Config.
type Signer struct {
	now   func() time.Time
	newID func() string
}

// Option is a functional option for configuring Signer.
type Option func(*Signer)

// WithClock overrides the time source used for exp.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// WithIDGenerator overrides the jti generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Signer) {
		s.newID = newID
	}
}

// NewSigner creates a Signer using the wall clock and random UUIDs.
func NewSigner(opts ...Option) *Signer {
	s := &Signer{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign returns a compact serialized assertion for cfg.
func (s *Signer) Sign(cfg *config.Config) (string, error) {
	if cfg == nil {
		return "", apierr.NewAuthenticationError("assertion: config is nil", nil)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKey()))
	if err != nil {
		return "", apierr.NewAuthenticationError("assertion: invalid private key: "+err.Error(), err)
	}

	claims := jwt.MapClaims{
		"iss": cfg.ClientID(),
		"sub": cfg.ClientID(),
		"jti": s.newID(),
		"exp": s.now().Add(Lifetime).Unix(),
		"aud": cfg.Audience(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = cfg.KeyID()

	signed, err := token.SignedString(key)
	if err != nil {
		return "", apierr.NewAuthenticationError("assertion: signing failed: "+err.Error(), err)
	}

	return signed, nil
}

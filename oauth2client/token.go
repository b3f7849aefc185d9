package oauth2client

import "time"

// DefaultExpiryThreshold is how long before its literal expiry a cached token stops being used.
const DefaultExpiryThreshold = time.Minute

// Token is an access token together with its absolute expiry. Tokens are replaced on refresh,
// never mutated.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// NewToken creates a token issued at issuedAt that lives for expiresIn.
func NewToken(accessToken string, expiresIn time.Duration, issuedAt time.Time) Token {
	return Token{
		AccessToken: accessToken,
		ExpiresAt:   issuedAt.Add(expiresIn),
	}
}

// ExpiredAt reports whether the token must be considered expired at now when it is retired
// threshold before its literal expiry.
func (t Token) ExpiredAt(now time.Time, threshold time.Duration) bool {
	return !now.Add(threshold).Before(t.ExpiresAt)
}

package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// TokenSource provides bearer credentials. *oauth2client.TokenManager satisfies it.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Invalidator is implemented by token sources that can drop their cached credential.
type Invalidator interface {
	Invalidate()
}

// OAuth2Transport is an http.RoundTripper that adds pandago bearer tokens to outgoing requests.
//
// It wraps an existing transport (typically http.DefaultTransport) and injects the
// Authorization header before each request. When the API answers 401 and the token source
// implements Invalidator, the cached token is dropped so the next request re-authenticates.
type OAuth2Transport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Tokens provides access tokens.
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper interface.
// The token fetch respects the request context's cancellation and deadline.
func (t *OAuth2Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Tokens == nil {
		return nil, errors.New("httpclient: token source is nil")
	}

	token, err := t.Tokens.AccessToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("httpclient: failed to get token: %w", err)
	}

	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(reqClone)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if inv, ok := t.Tokens.(Invalidator); ok {
			inv.Invalidate()
		}
	}

	return resp, nil
}

// NewOAuth2Transport creates a new OAuth2Transport with the given token source.
// The base transport defaults to http.DefaultTransport if not specified.
func NewOAuth2Transport(tokens TokenSource, base http.RoundTripper) *OAuth2Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &OAuth2Transport{
		Base:   base,
		Tokens: tokens,
	}
}

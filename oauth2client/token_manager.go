package oauth2client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/AmmannChristian/go-pandago/apierr"
	"github.com/AmmannChristian/go-pandago/assertion"
	"github.com/AmmannChristian/go-pandago/config"
)

const (
	refreshKey             = "token"
	unknownErrorReason     = "Unknown error"
	invalidResponseReason  = "invalid token response"
	expiresInExtraKey      = "expires_in"
	errorDescriptionKey    = "error_description"
	clientAssertionTypeKey = "client_assertion_type"
	clientAssertionKey     = "client_assertion"
)

// TokenManager acquires access tokens with the client-credentials grant authenticated by a
// signed JWT assertion, and caches the current token until it is about to expire.
// It is safe for concurrent use; at most one refresh is in flight per manager.
type TokenManager struct {
	cfg        *config.Config
	signer     *assertion.Signer
	httpClient *http.Client

	mu    sync.RWMutex
	token *Token

	group        singleflight.Group
	expiryLeeway time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// Option is a functional option for configuring TokenManager.
type Option func(*TokenManager)

// WithLogger sets the logger used for refresh events and authentication failures.
// If not set, no logging will occur.
func WithLogger(logger *zap.Logger) Option {
	return func(tm *TokenManager) {
		if logger != nil {
			tm.logger = logger
		}
	}
}

// WithHTTPClient sets the transport used for token requests.
// Defaults to an http.Client bounded by the configured timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(tm *TokenManager) {
		if client != nil {
			tm.httpClient = client
		}
	}
}

// WithExpiryLeeway sets how long before expiry a cached token is refreshed.
// Defaults to DefaultExpiryThreshold.
func WithExpiryLeeway(leeway time.Duration) Option {
	return func(tm *TokenManager) {
		tm.expiryLeeway = leeway
	}
}

// WithSigner replaces the assertion signer.
func WithSigner(signer *assertion.Signer) Option {
	return func(tm *TokenManager) {
		if signer != nil {
			tm.signer = signer
		}
	}
}

// WithClock overrides the time source used for expiry bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager creates a token manager for cfg.
//
// Parameters:
//   - cfg: SDK configuration providing credentials, scope and the token endpoint
//   - opts: Optional configuration options (WithLogger, WithHTTPClient, WithExpiryLeeway, ...)
func NewTokenManager(cfg *config.Config, opts ...Option) (*TokenManager, error) {
	if cfg == nil {
		return nil, apierr.NewConfigurationError("", "token manager requires a config", nil)
	}

	tm := &TokenManager{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout()},
		expiryLeeway: DefaultExpiryThreshold,
		logger:       zap.NewNop(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(tm)
	}

	if tm.signer == nil {
		tm.signer = assertion.NewSigner(assertion.WithClock(tm.now))
	}

	return tm, nil
}

// Token returns a valid token, refreshing it when the cached one is missing or expires within
// the leeway. Concurrent callers share one refresh. The refresh is bounded by the configured
// timeout and is not aborted when a single caller's ctx ends; that caller returns ctx.Err().
//
// Failures are returned as *apierr.AuthenticationError.
func (tm *TokenManager) Token(ctx context.Context) (Token, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if tok, ok := tm.cached(); ok {
		return tok, nil
	}

	ch := tm.group.DoChan(refreshKey, func() (any, error) {
		return tm.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		return res.Val.(Token), nil
	case <-ctx.Done():
		return Token{}, ctx.Err()
	}
}

// AccessToken returns the bearer credential of a valid token.
func (tm *TokenManager) AccessToken(ctx context.Context) (string, error) {
	tok, err := tm.Token(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next call re-authenticates.
// Call this after receiving a 401 Unauthorized response.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = nil
}

// CachedToken returns the cached token, if any, regardless of its expiry.
func (tm *TokenManager) CachedToken() (Token, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if tm.token == nil {
		return Token{}, false
	}
	return *tm.token, true
}

// cached returns the cached token when it is still usable.
func (tm *TokenManager) cached() (Token, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if tm.token == nil || tm.token.ExpiredAt(tm.now(), tm.expiryLeeway) {
		return Token{}, false
	}
	return *tm.token, true
}

func (tm *TokenManager) refresh(ctx context.Context) (Token, error) {
	// Double-check: a refresh that finished just before this flight started already installed a token.
	if tok, ok := tm.cached(); ok {
		return tok, nil
	}

	ctx, cancel := context.WithTimeout(ctx, tm.cfg.Timeout())
	defer cancel()

	tok, err := tm.requestToken(ctx)
	if err != nil {
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		tm.logger.Error("oauth2: authentication failed",
			zap.String("error_type", fmt.Sprintf("%T", cause)),
			zap.String("error", err.Error()),
		)
		return Token{}, err
	}

	tm.mu.Lock()
	tm.token = &tok
	tm.mu.Unlock()

	tm.logger.Debug("oauth2: obtained new access token",
		zap.Time("expires_at", tok.ExpiresAt),
	)

	return tok, nil
}

// requestToken exchanges a fresh assertion for a token. Every failure is an *apierr.AuthenticationError.
func (tm *TokenManager) requestToken(ctx context.Context) (Token, error) {
	signed, err := tm.signer.Sign(tm.cfg)
	if err != nil {
		var authErr *apierr.AuthenticationError
		if errors.As(err, &authErr) {
			return Token{}, authErr
		}
		return Token{}, apierr.NewAuthenticationError(err.Error(), err)
	}

	cc := &clientcredentials.Config{
		ClientID: tm.cfg.ClientID(),
		TokenURL: tm.cfg.AuthURL(),
		Scopes:   strings.Fields(tm.cfg.Scope()),
		EndpointParams: url.Values{
			clientAssertionTypeKey: {assertion.Type},
			clientAssertionKey:     {signed},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}

	httpClient, rec := tm.recordingClient()
	issuedAt := tm.now()
	ot, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, httpClient))
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			reason := rErr.ErrorDescription
			if reason == "" {
				reason = unknownErrorReason
			}
			return Token{}, apierr.NewAuthenticationError(reason, err)
		}
		// A 200 whose body could not be turned into a token.
		if rec.status == http.StatusOK {
			return Token{}, apierr.NewAuthenticationError(invalidResponseReason, err)
		}
		return Token{}, apierr.NewAuthenticationError(err.Error(), err)
	}

	// x/oauth2 accepts any 2xx; the token service only succeeds with 200.
	if rec.status != http.StatusOK {
		reason, _ := ot.Extra(errorDescriptionKey).(string)
		if reason == "" {
			reason = unknownErrorReason
		}
		return Token{}, apierr.NewAuthenticationError(reason, fmt.Errorf("oauth2: token endpoint returned status %d", rec.status))
	}

	expiresIn, ok := expiresInSeconds(ot)
	if ot.AccessToken == "" || !ok || expiresIn <= 0 {
		return Token{}, apierr.NewAuthenticationError(invalidResponseReason, nil)
	}

	return NewToken(ot.AccessToken, time.Duration(expiresIn)*time.Second, issuedAt), nil
}

// statusRecorder remembers the status code of the token endpoint response.
type statusRecorder struct {
	base   http.RoundTripper
	status int
}

func (r *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req)
	if resp != nil {
		r.status = resp.StatusCode
	}
	return resp, err
}

// recordingClient returns a copy of the manager's HTTP client whose transport records the
// response status of a single token exchange.
func (tm *TokenManager) recordingClient() (*http.Client, *statusRecorder) {
	base := tm.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	rec := &statusRecorder{base: base}
	hc := *tm.httpClient
	hc.Transport = rec
	return &hc, rec
}

// expiresInSeconds reads expires_in from the raw token response, which carries a JSON number
// or, for form-encoded responses, a string.
func expiresInSeconds(ot *oauth2.Token) (int64, bool) {
	switch v := ot.Extra(expiresInExtraKey).(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

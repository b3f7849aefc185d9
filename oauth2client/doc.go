// Package oauth2client acquires and caches pandago access tokens.
//
// TokenManager performs the OAuth2 client-credentials grant authenticated by a signed JWT
// assertion (RFC 7523): every refresh signs a fresh assertion and posts it form-encoded to the
// configured token endpoint together with the scope. The resulting token is cached and reused
// until it is within the expiry leeway (one minute by default) of its expiry.
//
// # Features
//
//   - Client-credentials flow with JWT-bearer client assertions
//   - Single-flight refresh: concurrent callers share one in-flight token request
//   - Context-aware token fetching with cancellation support
//   - Invalidate to force re-authentication after a 401
//   - gRPC unary and stream client interceptors that inject Bearer tokens into calls to
//     in-house gRPC gateways (the pandago API itself is HTTP only)
//   - Structured logging of authentication failures via zap (WithLogger)
//
// # Quick Start
//
//	tm, err := oauth2client.NewTokenManager(cfg, oauth2client.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tok, err := tm.Token(ctx)
//	if err != nil {
//	    log.Fatal(err) // *apierr.AuthenticationError
//	}
//	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
//
// # Errors
//
// Signing failures, transport failures, non-200 responses and malformed token payloads are all
// reported as *apierr.AuthenticationError. Only HTTP 200 counts as success; other 2xx codes are
// rejected like any error status. For non-200 responses the reason is the
// error_description returned by the token service ("Unknown error" when absent); the original
// error stays reachable through errors.Unwrap.
package oauth2client

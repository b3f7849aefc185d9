// Package httpclient offers HTTP client construction helpers with pandago bearer authentication and TLS/mTLS options.
//
// It provides a fluent Builder that can create an http.Client with automatic Bearer token injection from any
// TokenSource (normally an oauth2client.TokenManager), configurable TLS (custom CA, mTLS, insecure for tests),
// timeouts, base transports, and redirect handling. OAuth2Transport can wrap any RoundTripper.
//
// # Features
//
//   - Fluent builder for http.Client with optional token injection
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Timeout taken from config.Config or set explicitly
//   - Cached tokens are invalidated when the API answers 401
//
// # Quick Start
//
//	tm, err := oauth2client.NewTokenManager(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := httpclient.NewBuilder().
//	    WithConfig(cfg).
//	    WithTokenSource(tm).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get(cfg.APIBaseURL() + "/outletList")
//
// # Manual Transport Wrapping
//
//	transport := httpclient.NewOAuth2Transport(tm, nil)
//	client := &http.Client{Transport: transport}
package httpclient

// Package testutil provides test helpers for go-pandago packages.
//
// It includes an in-memory token endpoint that records requests without opening sockets,
// RSA key material in PEM form for assertion signing, a JWKS server for verifying signed
// assertions, and IPv4-only local HTTP servers (avoiding IPv6 in sandboxes).
//
// # Utilities
//
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - NewMockTokenServer and JSONResponse: stub the token endpoint and capture form posts
//   - GenerateRSAKey: RSA key pair plus PKCS#1 or PKCS#8 PEM encodings
//   - NewJWKSServer: serve a public key as a JWKS document
//   - NewLocalHTTPServer: start httptest server bound to 127.0.0.1
package testutil

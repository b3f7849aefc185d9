package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// DefaultTokenResponse is served by NewMockTokenServer when no handler is given.
const DefaultTokenResponse = `{
	"access_token": "mock-access-token",
	"token_type": "Bearer",
	"expires_in": 3600
}`

// NewLocalHTTPServer starts an HTTP server bound to IPv4 loopback only.
// The sandbox blocks IPv6 listeners, so force tcp4 to keep tests runnable.
func NewLocalHTTPServer(tb testing.TB, handler http.Handler) *httptest.Server {
	tb.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to create IPv4 listener: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()
	tb.Cleanup(server.Close)

	return server
}

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// JSONResponse builds a response with the given status and raw JSON body.
func JSONResponse(req *http.Request, status int, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

// StaticJSONResponse returns a RoundTripper that always responds with the provided JSON body.
func StaticJSONResponse(status int, body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return JSONResponse(req, status, body), nil
	}
}

// TokenRequest is a recorded call to the mock token endpoint.
type TokenRequest struct {
	Method      string
	URL         string
	ContentType string
	Form        url.Values
}

// MockTokenServer simulates the token endpoint without real sockets.
// It records requests and serves responses through a custom RoundTripper.
type MockTokenServer struct {
	URL string

	mu       sync.Mutex
	requests []TokenRequest
	calls    atomic.Int32
	client   *http.Client
}

// NewMockTokenServer builds a mock token endpoint backed by an in-memory RoundTripper.
// If handler is nil, it returns DefaultTokenResponse.
func NewMockTokenServer(tb testing.TB, handler RoundTripFunc) *MockTokenServer {
	tb.Helper()

	server := &MockTokenServer{
		URL: "https://mock-sts.example.com/oauth2/token",
	}

	if handler == nil {
		handler = StaticJSONResponse(http.StatusOK, DefaultTokenResponse)
	}

	rt := RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		server.calls.Add(1)

		recorded := TokenRequest{
			Method:      req.Method,
			URL:         req.URL.String(),
			ContentType: req.Header.Get("Content-Type"),
		}
		if req.Body != nil {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			recorded.Form, _ = url.ParseQuery(string(body))
			req.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		server.mu.Lock()
		server.requests = append(server.requests, recorded)
		server.mu.Unlock()

		return handler(req)
	})

	server.client = &http.Client{Transport: rt}

	return server
}

// Client returns an HTTP client whose requests are served by the mock.
func (m *MockTokenServer) Client() *http.Client { return m.client }

// Calls returns how many requests reached the mock.
func (m *MockTokenServer) Calls() int { return int(m.calls.Load()) }

// Requests returns a copy of the recorded requests.
func (m *MockTokenServer) Requests() []TokenRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TokenRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// TestKey holds an RSA key pair and its PEM encodings.
type TestKey struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
	PKCS1PEM   string
	PKCS8PEM   string
}

// GenerateRSAKey generates a new 2048-bit RSA key for testing.
func GenerateRSAKey(tb testing.TB) *TestKey {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate RSA key pair: %v", err)
	}

	pkcs8, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		tb.Fatalf("failed to marshal PKCS#8 key: %v", err)
	}

	return &TestKey{
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
		PKCS1PEM: string(pem.EncodeToMemory(&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
		})),
		PKCS8PEM: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})),
	}
}

// NewJWKSServer serves publicKey under kid as a JWKS document.
func NewJWKSServer(tb testing.TB, publicKey *rsa.PublicKey, kid string) *httptest.Server {
	tb.Helper()

	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   encodeBase64URL(publicKey.N.Bytes()),
				"e":   encodeBase64URL(big.NewInt(int64(publicKey.E)).Bytes()),
			},
		},
	}

	return NewLocalHTTPServer(tb, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(jwks); err != nil {
			tb.Errorf("failed to encode JWKS: %v", err)
		}
	}))
}

// encodeBase64URL encodes bytes to base64url (without padding) as used in JWK documents.
func encodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

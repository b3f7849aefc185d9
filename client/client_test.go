package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AmmannChristian/go-pandago/apierr"
	"github.com/AmmannChristian/go-pandago/config"
	"github.com/AmmannChristian/go-pandago/internal/testutil"
)

type fakeTokens struct {
	token       string
	err         error
	calls       atomic.Int32
	invalidated atomic.Int32
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func (f *fakeTokens) Invalidate() { f.invalidated.Add(1) }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.New(config.Options{
		ClientID:   "client",
		KeyID:      "kid",
		Scope:      "pandago.api.sg.*",
		PrivateKey: "key",
	})
	require.NoError(t, err)
	return cfg
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *fakeTokens) {
	t.Helper()

	server := testutil.NewLocalHTTPServer(t, handler)
	tokens := &fakeTokens{token: "tok-1"}

	opts = append([]Option{WithBaseURL(server.URL + "/sg/api/v1"), WithHTTPClient(server.Client())}, opts...)
	c, err := New(testConfig(t), tokens, opts...)
	require.NoError(t, err)
	return c, tokens
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)

	c, err := New(cfg, &fakeTokens{})
	require.NoError(t, err)
	assert.Equal(t, "https://pandago-api-sandbox.deliveryhero.io/sg/api/v1", c.BaseURL())

	httpClient, ok := c.http.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, cfg.Timeout(), httpClient.Timeout)

	c, err = New(cfg, &fakeTokens{}, WithBaseURL("http://localhost:8080/"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestNew_MissingCollaborators(t *testing.T) {
	_, err := New(nil, &fakeTokens{})
	assert.ErrorIs(t, err, apierr.ErrConfiguration)

	_, err = New(testConfig(t), nil)
	assert.ErrorIs(t, err, apierr.ErrConfiguration)
}

func TestClient_Do_AttachesBearerAndBody(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sg/api/v1/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "go-pandago", r.Header.Get("User-Agent"))
		assert.Equal(t, "trace-1", r.Header.Get("X-Request-Id"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ref-1", payload["client_order_id"])

		writeJSON(w, http.StatusCreated, `{"order_id":"o-1","status":"NEW"}`)
	})

	got, err := c.Do(context.Background(), "post", "/orders", &RequestOptions{
		Query:   url.Values{"page": {"1"}},
		JSON:    map[string]any{"client_order_id": "ref-1"},
		Headers: http.Header{"X-Request-Id": {"trace-1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"order_id": "o-1", "status": "NEW"}, got)
	assert.EqualValues(t, 1, tokens.calls.Load())
}

func TestClient_Do_FormBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "MISTAKE_ERROR", r.PostForm.Get("reason"))
		w.WriteHeader(http.StatusNoContent)
	})

	got, err := c.Do(context.Background(), http.MethodPut, "outlets/v-1", &RequestOptions{
		Form: url.Values{"reason": {"MISTAKE_ERROR"}},
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_Do_RejectsJSONAndForm(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})

	_, err := c.Do(context.Background(), http.MethodPost, "/orders", &RequestOptions{
		JSON: map[string]any{},
		Form: url.Values{},
	})

	var reqErr *apierr.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, reqErr.StatusCode())
}

func TestClient_Do_TokenFailurePropagates(t *testing.T) {
	server := testutil.NewLocalHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent without a token")
	}))
	authErr := apierr.NewAuthenticationError("Unknown error", nil)

	c, err := New(testConfig(t), &fakeTokens{err: authErr}, WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodGet, "/orders/x", nil)
	assert.Same(t, authErr, err)
	assert.Equal(t, apierr.KindAuthentication, apierr.KindOf(err))
}

func TestClient_Do_RequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantData    map[string]any
	}{
		{
			name:        "message payload",
			status:      http.StatusNotFound,
			body:        `{"message":"Order not found"}`,
			wantMessage: "Order not found (Not Found)",
			wantData:    map[string]any{"message": "Order not found"},
		},
		{
			name:        "errors array",
			status:      http.StatusUnprocessableEntity,
			body:        `{"errors":[{"message":"invalid phone"}]}`,
			wantMessage: "invalid phone (Unprocessable Entity)",
			wantData:    map[string]any{"errors": []any{map[string]any{"message": "invalid phone"}}},
		},
		{
			name:        "non json body",
			status:      http.StatusBadGateway,
			body:        `upstream timeout`,
			wantMessage: "Unknown error occurred",
			wantData:    map[string]any{"raw": "upstream timeout"},
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			wantMessage: "Unknown error occurred (Service Unavailable)",
			wantData:    map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}, WithLogger(zap.New(core)))

			opts := &RequestOptions{Query: url.Values{"q": {"1"}}}
			_, err := c.Do(context.Background(), http.MethodGet, "/orders/x", opts)

			var reqErr *apierr.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.ErrorIs(t, err, apierr.ErrRequest)
			assert.Equal(t, tt.status, reqErr.StatusCode())
			assert.Equal(t, tt.wantMessage, reqErr.RawMessage())
			assert.Equal(t, "[GET /orders/x] "+tt.wantMessage, reqErr.Message())
			assert.Equal(t, tt.wantData, reqErr.ResponseData())
			assert.Equal(t, http.MethodGet, reqErr.Method())
			assert.Equal(t, "/orders/x", reqErr.Endpoint())
			assert.Same(t, opts, reqErr.Options())
			assert.Zero(t, tokens.invalidated.Load())

			entries := logs.FilterMessage("pandago: request rejected").All()
			require.Len(t, entries, 1)
			assert.EqualValues(t, tt.status, entries[0].ContextMap()["status"])
		})
	}
}

func TestClient_Do_NotFoundDiagnostics(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"no such order"}`)
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/orders/x", nil)
	require.Error(t, err)

	detailed := apierr.Describe(err)
	assert.Contains(t, detailed, "Error 404:")
	assert.Contains(t, detailed, "Request: GET /orders/x")
	assert.Contains(t, detailed, apierr.Suggestion(http.StatusNotFound))
}

func TestClient_Do_UnauthorizedInvalidatesToken(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"access token is expired"}`)
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/outletList", nil)

	var reqErr *apierr.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode())
	assert.EqualValues(t, 1, tokens.invalidated.Load())
}

func TestClient_Do_NetworkFailure(t *testing.T) {
	netErr := errors.New("connection reset by peer")
	doer := &http.Client{Transport: testutil.RoundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, netErr
	})}

	c, err := New(testConfig(t), &fakeTokens{token: "tok"}, WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodDelete, "/orders/x", nil)

	var reqErr *apierr.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, reqErr.StatusCode())
	assert.ErrorIs(t, err, netErr)
	assert.Equal(t, http.MethodDelete, reqErr.Method())
}

func TestClient_Do_InvalidJSONIsUnexpectedFormat(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"broken":`)
	})

	_, err := c.Do(context.Background(), http.MethodGet, "/orders/x", nil)
	assert.ErrorIs(t, err, apierr.ErrUnexpectedFormat)
}

func TestClient_DoJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"order_id":"o-1","delivery_fee":4.5}`)
	})

	var out struct {
		OrderID     string  `json:"order_id"`
		DeliveryFee float64 `json:"delivery_fee"`
	}
	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "/orders/o-1", nil, &out))
	assert.Equal(t, "o-1", out.OrderID)
	assert.InDelta(t, 4.5, out.DeliveryFee, 1e-9)

	var wrong []string
	err := c.DoJSON(context.Background(), http.MethodGet, "/orders/o-1", nil, &wrong)
	assert.ErrorIs(t, err, apierr.ErrUnexpectedFormat)
}

func TestClient_DoString(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "json string", body: `"aGVsbG8="`, want: "aGVsbG8="},
		{name: "raw text", body: `aGVsbG8=`, want: "aGVsbG8="},
		{name: "data envelope", body: `{"data":"aGVsbG8="}`, want: "aGVsbG8="},
		{name: "object without data", body: `{"image":"x"}`, wantErr: true},
		{name: "non string data", body: `{"data":{"url":"x"}}`, wantErr: true},
		{name: "array", body: `["x"]`, wantErr: true},
		{name: "number", body: `42`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, tt.body)
			})

			got, err := c.DoString(context.Background(), http.MethodGet, "/orders/proof_of_delivery/o-1", nil)
			if tt.wantErr {
				var formatErr *apierr.UnexpectedFormatError
				require.ErrorAs(t, err, &formatErr)
				assert.Equal(t, apierr.KindUnexpectedFormat, apierr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_DoString_RequestError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"proof of delivery not found"}`)
	})

	_, err := c.DoString(context.Background(), http.MethodGet, "/orders/proof_of_delivery/o-1", nil)
	assert.ErrorIs(t, err, apierr.ErrRequest)
}

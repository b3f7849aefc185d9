package outlets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmmannChristian/go-pandago/apierr"
	"github.com/AmmannChristian/go-pandago/client"
)

// fakeAPI records calls and replays a canned response.
type fakeAPI struct {
	method   string
	endpoint string
	opts     *client.RequestOptions
	respond  func(out any) error
	calls    int
}

func (f *fakeAPI) DoJSON(_ context.Context, method, endpoint string, opts *client.RequestOptions, out any) error {
	f.calls++
	f.method, f.endpoint, f.opts = method, endpoint, opts
	if f.respond != nil {
		return f.respond(out)
	}
	return nil
}

func validOutlet() *Outlet {
	return &Outlet{
		Name:        "Central Kitchen",
		Address:     "1 Raffles Place",
		City:        "Singapore",
		Latitude:    1.284,
		Longitude:   103.851,
		PhoneNumber: "+6561234567",
		Currency:    "SGD",
		Locale:      "en-SG",
		AddUsers:    []string{"ops@example.com"},
	}
}

func TestService_Get(t *testing.T) {
	api := &fakeAPI{respond: func(out any) error {
		*out.(*Outlet) = Outlet{ClientVendorID: "v 1", Name: "Central Kitchen"}
		return nil
	}}

	outlet, err := NewService(api).Get(context.Background(), "v 1")
	require.NoError(t, err)
	assert.Equal(t, "Central Kitchen", outlet.Name)
	assert.Equal(t, "GET", api.method)
	assert.Equal(t, "/outlets/v%201", api.endpoint)
}

func TestService_Get_OutletNotFound(t *testing.T) {
	notFound := apierr.NewRequestError(apierr.RequestParams{
		Message:    apierr.ParseErrorMessage(map[string]any{"message": "Outlet not found"}, 404),
		StatusCode: 404,
		Method:     "GET",
		Endpoint:   "/outlets/v-1",
	})
	api := &fakeAPI{respond: func(any) error { return notFound }}

	_, err := NewService(api).Get(context.Background(), "v-1")
	require.True(t, errors.Is(err, apierr.ErrRequest))
	assert.Contains(t, apierr.Describe(err), apierr.MessageTip("outlet not found"))
}

func TestService_Get_EmptyID(t *testing.T) {
	api := &fakeAPI{}

	_, err := NewService(api).Get(context.Background(), "")
	assert.ErrorIs(t, err, apierr.ErrRequest)
	assert.Zero(t, api.calls)
}

func TestService_Upsert(t *testing.T) {
	api := &fakeAPI{respond: func(out any) error {
		*out.(*Outlet) = Outlet{ClientVendorID: "v-1", Name: "Central Kitchen"}
		return nil
	}}
	outlet := validOutlet()

	saved, err := NewService(api).Upsert(context.Background(), "v-1", outlet)
	require.NoError(t, err)
	assert.Equal(t, "v-1", saved.ClientVendorID)
	assert.Equal(t, "PUT", api.method)
	assert.Equal(t, "/outlets/v-1", api.endpoint)
	require.NotNil(t, api.opts)
	assert.Same(t, outlet, api.opts.JSON)
}

func TestService_Upsert_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Outlet)
		wantMsg string
	}{
		{"missing name", func(o *Outlet) { o.Name = "" }, "validation failed: name is required"},
		{"bad currency", func(o *Outlet) { o.Currency = "SG" }, "validation failed: currency must be 3 characters long"},
		{"bad phone", func(o *Outlet) { o.PhoneNumber = "abc" }, "validation failed: phone_number must be a valid phone number"},
		{"bad latitude", func(o *Outlet) { o.Latitude = 91 }, "validation failed: latitude must be a valid latitude"},
		{"bad user email", func(o *Outlet) { o.AddUsers = []string{"nope"} }, `validation failed: add_user[0] failed "email" validation`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			outlet := validOutlet()
			tt.mutate(outlet)

			_, err := NewService(api).Upsert(context.Background(), "v-1", outlet)

			var reqErr *apierr.RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.wantMsg, reqErr.RawMessage())
			assert.Zero(t, api.calls)
		})
	}
}

func TestService_List(t *testing.T) {
	api := &fakeAPI{respond: func(out any) error {
		*out.(*[]Outlet) = []Outlet{{ClientVendorID: "a"}, {ClientVendorID: "b"}}
		return nil
	}}

	outlets, err := NewService(api).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, outlets, 2)
	assert.Equal(t, "/outletList", api.endpoint)
}

func TestService_List_Error(t *testing.T) {
	authErr := apierr.NewAuthenticationError("Unknown error", nil)
	api := &fakeAPI{respond: func(any) error { return authErr }}

	_, err := NewService(api).List(context.Background())
	assert.ErrorIs(t, err, apierr.ErrAuthentication)
}

// Package outlets wraps the pandago outlet endpoints. An outlet is a pickup location registered
// under a client vendor ID; orders can reference it instead of a full sender address.
package outlets

import (
	"context"
	"net/http"
	"net/url"

	"github.com/AmmannChristian/go-pandago/client"
	"github.com/AmmannChristian/go-pandago/internal/validator"
)

const (
	basePath = "/outlets"
	listPath = "/outletList"
)

// Outlet is a pickup location.
type Outlet struct {
	ClientVendorID    string   `json:"client_vendor_id,omitempty"`
	Name              string   `json:"name" validate:"required"`
	Address           string   `json:"address" validate:"required"`
	Street            string   `json:"street,omitempty"`
	StreetNumber      string   `json:"street_number,omitempty"`
	Building          string   `json:"building,omitempty"`
	District          string   `json:"district,omitempty"`
	PostalCode        string   `json:"postal_code,omitempty"`
	City              string   `json:"city" validate:"required"`
	Latitude          float64  `json:"latitude" validate:"latitude"`
	Longitude         float64  `json:"longitude" validate:"longitude"`
	PhoneNumber       string   `json:"phone_number" validate:"required,phone"`
	Currency          string   `json:"currency" validate:"required,len=3"`
	Locale            string   `json:"locale" validate:"required"`
	Description       string   `json:"description,omitempty"`
	RiderInstructions string   `json:"rider_instructions,omitempty"`
	AddUsers          []string `json:"add_user,omitempty" validate:"omitempty,dive,email"`
	DeleteUsers       []string `json:"delete_user,omitempty" validate:"omitempty,dive,email"`
	Users             []string `json:"users,omitempty"`
}

// Requester is the part of *client.Client the service needs.
type Requester interface {
	DoJSON(ctx context.Context, method, endpoint string, opts *client.RequestOptions, out any) error
}

// Service wraps the outlet endpoints.
type Service struct {
	api Requester
}

// NewService returns an outlet service backed by api.
func NewService(api Requester) *Service {
	return &Service{api: api}
}

// Get fetches the outlet registered under clientVendorID.
func (s *Service) Get(ctx context.Context, clientVendorID string) (*Outlet, error) {
	endpoint := outletPath(clientVendorID)
	if err := validator.Required(http.MethodGet, endpoint, "client_vendor_id", clientVendorID); err != nil {
		return nil, err
	}

	var outlet Outlet
	if err := s.api.DoJSON(ctx, http.MethodGet, endpoint, nil, &outlet); err != nil {
		return nil, err
	}
	return &outlet, nil
}

// Upsert creates or replaces the outlet registered under clientVendorID.
func (s *Service) Upsert(ctx context.Context, clientVendorID string, outlet *Outlet) (*Outlet, error) {
	endpoint := outletPath(clientVendorID)
	if err := validator.Required(http.MethodPut, endpoint, "client_vendor_id", clientVendorID); err != nil {
		return nil, err
	}
	if err := validator.Check(http.MethodPut, endpoint, outlet); err != nil {
		return nil, err
	}

	var saved Outlet
	if err := s.api.DoJSON(ctx, http.MethodPut, endpoint, &client.RequestOptions{JSON: outlet}, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// List returns every outlet of the client.
func (s *Service) List(ctx context.Context) ([]Outlet, error) {
	var outlets []Outlet
	if err := s.api.DoJSON(ctx, http.MethodGet, listPath, nil, &outlets); err != nil {
		return nil, err
	}
	return outlets, nil
}

func outletPath(clientVendorID string) string {
	return basePath + "/" + url.PathEscape(clientVendorID)
}

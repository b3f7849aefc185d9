package orders

import (
	"context"
	"net/http"
	"net/url"

	"github.com/AmmannChristian/go-pandago/client"
	"github.com/AmmannChristian/go-pandago/internal/validator"
)

const basePath = "/orders"

// Requester is the part of *client.Client the service needs.
type Requester interface {
	DoJSON(ctx context.Context, method, endpoint string, opts *client.RequestOptions, out any) error
	DoString(ctx context.Context, method, endpoint string, opts *client.RequestOptions) (string, error)
}

// Service wraps the order endpoints.
type Service struct {
	api Requester
}

// NewService returns an order service backed by api.
func NewService(api Requester) *Service {
	return &Service{api: api}
}

// Create submits a new order.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Order, error) {
	if err := validator.Check(http.MethodPost, basePath, req); err != nil {
		return nil, err
	}

	var order Order
	if err := s.api.DoJSON(ctx, http.MethodPost, basePath, &client.RequestOptions{JSON: req}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Get fetches an order by its pandago ID.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	endpoint := orderPath(orderID)
	if err := validator.Required(http.MethodGet, endpoint, "order_id", orderID); err != nil {
		return nil, err
	}

	var order Order
	if err := s.api.DoJSON(ctx, http.MethodGet, endpoint, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Update changes an order that has not been assigned to a rider yet.
func (s *Service) Update(ctx context.Context, orderID string, req *UpdateRequest) (*Order, error) {
	endpoint := orderPath(orderID)
	if err := validator.Required(http.MethodPut, endpoint, "order_id", orderID); err != nil {
		return nil, err
	}
	if err := validator.Check(http.MethodPut, endpoint, req); err != nil {
		return nil, err
	}

	var order Order
	if err := s.api.DoJSON(ctx, http.MethodPut, endpoint, &client.RequestOptions{JSON: req}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel cancels an order. The API answers with an empty body on success.
func (s *Service) Cancel(ctx context.Context, orderID string, reason CancelReason) error {
	endpoint := orderPath(orderID)
	if err := validator.Required(http.MethodDelete, endpoint, "order_id", orderID); err != nil {
		return err
	}

	req := &CancelRequest{Reason: reason}
	if err := validator.Check(http.MethodDelete, endpoint, req); err != nil {
		return err
	}

	return s.api.DoJSON(ctx, http.MethodDelete, endpoint, &client.RequestOptions{JSON: req}, nil)
}

// Coordinates returns the rider's last known position.
func (s *Service) Coordinates(ctx context.Context, orderID string) (*Coordinates, error) {
	endpoint := orderPath(orderID) + "/coordinates"
	if err := validator.Required(http.MethodGet, endpoint, "order_id", orderID); err != nil {
		return nil, err
	}

	var coords Coordinates
	if err := s.api.DoJSON(ctx, http.MethodGet, endpoint, nil, &coords); err != nil {
		return nil, err
	}
	return &coords, nil
}

// ProofOfDelivery returns the base64-encoded proof-of-delivery image.
func (s *Service) ProofOfDelivery(ctx context.Context, orderID string) (string, error) {
	endpoint := basePath + "/proof_of_delivery/" + url.PathEscape(orderID)
	if err := validator.Required(http.MethodGet, endpoint, "order_id", orderID); err != nil {
		return "", err
	}

	return s.api.DoString(ctx, http.MethodGet, endpoint, nil)
}

// EstimateFee quotes the delivery fee for req without creating an order.
func (s *Service) EstimateFee(ctx context.Context, req *CreateRequest) (*FeeEstimate, error) {
	endpoint := basePath + "/fee"
	if err := validator.Check(http.MethodPost, endpoint, req); err != nil {
		return nil, err
	}

	var fee FeeEstimate
	if err := s.api.DoJSON(ctx, http.MethodPost, endpoint, &client.RequestOptions{JSON: req}, &fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

// EstimateTime quotes pickup and delivery times for req without creating an order.
func (s *Service) EstimateTime(ctx context.Context, req *CreateRequest) (*TimeEstimate, error) {
	endpoint := basePath + "/time"
	if err := validator.Check(http.MethodPost, endpoint, req); err != nil {
		return nil, err
	}

	var estimate TimeEstimate
	if err := s.api.DoJSON(ctx, http.MethodPost, endpoint, &client.RequestOptions{JSON: req}, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

func orderPath(orderID string) string {
	return basePath + "/" + url.PathEscape(orderID)
}

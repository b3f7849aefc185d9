package orders

// PaymentMethod is how the recipient pays for the order.
type PaymentMethod string

const (
	PaymentPaid           PaymentMethod = "PAID"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// CancelReason is the reason given when cancelling an order.
type CancelReason string

const (
	ReasonDeliveryETATooLong CancelReason = "DELIVERY_ETA_TOO_LONG"
	ReasonMistakeError       CancelReason = "MISTAKE_ERROR"
	ReasonUnknown            CancelReason = "REASON_UNKNOWN"
)

// Order statuses reported by the API.
const (
	StatusNew                 = "NEW"
	StatusReceived            = "RECEIVED"
	StatusWaitingForTransport = "WAITING_FOR_TRANSPORT"
	StatusAssignedToTransport = "ASSIGNED_TO_TRANSPORT"
	StatusCourierAccepted     = "COURIER_ACCEPTED_DELIVERY"
	StatusNearVendor          = "NEAR_VENDOR"
	StatusPickedUp            = "PICKED_UP"
	StatusCourierLeftVendor   = "COURIER_LEFT_VENDOR"
	StatusNearCustomer        = "NEAR_CUSTOMER"
	StatusDelivered           = "DELIVERED"
	StatusDelayed             = "DELAYED"
	StatusCancelled           = "CANCELLED"
)

// Location is a geocoded address.
type Location struct {
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Sender is the pickup party. A registered outlet can be referenced by ClientVendorID instead of
// spelling out the contact.
type Sender struct {
	ClientVendorID string    `json:"client_vendor_id,omitempty"`
	Name           string    `json:"name,omitempty" validate:"required_without=ClientVendorID"`
	PhoneNumber    string    `json:"phone_number,omitempty" validate:"required_without=ClientVendorID,omitempty,phone"`
	Location       *Location `json:"location,omitempty" validate:"required_without=ClientVendorID"`
	Notes          string    `json:"notes,omitempty"`
}

// Recipient is the drop-off party.
type Recipient struct {
	Name        string   `json:"name" validate:"required"`
	PhoneNumber string   `json:"phone_number" validate:"required,phone"`
	Location    Location `json:"location"`
	Notes       string   `json:"notes,omitempty"`
}

// DeliveryTasks are extra steps the rider performs.
type DeliveryTasks struct {
	AgeValidationRequired bool `json:"age_validation_required"`
}

// CreateRequest is the payload for creating an order and for fee and time estimates.
type CreateRequest struct {
	ClientOrderID       string         `json:"client_order_id,omitempty"`
	Sender              *Sender        `json:"sender" validate:"required"`
	Recipient           Recipient      `json:"recipient"`
	Amount              float64        `json:"amount" validate:"gte=0"`
	PaymentMethod       PaymentMethod  `json:"payment_method" validate:"required,oneof=PAID CASH_ON_DELIVERY"`
	Description         string         `json:"description" validate:"required"`
	ColdbagNeeded       bool           `json:"coldbag_needed,omitempty"`
	CollectFromCustomer float64        `json:"collect_from_customer,omitempty" validate:"gte=0"`
	DeliveryTasks       *DeliveryTasks `json:"delivery_tasks,omitempty"`
	PreorderedFor       int64          `json:"preordered_for,omitempty" validate:"gte=0"`
}

// UpdateRequest changes an order before a rider is assigned. Zero fields are left unchanged.
type UpdateRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,oneof=PAID CASH_ON_DELIVERY"`
	Amount        *float64      `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Description   string        `json:"description,omitempty"`
	Recipient     *Recipient    `json:"recipient,omitempty"`
}

// CancelRequest is the body of an order cancellation.
type CancelRequest struct {
	Reason CancelReason `json:"reason" validate:"required,oneof=DELIVERY_ETA_TOO_LONG MISTAKE_ERROR REASON_UNKNOWN"`
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// Timeline holds the current pickup and delivery estimates.
type Timeline struct {
	EstimatedPickupTime   string `json:"estimated_pickup_time,omitempty"`
	EstimatedDeliveryTime string `json:"estimated_delivery_time,omitempty"`
}

// Driver is the rider assigned to the order.
type Driver struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Cancellation describes why an order was cancelled.
type Cancellation struct {
	Source string `json:"source,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Order is an order as returned by the API.
type Order struct {
	OrderID             string         `json:"order_id"`
	ClientOrderID       string         `json:"client_order_id,omitempty"`
	Status              string         `json:"status"`
	StatusHistory       []StatusChange `json:"status_history,omitempty"`
	Sender              *Sender        `json:"sender,omitempty"`
	Recipient           *Recipient     `json:"recipient,omitempty"`
	Amount              float64        `json:"amount"`
	PaymentMethod       PaymentMethod  `json:"payment_method,omitempty"`
	Description         string         `json:"description,omitempty"`
	ColdbagNeeded       bool           `json:"coldbag_needed,omitempty"`
	CollectFromCustomer float64        `json:"collect_from_customer,omitempty"`
	DeliveryFee         float64        `json:"delivery_fee,omitempty"`
	Timeline            Timeline       `json:"timeline"`
	Driver              *Driver        `json:"driver,omitempty"`
	TrackingLink        string         `json:"tracking_link,omitempty"`
	ProofOfDeliveryURL  string         `json:"proof_of_delivery_url,omitempty"`
	ProofOfPickupURL    string         `json:"proof_of_pickup_url,omitempty"`
	Cancellation        *Cancellation  `json:"cancellation,omitempty"`
	PreorderedFor       int64          `json:"preordered_for,omitempty"`
	CreatedAt           int64          `json:"created_at,omitempty"`
}

// Coordinates is the last known rider position.
type Coordinates struct {
	ClientOrderID string  `json:"client_order_id,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	UpdatedAt     int64   `json:"updated_at,omitempty"`
}

// FeeEstimate is the result of EstimateFee.
type FeeEstimate struct {
	ClientOrderID        string  `json:"client_order_id,omitempty"`
	EstimatedDeliveryFee float64 `json:"estimated_delivery_fee"`
}

// TimeEstimate is the result of EstimateTime.
type TimeEstimate struct {
	ClientOrderID         string `json:"client_order_id,omitempty"`
	EstimatedPickupTime   string `json:"estimated_pickup_time"`
	EstimatedDeliveryTime string `json:"estimated_delivery_time"`
}

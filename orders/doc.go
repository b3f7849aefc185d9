// Package orders wraps the pandago order endpoints: create, get, update, cancel, rider
// coordinates, proof of delivery and fee/time estimates.
//
// Request models are validated before they are sent; a validation failure is reported as an
// *apierr.RequestError with status code 0 so it can be handled like a rejected call.
package orders

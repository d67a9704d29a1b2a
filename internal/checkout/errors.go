package checkout

import "errors"

var (
	ErrUnauthorized = errors.New("checkout requires a logged-in buyer")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrZeroTotal    = errors.New("total amount is zero")

	// ErrOutOfStock is the commit-time failure class: a conditional stock
	// decrement could not be satisfied, so the whole commit unit rolled back.
	ErrOutOfStock = errors.New("out of stock")
)

// PaymentError: the gateway answered and the answer was not an
// authorization (declined or still pending). Terminal for the attempt.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string { return "payment failed: " + e.Reason }

// GatewayError: no usable answer from the gateway (transport failure,
// timeout, or an unrecognized response shape).
type GatewayError struct {
	Reason string
}

func (e *GatewayError) Error() string { return "gateway error: " + e.Reason }

// StorageError wraps a failure inside the commit unit; the unit has been
// rolled back and the cart preserved when it surfaces.
type StorageError struct {
	Cause error
}

func (e *StorageError) Error() string { return "storage error: " + e.Cause.Error() }
func (e *StorageError) Unwrap() error { return e.Cause }

package inventory

import "errors"

// Request-level error taxonomy. Every one of these maps to a client-visible
// status at the HTTP boundary; none of them crash the process.
var (
	ErrValidation        = errors.New("validation")          // 400
	ErrNotFound          = errors.New("not found")           // 404
	ErrOutOfStock        = errors.New("out of stock")        // 409
	ErrInsufficientStock = errors.New("insufficient stock")  // 409
	ErrEmptyCart         = errors.New("cart is empty")       // 400
	ErrNoValidLineItems  = errors.New("no valid line items") // 400
	ErrUnauthorized      = errors.New("unauthorized")        // 403
)

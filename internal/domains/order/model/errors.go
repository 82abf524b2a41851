package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound        = "ORD001"
	ErrCodeOrderCannotCancel    = "ORD002"
	ErrCodeInvalidOrder         = "ORD003"
	ErrCodeInvalidStatus        = "ORD004"
	ErrCodeUnauthorized         = "ORD005"
	ErrCodeNothingToCombine     = "ORD006"
	ErrCodeInvalidPaymentMethod = "ORD007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderCannotCancel    = errors.New("order cannot be cancelled")
	ErrInvalidOrder         = errors.New("invalid order")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrNothingToCombine     = errors.New("no unpaid orders to combine")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrDuplicateOrderCode   = errors.New("order code already exists")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

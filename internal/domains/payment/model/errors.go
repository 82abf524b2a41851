package model

import (
	"errors"
	"fmt"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrValidation       = errors.New("invalid payment request")
	ErrInvalidSignature = errors.New("invalid callback signature")
	ErrUnknownOrder     = errors.New("order not found")
	ErrTransientStore   = errors.New("order store unavailable")
	ErrOrderAlreadyPaid = errors.New("order already paid")
	ErrOrderCancelled   = errors.New("order is already cancelled")
	ErrUnauthorized     = errors.New("unauthorized access")
)

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

// NewValidationError wraps cause so both errors.Is(err, ErrValidation)
// and errors.Is(err, cause) hold
func NewValidationError(message string, cause error) *PaymentError {
	err := ErrValidation
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrValidation, cause)
	}
	return NewPaymentError(ErrCodeValidation, message, err)
}

func NewInvalidSignatureError() *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidSignature,
		"Transaction could not be verified",
		ErrInvalidSignature,
	)
}

func NewUnknownOrderError(txnRef string) *PaymentError {
	return NewPaymentError(
		ErrCodeUnknownOrder,
		fmt.Sprintf("Order not found: %s", txnRef),
		ErrUnknownOrder,
	)
}

func NewTransientStoreError(cause error) *PaymentError {
	return NewPaymentError(
		ErrCodeTransientStore,
		"Order store temporarily unavailable, please retry",
		fmt.Errorf("%w: %w", ErrTransientStore, cause),
	)
}

func NewOrderAlreadyPaidError(orderID int64) *PaymentError {
	return NewPaymentError(
		ErrCodeOrderAlreadyPaid,
		fmt.Sprintf("Order %d is already paid", orderID),
		ErrOrderAlreadyPaid,
	)
}

func NewOrderCancelledError(orderID int64) *PaymentError {
	return NewPaymentError(
		ErrCodeOrderCancelled,
		fmt.Sprintf("Order %d is cancelled", orderID),
		ErrOrderCancelled,
	)
}

func NewUnauthorizedError() *PaymentError {
	return NewPaymentError(
		ErrCodeUnauthorized,
		"You do not have permission to pay for this order",
		ErrUnauthorized,
	)
}

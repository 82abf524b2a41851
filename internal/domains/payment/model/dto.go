package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE PAYMENT RESPONSE
// =====================================================

type CreatePaymentResponse struct {
	OrderID    int64           `json:"order_id"`
	OrderCode  string          `json:"order_code"`
	Gateway    string          `json:"gateway"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	PaymentURL string          `json:"payment_url"`
}

// =====================================================
// CALLBACK RESULT
// =====================================================

const (
	CallbackStatusSuccess = "success"
	CallbackStatusFailed  = "failed"
)

// CallbackResult is what the buyer sees after returning from the gateway.
// Display fields are best effort and may be zero.
type CallbackResult struct {
	Status         string           `json:"status"`
	OrderID        int64            `json:"order_id"`
	ResponseCode   string           `json:"response_code"`
	Message        string           `json:"message"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	PayDate        *time.Time       `json:"pay_date,omitempty"`
	BankCode       string           `json:"bank_code,omitempty"`
	TransactionNo  string           `json:"transaction_no,omitempty"`
	AlreadyApplied bool             `json:"already_applied"`
}

func (r *CallbackResult) IsSuccess() bool {
	return r.Status == CallbackStatusSuccess
}

// =====================================================
// IPN RESPONSE
// =====================================================

// IPNResponse is the acknowledgement body VNPay expects from the IPN URL
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

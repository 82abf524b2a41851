package service

import (
	"context"
	"net/url"

	orderModel "clockshop-backend/internal/domains/order/model"
	"clockshop-backend/internal/domains/payment/model"
)

// =====================================================
// PAYMENT SERVICE INTERFACE
// =====================================================
type PaymentService interface {
	// ============================================
	// CHECKOUT
	// ============================================

	// BuildRedirectURL signs a gateway redirect URL for an order.
	// amount is in minor units (VND * 100).
	BuildRedirectURL(ctx context.Context, orderID, amount int64, clientIP string) (string, error)

	// CreatePaymentURL checks the caller owns an unpaid order and returns its redirect URL
	CreatePaymentURL(ctx context.Context, customerID, orderID int64, clientIP string) (*model.CreatePaymentResponse, error)

	// CreateBulkPaymentURL combines unpaid orders of the caller and returns the combined order's URL
	CreateBulkPaymentURL(ctx context.Context, customerID int64, req orderModel.CombineOrdersRequest, clientIP string) (*model.CreatePaymentResponse, error)

	// ============================================
	// CALLBACKS
	// ============================================

	// HandleCallback verifies a gateway callback and applies it to the order
	HandleCallback(ctx context.Context, raw url.Values, source CallbackSource) (*model.CallbackResult, error)
}

// CallbackSource describes where a callback came from; used for logs and metrics only
type CallbackSource struct {
	Channel  string // model.ChannelReturn or model.ChannelIPN
	ClientIP string
}

// =====================================================
// COLLABORATORS
// =====================================================

// OrderStore is the slice of the order repository the payment flow needs
type OrderStore interface {
	GetOrderByID(ctx context.Context, orderID int64) (*orderModel.Order, error)
	MarkPaid(ctx context.Context, orderID int64) (bool, error)
	RevertToUnpaid(ctx context.Context, orderID int64) (bool, error)
}

// OrderCombiner merges several unpaid orders into one
type OrderCombiner interface {
	CombineUnpaidOrders(ctx context.Context, customerID int64, req orderModel.CombineOrdersRequest) (*orderModel.Order, error)
}

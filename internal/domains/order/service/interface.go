package service

import (
	"context"

	"clockshop-backend/internal/domains/order/model"
)

// =====================================================
// ORDER SERVICE INTERFACE
// =====================================================
type OrderService interface {
	// Create new order, starts pending_confirmation/unpaid
	CreateOrder(ctx context.Context, customerID int64, req model.CreateOrderRequest) (*model.Order, error)

	// Get order detail; customers only see their own orders
	GetOrder(ctx context.Context, orderID, callerID int64, isAdmin bool) (*model.Order, error)

	// List customer's orders, newest first
	ListOrders(ctx context.Context, customerID int64) ([]*model.Order, error)

	// Flattened order lines of the customer
	PurchaseHistory(ctx context.Context, customerID int64) ([]model.PurchaseHistoryItem, error)

	// Cancel order (by customer): only pending_confirmation + unpaid
	CancelOrder(ctx context.Context, orderID, customerID int64) error

	// Update order/payment status pair (admin only)
	UpdatePaymentStatus(ctx context.Context, orderID, adminID int64, req model.UpdatePaymentStatusRequest) error

	// CanReview: customer has a confirmed and paid order containing the product
	CanReview(ctx context.Context, customerID, productID int64) (bool, error)

	// Combine several unpaid orders of the customer into one payable order
	CombineUnpaidOrders(ctx context.Context, customerID int64, req model.CombineOrdersRequest) (*model.Order, error)
}

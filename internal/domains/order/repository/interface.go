package repository

import (
	"context"

	"clockshop-backend/internal/domains/order/model"
)

// =====================================================
// ORDER REPOSITORY INTERFACE
// =====================================================
type OrderRepository interface {
	// Order operations
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID int64) (*model.Order, error)
	GetOrdersByIDs(ctx context.Context, orderIDs []int64) ([]*model.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]*model.Order, error)
	ListPurchaseHistory(ctx context.Context, customerID int64) ([]model.PurchaseHistoryItem, error)
	HasPaidPurchase(ctx context.Context, customerID, productID int64) (bool, error)

	// Payment state transitions.
	// Each one is a single conditional UPDATE; the bool reports whether a row changed.
	MarkPaid(ctx context.Context, orderID int64) (bool, error)
	RevertToUnpaid(ctx context.Context, orderID int64) (bool, error)
	CancelOrder(ctx context.Context, orderID, customerID int64) (bool, error)
	UpdatePaymentStatus(ctx context.Context, orderID int64, orderStatus model.OrderStatus, paymentStatus model.PaymentStatus, processedBy int64) error

	// Combine replaces the given unpaid orders of a customer with one new order
	CombineOrders(ctx context.Context, customerID int64, sourceIDs []int64, combined *model.Order) error
}

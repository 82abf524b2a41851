package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clockshop-backend/internal/domains/order/model"
	"clockshop-backend/internal/domains/order/repository"
	"clockshop-backend/pkg/logger"
)

// =====================================================
// ORDER SERVICE IMPLEMENTATION
// =====================================================
type orderService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// =====================================================
// CREATE ORDER
// =====================================================

func (s *orderService) CreateOrder(ctx context.Context, customerID int64, req model.CreateOrderRequest) (*model.Order, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid request", err)
	}
	for i, line := range req.Details {
		if err := line.Validate(); err != nil {
			return nil, model.NewOrderError(
				model.ErrCodeInvalidOrder,
				fmt.Sprintf("Invalid order detail #%d", i+1),
				err,
			)
		}
	}

	// Step 2: Build entity (giá snapshot tại thời điểm đặt hàng)
	order := &model.Order{
		OrderCode:     model.GenerateOrderCode(s.now()),
		CustomerID:    customerID,
		OrderStatus:   model.OrderStatusPendingConfirmation,
		PaymentStatus: model.PaymentStatusUnpaid,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Note:          req.Note,
		Details:       model.BuildOrderDetails(req.Details),
	}

	// Step 3: Persist order + details in one transaction
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id":    order.ID,
		"order_code":  order.OrderCode,
		"customer_id": customerID,
		"total":       order.Total().String(),
	})

	return order, nil
}

// =====================================================
// GET / LIST
// =====================================================

func (s *orderService) GetOrder(ctx context.Context, orderID, callerID int64, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err // đã map ErrNoRows -> ErrOrderNotFound trong repo
	}

	if !isAdmin && order.CustomerID != callerID {
		// không lộ sự tồn tại của đơn hàng người khác
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, customerID int64) ([]*model.Order, error) {
	return s.orderRepo.ListOrdersByCustomer(ctx, customerID)
}

func (s *orderService) PurchaseHistory(ctx context.Context, customerID int64) ([]model.PurchaseHistoryItem, error) {
	return s.orderRepo.ListPurchaseHistory(ctx, customerID)
}

// =====================================================
// CANCEL ORDER
// =====================================================

func (s *orderService) CancelOrder(ctx context.Context, orderID, customerID int64) error {
	order, err := s.GetOrder(ctx, orderID, customerID, false)
	if err != nil {
		return err
	}

	// Business rule: chỉ cho cancel khi chờ xác nhận và chưa thanh toán
	if !order.CanBeCancelled() {
		return model.NewOrderError(
			model.ErrCodeOrderCannotCancel,
			fmt.Sprintf("Order with status '%s/%s' cannot be cancelled", order.OrderStatus, order.PaymentStatus),
			model.ErrOrderCannotCancel,
		)
	}

	// Conditional UPDATE: a payment confirmed in between wins
	cancelled, err := s.orderRepo.CancelOrder(ctx, orderID, customerID)
	if err != nil {
		return err
	}
	if !cancelled {
		return model.NewOrderError(
			model.ErrCodeOrderCannotCancel,
			"Order changed state and can no longer be cancelled",
			model.ErrOrderCannotCancel,
		)
	}

	logger.Info("Order cancelled by customer", map[string]interface{}{
		"order_id":    orderID,
		"customer_id": customerID,
	})

	return nil
}

// =====================================================
// UPDATE PAYMENT STATUS (ADMIN)
// =====================================================

func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID, adminID int64, req model.UpdatePaymentStatusRequest) error {
	if err := req.Validate(); err != nil {
		return model.NewOrderError(model.ErrCodeInvalidStatus, "Invalid request", err)
	}

	orderStatus := model.OrderStatus(req.OrderStatus)
	paymentStatus := model.PaymentStatus(req.PaymentStatus)

	// a paid order cannot be cancelled
	if orderStatus == model.OrderStatusCancelled && paymentStatus == model.PaymentStatusPaid {
		return model.NewOrderError(
			model.ErrCodeInvalidStatus,
			"A paid order cannot be cancelled",
			model.ErrInvalidStatus,
		)
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, orderStatus, paymentStatus, adminID); err != nil {
		return err
	}

	logger.Info("Order payment status updated by admin", map[string]interface{}{
		"order_id":       orderID,
		"admin_id":       adminID,
		"order_status":   orderStatus,
		"payment_status": paymentStatus,
	})

	return nil
}

// =====================================================
// REVIEW ELIGIBILITY
// =====================================================

func (s *orderService) CanReview(ctx context.Context, customerID, productID int64) (bool, error) {
	if productID <= 0 {
		return false, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid product ID", model.ErrInvalidOrder)
	}
	return s.orderRepo.HasPaidPurchase(ctx, customerID, productID)
}

// =====================================================
// COMBINE UNPAID ORDERS (BULK PAYMENT)
// =====================================================

func (s *orderService) CombineUnpaidOrders(ctx context.Context, customerID int64, req model.CombineOrdersRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewOrderError(model.ErrCodeInvalidOrder, "Invalid request", err)
	}

	orders, err := s.orderRepo.GetOrdersByIDs(ctx, uniqueIDs(req.OrderIDs))
	if err != nil {
		return nil, err
	}

	// Chỉ giữ đơn của chính khách hàng, chưa thanh toán, chưa bị huỷ
	var payable []*model.Order
	for _, o := range orders {
		if o.CustomerID == customerID && o.CanBeCancelled() {
			payable = append(payable, o)
		}
	}

	if len(payable) == 0 {
		return nil, model.NewOrderError(
			model.ErrCodeNothingToCombine,
			"No valid unpaid orders to pay",
			model.ErrNothingToCombine,
		)
	}

	// Nothing to merge
	if len(payable) == 1 {
		return payable[0], nil
	}

	codes := make([]string, 0, len(payable))
	sourceIDs := make([]int64, 0, len(payable))
	for _, o := range payable {
		codes = append(codes, o.OrderCode)
		sourceIDs = append(sourceIDs, o.ID)
	}
	note := fmt.Sprintf("Đơn hàng tổng hợp từ %d đơn: %s", len(payable), strings.Join(codes, ", "))

	combined := &model.Order{
		OrderCode:     model.GenerateOrderCode(s.now()),
		CustomerID:    customerID,
		OrderStatus:   model.OrderStatusPendingConfirmation,
		PaymentStatus: model.PaymentStatusUnpaid,
		PaymentMethod: model.PaymentMethodVNPay,
		Note:          &note,
		Details:       model.MergeOrderDetails(payable),
	}

	if err := s.orderRepo.CombineOrders(ctx, customerID, sourceIDs, combined); err != nil {
		if errors.Is(err, model.ErrNothingToCombine) {
			return nil, model.NewOrderError(
				model.ErrCodeNothingToCombine,
				"Some orders changed state, please retry",
				err,
			)
		}
		return nil, err
	}

	logger.Info("Orders combined for bulk payment", map[string]interface{}{
		"order_id":    combined.ID,
		"customer_id": customerID,
		"source_ids":  sourceIDs,
		"total":       combined.Total().String(),
	})

	return combined, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	orderModel "clockshop-backend/internal/domains/order/model"
	"clockshop-backend/internal/domains/payment/gateway/vnpay"
	"clockshop-backend/internal/domains/payment/model"
	"clockshop-backend/internal/shared/metrics"
	"clockshop-backend/internal/shared/utils"
	"clockshop-backend/pkg/cache"
	"clockshop-backend/pkg/logger"
)

// Config tunes the payment service
type Config struct {
	// StoreTimeout bounds every order store call
	StoreTimeout time.Duration
	// ReplayTTL is how long a processed callback is remembered
	ReplayTTL time.Duration
}

const (
	defaultStoreTimeout = 5 * time.Second
	defaultReplayTTL    = 24 * time.Hour
)

// =====================================================
// PAYMENT SERVICE IMPLEMENTATION
// =====================================================
type paymentService struct {
	client   *vnpay.Client
	orders   OrderStore
	combiner OrderCombiner
	cache    cache.Cache // optional replay cache
	config   Config
}

func NewPaymentService(
	client *vnpay.Client,
	orders OrderStore,
	combiner OrderCombiner,
	replayCache cache.Cache,
	config Config,
) PaymentService {
	if config.StoreTimeout <= 0 {
		config.StoreTimeout = defaultStoreTimeout
	}
	if config.ReplayTTL <= 0 {
		config.ReplayTTL = defaultReplayTTL
	}
	return &paymentService{
		client:   client,
		orders:   orders,
		combiner: combiner,
		cache:    replayCache,
		config:   config,
	}
}

// =====================================================
// BUILD REDIRECT URL
// =====================================================

func (s *paymentService) BuildRedirectURL(ctx context.Context, orderID, amount int64, clientIP string) (string, error) {
	return s.buildRedirectURL(vnpay.PaymentRequest{
		OrderID:  orderID,
		Amount:   amount,
		ClientIP: clientIP,
	})
}

func (s *paymentService) buildRedirectURL(req vnpay.PaymentRequest) (string, error) {
	paymentURL, err := s.client.BuildRedirectURL(req)
	if err != nil {
		metrics.PaymentRedirectsTotal.WithLabelValues("invalid").Inc()

		switch {
		case errors.Is(err, vnpay.ErrInvalidConfig):
			logger.Error("VNPay merchant configuration is incomplete", err)
			return "", model.NewValidationError("Payment gateway is not configured", err)
		case errors.Is(err, vnpay.ErrInvalidAmount):
			return "", model.NewValidationError("Payment amount must be positive", err)
		case errors.Is(err, vnpay.ErrInvalidOrder):
			return "", model.NewValidationError("Invalid order reference", err)
		}
		return "", model.NewValidationError("Invalid payment request", err)
	}

	metrics.PaymentRedirectsTotal.WithLabelValues("ok").Inc()
	return paymentURL, nil
}

// =====================================================
// CREATE PAYMENT URL
// =====================================================

// CreatePaymentURL initiates VNPay payment for an order
//
// Business Logic Flow:
// 1. Load order (bounded by store timeout)
// 2. Verify ownership
// 3. Reject cancelled / already paid orders
// 4. Convert total to minor units and sign the redirect URL
//
// Edge Cases:
// - Order not found -> PAY001
// - Order already paid -> PAY002
// - Not owner -> PAY021
// - Order cancelled -> PAY022
func (s *paymentService) CreatePaymentURL(ctx context.Context, customerID, orderID int64, clientIP string) (*model.CreatePaymentResponse, error) {
	// Step 1: Load order
	order, err := s.loadOrder(ctx, orderID, strconv.FormatInt(orderID, 10))
	if err != nil {
		return nil, err
	}

	// Step 2: Verify ownership (không lộ đơn của người khác)
	if order.CustomerID != customerID {
		return nil, model.NewUnauthorizedError()
	}

	return s.paymentURLForOrder(order, clientIP)
}

// CreateBulkPaymentURL pays several unpaid orders at once through one combined order
func (s *paymentService) CreateBulkPaymentURL(
	ctx context.Context,
	customerID int64,
	req orderModel.CombineOrdersRequest,
	clientIP string,
) (*model.CreatePaymentResponse, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	combined, err := s.combiner.CombineUnpaidOrders(storeCtx, customerID, req)
	if err != nil {
		var orderErr *orderModel.OrderError
		if errors.As(err, &orderErr) {
			return nil, model.NewValidationError(orderErr.Message, err)
		}
		return nil, model.NewTransientStoreError(err)
	}

	return s.paymentURLForOrder(combined, clientIP)
}

func (s *paymentService) paymentURLForOrder(order *orderModel.Order, clientIP string) (*model.CreatePaymentResponse, error) {
	// Step 3: Validate order status
	if order.OrderStatus == orderModel.OrderStatusCancelled {
		return nil, model.NewOrderCancelledError(order.ID)
	}
	if order.IsPaid() {
		return nil, model.NewOrderAlreadyPaidError(order.ID)
	}

	// Step 4: Build signed URL
	total := order.Total()
	paymentURL, err := s.buildRedirectURL(vnpay.PaymentRequest{
		OrderID:   order.ID,
		Amount:    vnpay.ToMinorUnits(total),
		OrderInfo: utils.ToGatewayText(fmt.Sprintf("Thanh toán đơn hàng %s", order.OrderCode)),
		ClientIP:  clientIP,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("VNPay payment URL created", map[string]interface{}{
		"order_id":   order.ID,
		"order_code": order.OrderCode,
		"amount":     total.String(),
	})

	return &model.CreatePaymentResponse{
		OrderID:    order.ID,
		OrderCode:  order.OrderCode,
		Gateway:    model.GatewayVNPay,
		Amount:     total,
		Currency:   vnpay.DefaultCurrCode,
		PaymentURL: paymentURL,
	}, nil
}

// =====================================================
// HANDLE CALLBACK
// =====================================================

// HandleCallback processes a VNPay return redirect or IPN call
//
// Business Logic Flow:
// 1. Keep vnp_* fields, verify signature (before any store access)
// 2. Replay fast path: identical callback already processed
// 3. Resolve vnp_TxnRef to an order
// 4. vnp_ResponseCode "00" -> MarkPaid, anything else -> RevertToUnpaid
// 5. Remember the result for replays
//
// Idempotency:
// - MarkPaid/RevertToUnpaid are conditional single-statement UPDATEs
// - Duplicate callbacks end in the same state and report AlreadyApplied
//
// Security:
// - Invalid signatures are logged with txn ref and client IP only
// - Order existence is never revealed before the signature checks out
func (s *paymentService) HandleCallback(ctx context.Context, raw url.Values, source CallbackSource) (*model.CallbackResult, error) {
	start := time.Now()
	result, outcome, err := s.handleCallback(ctx, raw, source)

	metrics.PaymentCallbacksTotal.WithLabelValues(source.Channel, outcome).Inc()
	metrics.PaymentCallbackDuration.WithLabelValues(source.Channel).Observe(time.Since(start).Seconds())

	return result, err
}

func (s *paymentService) handleCallback(ctx context.Context, raw url.Values, source CallbackSource) (*model.CallbackResult, string, error) {
	// Step 1: Verify signature
	params := vnpay.ExtractParams(raw)
	txnRef := params[vnpay.FieldTxnRef]

	if !s.client.VerifyCallback(params) {
		logger.Warn("Rejected VNPay callback: invalid signature", map[string]interface{}{
			"txn_ref":    txnRef,
			"client_ip":  source.ClientIP,
			"private_ip": utils.IsPrivateIP(source.ClientIP),
			"channel":    source.Channel,
		})
		return nil, model.OutcomeInvalidSignature, model.NewInvalidSignatureError()
	}

	// Step 2: Replay fast path
	replayKey := callbackCacheKey(txnRef, params[vnpay.FieldSecureHash])
	if cached := s.lookupReplay(ctx, replayKey); cached != nil {
		return cached, model.OutcomeAlreadyApplied, nil
	}

	// Step 3: Resolve order
	orderID, err := strconv.ParseInt(txnRef, 10, 64)
	if err != nil || orderID <= 0 {
		return nil, model.OutcomeUnknownOrder, model.NewUnknownOrderError(txnRef)
	}

	order, err := s.loadOrder(ctx, orderID, txnRef)
	if err != nil {
		if errors.Is(err, model.ErrUnknownOrder) {
			return nil, model.OutcomeUnknownOrder, err
		}
		return nil, model.OutcomeStoreError, err
	}

	// Step 4: Apply transition
	responseCode := params[vnpay.FieldResponseCode]
	result := s.buildCallbackResult(order.ID, responseCode, params)

	var outcome string
	if responseCode == vnpay.ResponseCodeSuccess {
		outcome, err = s.applySuccess(ctx, order, result)
	} else {
		outcome, err = s.applyFailure(ctx, order, result)
	}
	if err != nil {
		return nil, model.OutcomeStoreError, err
	}

	// Step 5: Remember for replays
	s.rememberReplay(ctx, replayKey, result)

	logger.Info("VNPay callback processed", map[string]interface{}{
		"order_id":        order.ID,
		"channel":         source.Channel,
		"response_code":   responseCode,
		"outcome":         outcome,
		"already_applied": result.AlreadyApplied,
		"transaction_no":  result.TransactionNo,
	})

	return result, outcome, nil
}

func (s *paymentService) applySuccess(ctx context.Context, order *orderModel.Order, result *model.CallbackResult) (string, error) {
	if order.OrderStatus == orderModel.OrderStatusCancelled {
		// Money was taken; confirm anyway and leave reconciliation to an admin
		logger.Warn("VNPay confirmed payment for a cancelled order", map[string]interface{}{
			"order_id":   order.ID,
			"order_code": order.OrderCode,
		})
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	changed, err := s.orders.MarkPaid(storeCtx, order.ID)
	if err != nil {
		return "", model.NewTransientStoreError(err)
	}

	result.AlreadyApplied = !changed
	if !changed {
		return model.OutcomeAlreadyApplied, nil
	}
	return model.OutcomePaid, nil
}

// applyFailure reverts only a confirmed, unpaid order to
// pending_confirmation/unpaid. It deliberately does not reset every order:
// a paid order is left paid so a stale failure return URL cannot undo a
// completed payment, and a cancelled order stays cancelled.
func (s *paymentService) applyFailure(ctx context.Context, order *orderModel.Order, result *model.CallbackResult) (string, error) {
	if order.IsPaid() {
		// Stale failure after a confirmed payment: keep the order paid
		logger.Warn("Ignoring failed VNPay callback for a paid order", map[string]interface{}{
			"order_id":      order.ID,
			"response_code": result.ResponseCode,
		})
		result.AlreadyApplied = true
		return model.OutcomeAlreadyApplied, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	if _, err := s.orders.RevertToUnpaid(storeCtx, order.ID); err != nil {
		return "", model.NewTransientStoreError(err)
	}
	return model.OutcomeFailed, nil
}

// buildCallbackResult fills display fields best effort
func (s *paymentService) buildCallbackResult(orderID int64, responseCode string, params vnpay.Params) *model.CallbackResult {
	details := vnpay.ParseCallbackDetails(params, s.client.Location())

	result := &model.CallbackResult{
		Status:        model.CallbackStatusFailed,
		OrderID:       orderID,
		ResponseCode:  responseCode,
		Message:       vnpay.GetResponseMessage(responseCode),
		BankCode:      details.BankCode,
		TransactionNo: details.TransactionNo,
		PayDate:       details.PayDate,
	}
	if details.Amount > 0 {
		amount := vnpay.FromMinorUnits(details.Amount)
		result.Amount = &amount
	}

	if responseCode == vnpay.ResponseCodeSuccess {
		result.Status = model.CallbackStatusSuccess
		if result.Amount != nil && result.PayDate != nil {
			result.Message = fmt.Sprintf(
				"Thanh toán thành công đơn hàng #%d: %s VND lúc %s",
				orderID,
				result.Amount.StringFixed(0),
				result.PayDate.Format("15:04 02/01/2006"),
			)
		}
	}

	return result
}

// =====================================================
// HELPERS
// =====================================================

// loadOrder maps store failures to payment errors
func (s *paymentService) loadOrder(ctx context.Context, orderID int64, txnRef string) (*orderModel.Order, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	order, err := s.orders.GetOrderByID(storeCtx, orderID)
	if err != nil {
		if errors.Is(err, orderModel.ErrOrderNotFound) {
			return nil, model.NewUnknownOrderError(txnRef)
		}
		logger.ErrorWithFields("Order store lookup failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, model.NewTransientStoreError(err)
	}
	return order, nil
}

// callbackCacheKey identifies one exact signed callback
func callbackCacheKey(txnRef, signature string) string {
	sig := strings.ToLower(signature)
	if len(sig) > 32 {
		sig = sig[:32]
	}
	return model.CallbackCacheKeyPrefix + txnRef + ":" + sig
}

func (s *paymentService) lookupReplay(ctx context.Context, key string) *model.CallbackResult {
	if s.cache == nil {
		return nil
	}

	var cached model.CallbackResult
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Callback replay cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil
	}
	if !found {
		return nil
	}

	cached.AlreadyApplied = true
	return &cached
}

func (s *paymentService) rememberReplay(ctx context.Context, key string, result *model.CallbackResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.config.ReplayTTL); err != nil {
		logger.Warn("Callback replay cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

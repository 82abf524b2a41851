package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	orderModel "clockshop-backend/internal/domains/order/model"
	"clockshop-backend/internal/domains/payment/model"
	"clockshop-backend/internal/domains/payment/service"
	"clockshop-backend/internal/shared/middleware"
	res "clockshop-backend/internal/shared/response"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates new payment handler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// RegisterRoutes registers checkout routes (auth required)
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/payments/vnpay")
	{
		payments.POST("/orders/:order_id", h.CreatePayment) // POST /v1/payments/vnpay/orders/:order_id
		payments.POST("/bulk", h.CreateBulkPayment)         // POST /v1/payments/vnpay/bulk
	}
}

// RegisterCallbackRoutes registers gateway callbacks (no auth, signature checked)
func (h *PaymentHandler) RegisterCallbackRoutes(router *gin.RouterGroup) {
	router.GET("/payments/vnpay/return", h.VNPayReturn) // GET /v1/payments/vnpay/return
	router.GET("/webhooks/vnpay", h.VNPayWebhook)       // GET /v1/webhooks/vnpay
	router.POST("/webhooks/vnpay", h.VNPayWebhook)      // POST /v1/webhooks/vnpay
}

// =====================================================
// USER PAYMENT ENDPOINTS
// =====================================================

// CreatePayment returns the VNPay redirect URL for one order
// POST /api/v1/payments/vnpay/orders/:order_id
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	// Step 1: Get caller
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		res.ErrorResponse(c, http.StatusUnauthorized, "AUTH_ERROR", "Unauthorized")
		return
	}

	// Step 2: Parse order ID
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		res.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid order ID")
		return
	}

	// Step 3: Call service
	response, err := h.paymentService.CreatePaymentURL(c.Request.Context(), caller.UserID, orderID, middleware.GetClientIP(c))
	if err != nil {
		statusCode, errCode, message := mapPaymentError(err)
		res.ErrorResponse(c, statusCode, errCode, message)
		return
	}

	res.Success(c, http.StatusCreated, "OK", response)
}

// CreateBulkPayment combines unpaid orders and returns one redirect URL
// POST /api/v1/payments/vnpay/bulk
func (h *PaymentHandler) CreateBulkPayment(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		res.ErrorResponse(c, http.StatusUnauthorized, "AUTH_ERROR", "Unauthorized")
		return
	}

	var req orderModel.CombineOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		res.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, "Invalid request body")
		return
	}

	response, err := h.paymentService.CreateBulkPaymentURL(c.Request.Context(), caller.UserID, req, middleware.GetClientIP(c))
	if err != nil {
		statusCode, errCode, message := mapPaymentError(err)
		res.ErrorResponse(c, statusCode, errCode, message)
		return
	}

	res.Success(c, http.StatusCreated, "OK", response)
}

// =====================================================
// GATEWAY CALLBACKS
// =====================================================

// VNPayReturn handles the buyer's browser returning from VNPay
// GET /api/v1/payments/vnpay/return
func (h *PaymentHandler) VNPayReturn(c *gin.Context) {
	result, err := h.paymentService.HandleCallback(c.Request.Context(), c.Request.URL.Query(), service.CallbackSource{
		Channel:  model.ChannelReturn,
		ClientIP: middleware.GetClientIP(c),
	})
	if err != nil {
		statusCode, errCode, message := mapPaymentError(err)
		res.ErrorResponse(c, statusCode, errCode, message)
		return
	}

	res.Success(c, http.StatusOK, result.Message, result)
}

// VNPayWebhook handles VNPay IPN callback
// GET/POST /api/v1/webhooks/vnpay
//
// VNPay expects HTTP 200 with RspCode in every case.
func (h *PaymentHandler) VNPayWebhook(c *gin.Context) {
	values, err := callbackValues(c)
	if err != nil {
		c.JSON(http.StatusOK, model.IPNResponse{RspCode: model.IPNCodeUnknownError, Message: "Invalid request format"})
		return
	}

	result, err := h.paymentService.HandleCallback(c.Request.Context(), values, service.CallbackSource{
		Channel:  model.ChannelIPN,
		ClientIP: middleware.GetClientIP(c),
	})

	c.JSON(http.StatusOK, ipnResponse(result, err))
}

// ipnResponse maps a callback outcome to the gateway acknowledgement
func ipnResponse(result *model.CallbackResult, err error) model.IPNResponse {
	switch {
	case err == nil && result.AlreadyApplied:
		return model.IPNResponse{RspCode: model.IPNCodeAlreadyConfirmed, Message: "Order already confirmed"}
	case err == nil:
		return model.IPNResponse{RspCode: model.IPNCodeConfirmed, Message: "Confirm Success"}
	case errors.Is(err, model.ErrInvalidSignature):
		return model.IPNResponse{RspCode: model.IPNCodeInvalidSignature, Message: "Invalid signature"}
	case errors.Is(err, model.ErrUnknownOrder):
		return model.IPNResponse{RspCode: model.IPNCodeOrderNotFound, Message: "Order not found"}
	default:
		return model.IPNResponse{RspCode: model.IPNCodeUnknownError, Message: "Unknown error"}
	}
}

// callbackValues reads query parameters, plus the form body on POST
func callbackValues(c *gin.Context) (url.Values, error) {
	if c.Request.Method != http.MethodPost {
		return c.Request.URL.Query(), nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.Form, nil
}

// =====================================================
// ERROR MAPPING HELPER
// =====================================================

func mapPaymentError(err error) (statusCode int, errorCode string, message string) {
	// Default
	statusCode = http.StatusInternalServerError
	errorCode = "INTERNAL_ERROR"
	message = "Internal server error"

	var paymentErr *model.PaymentError
	if !errors.As(err, &paymentErr) {
		return statusCode, errorCode, message
	}

	errorCode = paymentErr.Code
	message = paymentErr.Message

	switch paymentErr.Code {
	case model.ErrCodeValidation:
		statusCode = http.StatusBadRequest
	case model.ErrCodeInvalidSignature:
		statusCode = http.StatusBadRequest
	case model.ErrCodeUnknownOrder:
		statusCode = http.StatusNotFound
	case model.ErrCodeOrderAlreadyPaid, model.ErrCodeOrderCancelled:
		statusCode = http.StatusConflict
	case model.ErrCodeUnauthorized:
		statusCode = http.StatusForbidden
	case model.ErrCodeTransientStore:
		statusCode = http.StatusServiceUnavailable
	}

	return statusCode, errorCode, message
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clockshop-backend/internal/domains/order/model"
	"clockshop-backend/internal/domains/order/service"
	"clockshop-backend/internal/shared/middleware"
	"clockshop-backend/internal/shared/response"
	"clockshop-backend/pkg/logger"
)

// =====================================================
// ORDER HANDLER
// =====================================================
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// =====================================================
// ROUTES REGISTRATION
// =====================================================

// RegisterRoutes registers customer order routes (auth required)
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("", h.CreateOrder)                                          // POST /v1/orders
		orders.GET("", h.ListOrders)                                            // GET /v1/orders
		orders.GET("/purchase-history", h.PurchaseHistory)                      // GET /v1/orders/purchase-history
		orders.GET("/review-eligibility/:product_id", h.CheckReviewEligibility) // GET /v1/orders/review-eligibility/:product_id
		orders.GET("/:id", h.GetOrderDetail)                                    // GET /v1/orders/:id
		orders.POST("/:id/cancel", h.CancelOrder)                               // POST /v1/orders/:id/cancel
	}
}

// RegisterAdminRoutes registers admin order routes (admin role required)
func (h *OrderHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin/orders")
	{
		admin.PUT("/:id/payment-status", h.UpdatePaymentStatus) // PUT /v1/admin/orders/:id/payment-status
	}
}

// =====================================================
// CREATE ORDER
// =====================================================

// CreateOrder godoc
// @Summary Create new order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body model.CreateOrderRequest true "Create order request"
// @Success 201 {object} response.Response{data=model.OrderResponse}
// @Router /v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidOrder, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), caller.UserID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Order created successfully", model.ToOrderResponse(order))
}

// =====================================================
// GET ORDER DETAIL
// =====================================================

// GetOrderDetail godoc
// @Summary Get order detail (owner or admin)
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response{data=model.OrderResponse}
// @Router /v1/orders/{id} [get]
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, caller.UserID, caller.IsAdmin())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", model.ToOrderResponse(order))
}

// =====================================================
// LIST ORDERS
// =====================================================

// ListOrders godoc
// @Summary List caller's orders
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Response{data=[]model.OrderResponse}
// @Router /v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), caller.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	result := make([]model.OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, model.ToOrderResponse(o))
	}

	response.Success(c, http.StatusOK, "OK", result)
}

// PurchaseHistory returns the caller's order lines
func (h *OrderHandler) PurchaseHistory(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	items, err := h.orderService.PurchaseHistory(c.Request.Context(), caller.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", items)
}

// CheckReviewEligibility answers whether the caller may review a product
func (h *OrderHandler) CheckReviewEligibility(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	canReview, err := h.orderService.CanReview(c.Request.Context(), caller.UserID, productID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OK", model.ReviewEligibilityResponse{
		ProductID: productID,
		CanReview: canReview,
	})
}

// =====================================================
// CANCEL ORDER
// =====================================================

// CancelOrder godoc
// @Summary Cancel a pending, unpaid order
// @Tags Orders
// @Param id path int true "Order ID"
// @Success 200 {object} response.Response
// @Router /v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), orderID, caller.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Order cancelled successfully", nil)
}

// =====================================================
// ADMIN: UPDATE PAYMENT STATUS
// =====================================================

// UpdatePaymentStatus godoc
// @Summary Set order/payment status pair (admin)
// @Tags Admin Orders
// @Accept json
// @Param id path int true "Order ID"
// @Param request body model.UpdatePaymentStatusRequest true "Status pair"
// @Success 200 {object} response.Response
// @Router /v1/admin/orders/{id}/payment-status [put]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidStatus, "Invalid request body")
		return
	}

	if err := h.orderService.UpdatePaymentStatus(c.Request.Context(), orderID, caller.UserID, req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Payment status updated", nil)
}

// =====================================================
// HELPERS
// =====================================================

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidOrder, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses
func (h *OrderHandler) handleServiceError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		response.ErrorWithDetails(c, h.getHTTPStatusFromErrorCode(orderErr.Code), orderErr.Code, orderErr.Message, errorDetails(orderErr))
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeOrderNotFound, "Order not found")
	case errors.Is(err, model.ErrOrderCannotCancel):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeOrderCannotCancel, "Order cannot be cancelled")
	case errors.Is(err, model.ErrUnauthorized):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeUnauthorized, "Unauthorized access")
	default:
		logger.ErrorWithFields("Order request failed", err, map[string]interface{}{
			"request_id": c.GetString(middleware.ContextKeyRequestID),
			"path":       c.Request.URL.Path,
		})
		response.InternalServerError(c, "Internal server error")
	}
}

// errorDetails exposes validation errors only
func errorDetails(orderErr *model.OrderError) interface{} {
	if orderErr.Err == nil {
		return nil
	}
	switch orderErr.Code {
	case model.ErrCodeInvalidOrder, model.ErrCodeInvalidStatus:
		return orderErr.Err.Error()
	}
	return nil
}

// getHTTPStatusFromErrorCode maps business error codes to HTTP status codes
func (h *OrderHandler) getHTTPStatusFromErrorCode(code string) int {
	statusMap := map[string]int{
		model.ErrCodeOrderNotFound:        http.StatusNotFound,
		model.ErrCodeOrderCannotCancel:    http.StatusConflict,
		model.ErrCodeInvalidOrder:         http.StatusBadRequest,
		model.ErrCodeInvalidStatus:        http.StatusBadRequest,
		model.ErrCodeUnauthorized:         http.StatusForbidden,
		model.ErrCodeNothingToCombine:     http.StatusUnprocessableEntity,
		model.ErrCodeInvalidPaymentMethod: http.StatusBadRequest,
	}

	if status, exists := statusMap[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

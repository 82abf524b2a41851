package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE ORDER REQUEST
// =====================================================
type CreateOrderRequest struct {
	PaymentMethod string              `json:"payment_method"`
	Note          *string             `json:"note,omitempty"`
	Details       []CreateOrderDetail `json:"order_details"`
}

type CreateOrderDetail struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Validate validates CreateOrderRequest
func (req CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.PaymentMethod, validation.Required, validation.In(
			string(PaymentMethodCOD),
			string(PaymentMethodVNPay),
		)),
		validation.Field(&req.Note, validation.NilOrNotEmpty, validation.Length(0, 500)),
		validation.Field(&req.Details, validation.Required, validation.Length(1, 100)),
	)
}

// Validate validates a single order line
func (d CreateOrderDetail) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ProductID, validation.Required, validation.Min(int64(1))),
		validation.Field(&d.ProductName, validation.Required, validation.Length(1, 255)),
		validation.Field(&d.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&d.Price, validation.By(positiveDecimal)),
	)
}

func positiveDecimal(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return validation.NewError("validation_price_positive", "must be greater than 0")
	}
	return nil
}

// =====================================================
// UPDATE PAYMENT STATUS REQUEST (admin)
// =====================================================
type UpdatePaymentStatusRequest struct {
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

func (req UpdatePaymentStatusRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.OrderStatus, validation.Required, validation.In(
			string(OrderStatusPendingConfirmation),
			string(OrderStatusConfirmed),
			string(OrderStatusCancelled),
		)),
		validation.Field(&req.PaymentStatus, validation.Required, validation.In(
			string(PaymentStatusUnpaid),
			string(PaymentStatusPaid),
		)),
	)
}

// =====================================================
// COMBINE ORDERS REQUEST
// =====================================================
type CombineOrdersRequest struct {
	OrderIDs []int64 `json:"order_ids"`
}

func (req CombineOrdersRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.OrderIDs, validation.Required, validation.Length(1, 50),
			validation.Each(validation.Min(int64(1)))),
	)
}

// =====================================================
// RESPONSES
// =====================================================
type OrderResponse struct {
	ID            int64           `json:"order_id"`
	OrderCode     string          `json:"order_code"`
	CustomerID    int64           `json:"customer_id"`
	OrderStatus   OrderStatus     `json:"order_status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Note          *string         `json:"note,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Details       []OrderDetail   `json:"order_details"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToOrderResponse converts entity to response
func ToOrderResponse(o *Order) OrderResponse {
	details := o.Details
	if details == nil {
		details = []OrderDetail{}
	}
	return OrderResponse{
		ID:            o.ID,
		OrderCode:     o.OrderCode,
		CustomerID:    o.CustomerID,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Note:          o.Note,
		TotalAmount:   o.Total(),
		Details:       details,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type ReviewEligibilityResponse struct {
	ProductID int64 `json:"product_id"`
	CanReview bool  `json:"can_review"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents order status
type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "pending_confirmation"
	OrderStatusConfirmed           OrderStatus = "confirmed"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

func (os OrderStatus) IsValid() bool {
	switch os {
	case OrderStatusPendingConfirmation, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

func (os OrderStatus) String() string {
	return string(os)
}

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentStatusUnpaid, PaymentStatusPaid:
		return true
	}
	return false
}

func (ps PaymentStatus) String() string {
	return string(ps)
}

// PaymentMethod represents valid payment methods
type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodVNPay PaymentMethod = "vnpay"
)

func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case PaymentMethodCOD, PaymentMethodVNPay:
		return true
	}
	return false
}

// Order is the single source of truth for payment state
type Order struct {
	ID            int64         `json:"order_id" db:"id"`
	OrderCode     string        `json:"order_code" db:"order_code"`
	CustomerID    int64         `json:"customer_id" db:"customer_id"`
	OrderStatus   OrderStatus   `json:"order_status" db:"order_status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	Note          *string       `json:"note,omitempty" db:"note"`
	ProcessedBy   *int64        `json:"processed_by,omitempty" db:"processed_by"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`

	Details []OrderDetail `json:"order_details"`
}

// OrderDetail is an order line with snapshot price
type OrderDetail struct {
	ID          int64           `json:"order_detail_id" db:"id"`
	OrderID     int64           `json:"order_id" db:"order_id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
	TotalPrice  decimal.Decimal `json:"total_price" db:"total_price"`
}

// Total sums the order lines
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.TotalPrice)
	}
	return total
}

// IsPaid reports Confirmed/Paid
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsConfirmedAndPaid is the terminal state of a successful payment
func (o *Order) IsConfirmedAndPaid() bool {
	return o.OrderStatus == OrderStatusConfirmed && o.PaymentStatus == PaymentStatusPaid
}

// CanBePaid checks the order is awaiting payment
func (o *Order) CanBePaid() bool {
	return o.OrderStatus != OrderStatusCancelled && o.PaymentStatus == PaymentStatusUnpaid
}

// CanBeCancelled checks the order has not been confirmed or paid yet
func (o *Order) CanBeCancelled() bool {
	return o.OrderStatus == OrderStatusPendingConfirmation && o.PaymentStatus == PaymentStatusUnpaid
}

// ContainsProduct reports whether any line references productID
func (o *Order) ContainsProduct(productID int64) bool {
	for _, d := range o.Details {
		if d.ProductID == productID {
			return true
		}
	}
	return false
}

// PurchaseHistoryItem is one order line flattened with its order's state
type PurchaseHistoryItem struct {
	OrderID       int64           `json:"order_id"`
	OrderCode     string          `json:"order_code"`
	OrderDate     time.Time       `json:"order_date"`
	OrderStatus   OrderStatus     `json:"order_status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// IsPaidPurchase is the review eligibility rule: the line belongs to a
// confirmed and paid order
func (p PurchaseHistoryItem) IsPaidPurchase() bool {
	return p.OrderStatus == OrderStatusConfirmed && p.PaymentStatus == PaymentStatusPaid
}

package vnpay

import (
	"errors"
	"strconv"
	"time"
)

// =====================================================
// VNPAY WIRE FIELDS
// =====================================================

const (
	FieldPrefix = "vnp_"

	FieldVersion           = "vnp_Version"
	FieldCommand           = "vnp_Command"
	FieldTmnCode           = "vnp_TmnCode"
	FieldAmount            = "vnp_Amount"
	FieldCreateDate        = "vnp_CreateDate"
	FieldCurrCode          = "vnp_CurrCode"
	FieldIPAddr            = "vnp_IpAddr"
	FieldLocale            = "vnp_Locale"
	FieldOrderInfo         = "vnp_OrderInfo"
	FieldOrderType         = "vnp_OrderType"
	FieldReturnURL         = "vnp_ReturnUrl"
	FieldTxnRef            = "vnp_TxnRef"
	FieldSecureHash        = "vnp_SecureHash"
	FieldSecureHashType    = "vnp_SecureHashType"
	FieldResponseCode      = "vnp_ResponseCode"
	FieldTransactionNo     = "vnp_TransactionNo"
	FieldTransactionStatus = "vnp_TransactionStatus"
	FieldBankCode          = "vnp_BankCode"
	FieldPayDate           = "vnp_PayDate"
)

var (
	ErrInvalidConfig = errors.New("vnpay: merchant configuration is incomplete")
	ErrInvalidAmount = errors.New("vnpay: amount must be a positive number of minor units")
	ErrInvalidOrder  = errors.New("vnpay: order id must be positive")
)

// PaymentRequest is the input of BuildRedirectURL
type PaymentRequest struct {
	OrderID   int64     // becomes vnp_TxnRef
	Amount    int64     // minor units (VND * 100)
	OrderInfo string    // free-text description
	ClientIP  string    // buyer IP, defaults to 127.0.0.1
	Locale    string    // defaults to config locale
	CreatedAt time.Time // defaults to now
}

// CallbackDetails holds the display-only fields of a callback.
// Parsing them never fails the callback: malformed values stay zero.
type CallbackDetails struct {
	Amount        int64 // minor units
	PayDate       *time.Time
	BankCode      string
	TransactionNo string
}

// ParseCallbackDetails reads display fields best effort
func ParseCallbackDetails(params Params, loc *time.Location) CallbackDetails {
	d := CallbackDetails{
		BankCode:      params[FieldBankCode],
		TransactionNo: params[FieldTransactionNo],
	}
	if v, err := strconv.ParseInt(params[FieldAmount], 10, 64); err == nil && v > 0 {
		d.Amount = v
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateFormat, params[FieldPayDate], loc); err == nil {
		d.PayDate = &t
	}
	return d
}

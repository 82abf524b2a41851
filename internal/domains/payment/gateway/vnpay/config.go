package vnpay

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// VNPAY CONFIGURATION
// =====================================================

type Config struct {
	TmnCode    string // Merchant code (provided by VNPay)
	HashSecret string // Secret key for HMAC-SHA512 signature
	BaseURL    string // Full payment endpoint, e.g. https://sandbox.vnpayment.vn/paymentv2/vpcpay.html
	ReturnURL  string // Where the gateway redirects the buyer after payment
	Version    string // VNPay API version (default: "2.1.0")
	Command    string // Command type (default: "pay")
	CurrCode   string // Currency code (default: "VND")
	Locale     string // Language (default: "vn")
	OrderType  string // Order category (default: "other")
	Location   *time.Location
}

// NewConfig creates VNPay configuration with the gateway defaults filled in
func NewConfig(tmnCode, hashSecret, baseURL, returnURL string) *Config {
	return &Config{
		TmnCode:    tmnCode,
		HashSecret: hashSecret,
		BaseURL:    baseURL,
		ReturnURL:  returnURL,
		Version:    DefaultVersion,
		Command:    DefaultCommand,
		CurrCode:   DefaultCurrCode,
		Locale:     DefaultLocale,
		OrderType:  DefaultOrderType,
		Location:   DefaultLocation(),
	}
}

// Validate validates configuration.
// Error messages name the missing field, never its value.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	err := validation.ValidateStruct(c,
		validation.Field(&c.TmnCode, validation.Required.Error("VNPay TmnCode is required")),
		validation.Field(&c.HashSecret, validation.Required.Error("VNPay HashSecret is required")),
		validation.Field(&c.BaseURL, validation.Required.Error("VNPay BaseURL is required"), is.URL),
		validation.Field(&c.ReturnURL, validation.Required.Error("VNPay ReturnURL is required"), is.URL),
		validation.Field(&c.Version, validation.Required),
		validation.Field(&c.Command, validation.Required),
		validation.Field(&c.CurrCode, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DefaultLocation returns the merchant time zone used for vnp_CreateDate.
// Falls back to a fixed +07:00 zone when tzdata is not installed.
func DefaultLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// =====================================================
// VNPAY CONSTANTS
// =====================================================

const (
	DefaultVersion   = "2.1.0"
	DefaultCommand   = "pay"
	DefaultCurrCode  = "VND"
	DefaultLocale    = "vn"
	DefaultOrderType = "other"
	DefaultClientIP  = "127.0.0.1"

	// DateFormat is yyyyMMddHHmmss
	DateFormat = "20060102150405"
)

const (
	// Response codes
	ResponseCodeSuccess               = "00"
	ResponseCodeSuspicious            = "07"
	ResponseCodeNotRegistered         = "09"
	ResponseCodeAuthFailed            = "10"
	ResponseCodeTransactionTimeout    = "11"
	ResponseCodeCardLocked            = "12"
	ResponseCodeIncorrectOTP          = "13"
	ResponseCodeUserCancelled         = "24"
	ResponseCodeInsufficientBalance   = "51"
	ResponseCodeLimitExceeded         = "65"
	ResponseCodeBankMaintenance       = "75"
	ResponseCodePasswordRetryExceeded = "79"
	ResponseCodeOther                 = "99"
)

// GetResponseMessage returns the buyer-facing message for a response code
func GetResponseMessage(code string) string {
	messages := map[string]string{
		ResponseCodeSuccess:               "Giao dịch thành công",
		ResponseCodeSuspicious:            "Trừ tiền thành công. Giao dịch bị nghi ngờ (liên quan tới lừa đảo, giao dịch bất thường)",
		ResponseCodeNotRegistered:         "Thẻ/Tài khoản chưa đăng ký dịch vụ InternetBanking",
		ResponseCodeAuthFailed:            "Xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
		ResponseCodeTransactionTimeout:    "Đã hết hạn chờ thanh toán",
		ResponseCodeCardLocked:            "Thẻ/Tài khoản bị khóa",
		ResponseCodeIncorrectOTP:          "Nhập sai mật khẩu xác thực giao dịch (OTP)",
		ResponseCodeUserCancelled:         "Khách hàng hủy giao dịch",
		ResponseCodeInsufficientBalance:   "Tài khoản không đủ số dư",
		ResponseCodeLimitExceeded:         "Tài khoản đã vượt quá hạn mức giao dịch trong ngày",
		ResponseCodeBankMaintenance:       "Ngân hàng thanh toán đang bảo trì",
		ResponseCodePasswordRetryExceeded: "Nhập sai mật khẩu thanh toán quá số lần quy định",
	}

	if msg, exists := messages[code]; exists {
		return msg
	}
	return "Giao dịch thất bại"
}

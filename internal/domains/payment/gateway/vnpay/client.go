package vnpay

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =====================================================
// VNPAY CLIENT
// =====================================================

// Client builds signed redirect URLs and verifies callbacks.
// It performs no network I/O.
type Client struct {
	config *Config
	now    func() time.Time
}

// NewClient does not reject an incomplete config: every build re-validates,
// so a missing merchant setting surfaces per request as ErrInvalidConfig.
func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for vnp_CreateDate
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Location returns the merchant time zone
func (c *Client) Location() *time.Location {
	if c.config == nil || c.config.Location == nil {
		return DefaultLocation()
	}
	return c.config.Location
}

// =====================================================
// BUILD REDIRECT URL
// =====================================================

// BuildRedirectURL assembles, signs and returns the gateway redirect URL:
// baseURL?<canonical>&vnp_SecureHash=<hex>
func (c *Client) BuildRedirectURL(req PaymentRequest) (string, error) {
	params, err := c.BuildParams(req)
	if err != nil {
		return "", err
	}

	canonical := Canonicalize(params)
	signature := Sign(canonical, c.config.HashSecret)

	return c.config.BaseURL + "?" + canonical + "&" + FieldSecureHash + "=" + signature, nil
}

// BuildParams assembles the outbound parameter set without signing it
func (c *Client) BuildParams(req PaymentRequest) (Params, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	if req.OrderID <= 0 {
		return nil, ErrInvalidOrder
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = c.now()
	}

	locale := req.Locale
	if locale == "" {
		locale = c.config.Locale
	}
	if locale == "" {
		locale = DefaultLocale
	}

	orderType := c.config.OrderType
	if orderType == "" {
		orderType = DefaultOrderType
	}

	orderRef := strconv.FormatInt(req.OrderID, 10)
	orderInfo := req.OrderInfo
	if orderInfo == "" {
		orderInfo = fmt.Sprintf("Thanh toan don hang %s", orderRef)
	}

	return Params{
		FieldVersion:    c.config.Version,
		FieldCommand:    c.config.Command,
		FieldTmnCode:    c.config.TmnCode,
		FieldAmount:     strconv.FormatInt(req.Amount, 10),
		FieldCreateDate: createdAt.In(c.Location()).Format(DateFormat),
		FieldCurrCode:   c.config.CurrCode,
		FieldIPAddr:     NormalizeClientIP(req.ClientIP),
		FieldLocale:     locale,
		FieldOrderInfo:  orderInfo,
		FieldOrderType:  orderType,
		FieldReturnURL:  c.config.ReturnURL,
		FieldTxnRef:     orderRef,
	}, nil
}

// VerifyCallback verifies the vnp_SecureHash of an inbound parameter set
func (c *Client) VerifyCallback(params Params) bool {
	if c.config == nil || c.config.HashSecret == "" {
		return false
	}
	return VerifyParams(params, c.config.HashSecret)
}

// SignCallback signs params the way the gateway does for its callbacks.
// Used by the sandbox tooling and tests to simulate the gateway.
func (c *Client) SignCallback(params Params) Params {
	signed := params.Without(FieldSecureHash, FieldSecureHashType)
	signed[FieldSecureHash] = SignParams(signed, c.config.HashSecret)
	return signed
}

// =====================================================
// HELPERS
// =====================================================

// ToMinorUnits formats a VND total for vnp_Amount.
// VNPay requires amount in VND (no decimal) * 100.
// Example: 100,000 VND -> 10000000
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(0).Mul(decimal.NewFromInt(100)).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}

// NormalizeClientIP maps unknown and IPv6 loopback addresses to 127.0.0.1;
// VNPay expects IPv4.
func NormalizeClientIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == "::1" {
		return DefaultClientIP
	}
	return ip
}

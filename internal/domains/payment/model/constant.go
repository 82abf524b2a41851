package model

// =====================================================
// PAYMENT GATEWAYS
// =====================================================
const (
	GatewayVNPay = "vnpay"
)

// =====================================================
// CALLBACK CHANNELS
// =====================================================
const (
	// ChannelReturn is the buyer's browser coming back from the gateway
	ChannelReturn = "return"
	// ChannelIPN is the gateway's server-to-server notification
	ChannelIPN = "ipn"
)

// =====================================================
// CALLBACK OUTCOMES
// =====================================================
const (
	OutcomePaid             = "paid"
	OutcomeFailed           = "failed"
	OutcomeAlreadyApplied   = "already_applied"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeUnknownOrder     = "unknown_order"
	OutcomeStoreError       = "store_error"
)

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	ErrCodeUnknownOrder     = "PAY001"
	ErrCodeOrderAlreadyPaid = "PAY002"
	ErrCodeValidation       = "PAY005"
	ErrCodeInvalidSignature = "PAY012"
	ErrCodeUnauthorized     = "PAY021"
	ErrCodeOrderCancelled   = "PAY022"
	ErrCodeTransientStore   = "PAY024"
)

// =====================================================
// VNPAY IPN RESPONSE CODES (RspCode)
// =====================================================
const (
	IPNCodeConfirmed        = "00"
	IPNCodeOrderNotFound    = "01"
	IPNCodeAlreadyConfirmed = "02"
	IPNCodeInvalidSignature = "97"
	IPNCodeUnknownError     = "99"
)

// =====================================================
// REPLAY CACHE
// =====================================================
const (
	// CallbackCacheKeyPrefix + "<txnRef>:<signature hash>"
	CallbackCacheKeyPrefix = "payment:vnpay:callback:"
)

package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"

func newTestClient() *Client {
	cfg := NewConfig("CLOCK01", "SECRET", testBaseURL, "https://clockshop.vn/payment/vnpay/return")
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return NewClient(cfg).WithClock(func() time.Time { return fixed })
}

func parseRedirect(t *testing.T, raw string) (*url.URL, Params) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u, ExtractParams(u.Query())
}

func TestBuildRedirectURL_WireFields(t *testing.T) {
	client := newTestClient()

	raw, err := client.BuildRedirectURL(PaymentRequest{OrderID: 1042, Amount: 150000, ClientIP: "203.0.113.7"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw, testBaseURL+"?"))

	_, params := parseRedirect(t, raw)
	assert.Equal(t, "2.1.0", params[FieldVersion])
	assert.Equal(t, "pay", params[FieldCommand])
	assert.Equal(t, "CLOCK01", params[FieldTmnCode])
	assert.Equal(t, "150000", params[FieldAmount])
	assert.Equal(t, "20240115173000", params[FieldCreateDate], "create date is merchant local time")
	assert.Equal(t, "VND", params[FieldCurrCode])
	assert.Equal(t, "203.0.113.7", params[FieldIPAddr])
	assert.Equal(t, "vn", params[FieldLocale])
	assert.Equal(t, "Thanh toan don hang 1042", params[FieldOrderInfo])
	assert.Equal(t, "other", params[FieldOrderType])
	assert.Equal(t, "https://clockshop.vn/payment/vnpay/return", params[FieldReturnURL])
	assert.Equal(t, "1042", params[FieldTxnRef])
	assert.Len(t, params[FieldSecureHash], 128)
}

func TestBuildRedirectURL_SignatureIsLastField(t *testing.T) {
	raw, err := newTestClient().BuildRedirectURL(PaymentRequest{OrderID: 1, Amount: 100})
	require.NoError(t, err)

	query := raw[strings.Index(raw, "?")+1:]
	idx := strings.LastIndex(query, "&"+FieldSecureHash+"=")
	require.Greater(t, idx, 0)

	canonical := query[:idx]
	signature := query[idx+len("&"+FieldSecureHash+"="):]
	assert.True(t, Verify(canonical, "SECRET", signature))
}

func TestBuildRedirectURL_RoundTrip(t *testing.T) {
	client := newTestClient()

	raw, err := client.BuildRedirectURL(PaymentRequest{
		OrderID:   1042,
		Amount:    150000,
		OrderInfo: "Thanh toan don hang ORD-1042 & phi ship",
	})
	require.NoError(t, err)

	_, params := parseRedirect(t, raw)
	assert.True(t, client.VerifyCallback(params))
	assert.Equal(t, "Thanh toan don hang ORD-1042 & phi ship", params[FieldOrderInfo])
}

func TestBuildRedirectURL_TamperDetection(t *testing.T) {
	client := newTestClient()

	raw, err := client.BuildRedirectURL(PaymentRequest{OrderID: 1042, Amount: 150000, ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	_, params := parseRedirect(t, raw)

	for field, value := range params {
		if field == FieldSecureHash {
			continue
		}
		t.Run(field, func(t *testing.T) {
			tampered := params.Clone()
			tampered[field] = mutateFirstChar(value)
			assert.False(t, client.VerifyCallback(tampered))
		})
	}
}

func mutateFirstChar(s string) string {
	if s == "" {
		return "X"
	}
	if s[0] == 'X' {
		return "Y" + s[1:]
	}
	return "X" + s[1:]
}

func TestBuildRedirectURL_Validation(t *testing.T) {
	client := newTestClient()

	tests := []struct {
		name    string
		req     PaymentRequest
		wantErr error
	}{
		{"zero amount", PaymentRequest{OrderID: 1, Amount: 0}, ErrInvalidAmount},
		{"negative amount", PaymentRequest{OrderID: 1, Amount: -100}, ErrInvalidAmount},
		{"zero order", PaymentRequest{OrderID: 0, Amount: 100}, ErrInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.BuildRedirectURL(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildRedirectURL_IncompleteConfig(t *testing.T) {
	client := NewClient(NewConfig("CLOCK01", "TOPSECRET", "", ""))

	_, err := client.BuildRedirectURL(PaymentRequest{OrderID: 1, Amount: 100})

	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.NotContains(t, err.Error(), "TOPSECRET", "secret never appears in errors")
}

func TestBuildParams_Defaults(t *testing.T) {
	client := newTestClient()

	params, err := client.BuildParams(PaymentRequest{OrderID: 7, Amount: 100, ClientIP: "::1", Locale: "en"})
	require.NoError(t, err)

	assert.Equal(t, DefaultClientIP, params[FieldIPAddr])
	assert.Equal(t, "en", params[FieldLocale])
	_, hasHash := params[FieldSecureHash]
	assert.False(t, hasHash)
}

func TestVerifyCallback_NoSecret(t *testing.T) {
	client := NewClient(NewConfig("CLOCK01", "", testBaseURL, testBaseURL))
	assert.False(t, client.VerifyCallback(Params{FieldTxnRef: "1", FieldSecureHash: Sign(FieldTxnRef+"=1", "")}))
}

func TestSignCallback_SimulatesGateway(t *testing.T) {
	client := newTestClient()

	signed := client.SignCallback(Params{FieldTxnRef: "1042", FieldResponseCode: "00", FieldSecureHash: "stale"})

	assert.NotEqual(t, "stale", signed[FieldSecureHash])
	assert.True(t, client.VerifyCallback(signed))
}

func TestParseCallbackDetails(t *testing.T) {
	loc := DefaultLocation()

	d := ParseCallbackDetails(Params{
		FieldAmount:        "15000000",
		FieldPayDate:       "20240115173512",
		FieldBankCode:      "NCB",
		FieldTransactionNo: "14226112",
	}, loc)

	assert.Equal(t, int64(15000000), d.Amount)
	require.NotNil(t, d.PayDate)
	assert.True(t, d.PayDate.Equal(time.Date(2024, 1, 15, 17, 35, 12, 0, loc)))
	assert.Equal(t, "NCB", d.BankCode)
	assert.Equal(t, "14226112", d.TransactionNo)
}

func TestParseCallbackDetails_Malformed(t *testing.T) {
	d := ParseCallbackDetails(Params{FieldAmount: "abc", FieldPayDate: "yesterday"}, nil)

	assert.Zero(t, d.Amount)
	assert.Nil(t, d.PayDate)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(15000000), ToMinorUnits(decimal.NewFromInt(150000)))
	assert.Equal(t, int64(15000000), ToMinorUnits(decimal.RequireFromString("150000.40")))
	assert.True(t, FromMinorUnits(15000000).Equal(decimal.NewFromInt(150000)))
}

func TestGetResponseMessage(t *testing.T) {
	assert.Equal(t, "Giao dịch thành công", GetResponseMessage(ResponseCodeSuccess))
	assert.Equal(t, "Khách hàng hủy giao dịch", GetResponseMessage(ResponseCodeUserCancelled))
	assert.Equal(t, "Giao dịch thất bại", GetResponseMessage("XX"))
}

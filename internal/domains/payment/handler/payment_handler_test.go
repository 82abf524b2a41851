package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderModel "clockshop-backend/internal/domains/order/model"
	"clockshop-backend/internal/domains/payment/model"
	"clockshop-backend/internal/domains/payment/service"
	"clockshop-backend/internal/shared/middleware"
)

type fakePaymentService struct {
	result *model.CallbackResult
	err    error

	gotValues url.Values
	gotSource service.CallbackSource
	gotOrder  int64
	gotUser   int64
}

func (f *fakePaymentService) BuildRedirectURL(ctx context.Context, orderID, amount int64, clientIP string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakePaymentService) CreatePaymentURL(ctx context.Context, customerID, orderID int64, clientIP string) (*model.CreatePaymentResponse, error) {
	f.gotUser, f.gotOrder = customerID, orderID
	if f.err != nil {
		return nil, f.err
	}
	return &model.CreatePaymentResponse{
		OrderID:    orderID,
		Gateway:    "vnpay",
		Amount:     decimal.NewFromInt(150000),
		Currency:   "VND",
		PaymentURL: "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_TxnRef=1042",
	}, nil
}

func (f *fakePaymentService) CreateBulkPaymentURL(ctx context.Context, customerID int64, req orderModel.CombineOrdersRequest, clientIP string) (*model.CreatePaymentResponse, error) {
	f.gotUser = customerID
	if f.err != nil {
		return nil, f.err
	}
	return &model.CreatePaymentResponse{OrderID: 99, Gateway: "vnpay"}, nil
}

func (f *fakePaymentService) HandleCallback(ctx context.Context, raw url.Values, source service.CallbackSource) (*model.CallbackResult, error) {
	f.gotValues = raw
	f.gotSource = source
	return f.result, f.err
}

func newRouter(svc service.PaymentService, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ClientIPMiddleware())

	h := NewPaymentHandler(svc)
	v1 := r.Group("/api/v1")
	h.RegisterCallbackRoutes(v1)

	authed := v1.Group("")
	authed.Use(func(c *gin.Context) {
		if userID > 0 {
			c.Request = c.Request.WithContext(middleware.WithIdentity(c.Request.Context(), middleware.Identity{UserID: userID, Role: middleware.RoleCustomer}))
		}
		c.Next()
	})
	h.RegisterRoutes(authed)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeIPN(t *testing.T, w *httptest.ResponseRecorder) model.IPNResponse {
	t.Helper()
	var body model.IPNResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestVNPayWebhook_RspCodes(t *testing.T) {
	tests := []struct {
		name   string
		result *model.CallbackResult
		err    error
		want   string
	}{
		{"applied", &model.CallbackResult{Status: model.CallbackStatusSuccess, OrderID: 1042}, nil, model.IPNCodeConfirmed},
		{"already applied", &model.CallbackResult{Status: model.CallbackStatusSuccess, AlreadyApplied: true}, nil, model.IPNCodeAlreadyConfirmed},
		{"bad signature", nil, model.NewInvalidSignatureError(), model.IPNCodeInvalidSignature},
		{"unknown order", nil, model.NewUnknownOrderError("1042"), model.IPNCodeOrderNotFound},
		{"store down", nil, model.NewTransientStoreError(errors.New("conn refused")), model.IPNCodeUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePaymentService{result: tt.result, err: tt.err}
			r := newRouter(svc, 0)

			w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/webhooks/vnpay?vnp_TxnRef=1042&vnp_ResponseCode=00", nil))

			assert.Equal(t, http.StatusOK, w.Code, "gateway always gets 200")
			assert.Equal(t, tt.want, decodeIPN(t, w).RspCode)
			assert.Equal(t, model.ChannelIPN, svc.gotSource.Channel)
		})
	}
}

func TestVNPayWebhook_PostForm(t *testing.T) {
	svc := &fakePaymentService{result: &model.CallbackResult{Status: model.CallbackStatusSuccess}}
	r := newRouter(svc, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/vnpay", strings.NewReader("vnp_TxnRef=1042&vnp_Amount=15000000"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(r, req)

	assert.Equal(t, model.IPNCodeConfirmed, decodeIPN(t, w).RspCode)
	assert.Equal(t, "1042", svc.gotValues.Get("vnp_TxnRef"))
	assert.Equal(t, "15000000", svc.gotValues.Get("vnp_Amount"))
}

func TestVNPayReturn(t *testing.T) {
	tests := []struct {
		name     string
		result   *model.CallbackResult
		err      error
		wantCode int
		wantErr  string
	}{
		{"success", &model.CallbackResult{Status: model.CallbackStatusSuccess, OrderID: 1042, Message: "Thanh toán thành công"}, nil, http.StatusOK, ""},
		{"bad signature", nil, model.NewInvalidSignatureError(), http.StatusBadRequest, model.ErrCodeInvalidSignature},
		{"unknown order", nil, model.NewUnknownOrderError("1042"), http.StatusNotFound, model.ErrCodeUnknownOrder},
		{"store down", nil, model.NewTransientStoreError(errors.New("timeout")), http.StatusServiceUnavailable, model.ErrCodeTransientStore},
		{"untyped error", nil, errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePaymentService{result: tt.result, err: tt.err}
			r := newRouter(svc, 0)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/vnpay/return?vnp_TxnRef=1042", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7")
			w := serve(r, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, model.ChannelReturn, svc.gotSource.Channel)
			assert.Equal(t, "203.0.113.7", svc.gotSource.ClientIP)

			var body struct {
				Success bool `json:"success"`
				Error   *struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantErr == "" {
				assert.True(t, body.Success)
				return
			}
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantErr, body.Error.Code)
		})
	}
}

func TestCreatePayment(t *testing.T) {
	svc := &fakePaymentService{}
	r := newRouter(svc, 77)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/payments/vnpay/orders/1042", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(77), svc.gotUser)
	assert.Equal(t, int64(1042), svc.gotOrder)
	assert.Contains(t, w.Body.String(), "vpcpay.html")
}

func TestCreatePayment_Errors(t *testing.T) {
	tests := []struct {
		name     string
		userID   int64
		path     string
		err      error
		wantCode int
	}{
		{"no identity", 0, "/api/v1/payments/vnpay/orders/1042", nil, http.StatusUnauthorized},
		{"bad id", 77, "/api/v1/payments/vnpay/orders/abc", nil, http.StatusBadRequest},
		{"not owner", 77, "/api/v1/payments/vnpay/orders/1042", model.NewUnauthorizedError(), http.StatusForbidden},
		{"already paid", 77, "/api/v1/payments/vnpay/orders/1042", model.NewOrderAlreadyPaidError(1042), http.StatusConflict},
		{"cancelled", 77, "/api/v1/payments/vnpay/orders/1042", model.NewOrderCancelledError(1042), http.StatusConflict},
		{"validation", 77, "/api/v1/payments/vnpay/orders/1042", model.NewValidationError("Order total must be positive", nil), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakePaymentService{err: tt.err}, tt.userID)

			w := serve(r, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestCreateBulkPayment(t *testing.T) {
	svc := &fakePaymentService{}
	r := newRouter(svc, 77)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/vnpay/bulk", strings.NewReader(`{"order_ids":[1,2]}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	bad := httptest.NewRequest(http.MethodPost, "/api/v1/payments/vnpay/bulk", strings.NewReader(`{`))
	bad.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(r, bad).Code)
}

package vnpay

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize_SortsKeys(t *testing.T) {
	a := Canonicalize(Params{"b": "2", "a": "1"})
	b := Canonicalize(Params{"a": "1", "b": "2"})

	assert.Equal(t, "a=1&b=2", a)
	assert.Equal(t, a, b, "insertion order must not matter")
}

func TestCanonicalize_DropsEmptyValues(t *testing.T) {
	assert.Equal(t, "a=1", Canonicalize(Params{"a": "1", "b": ""}))
}

func TestCanonicalize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Canonicalize(nil))
	assert.Equal(t, "", Canonicalize(Params{"only": ""}))
}

func TestCanonicalize_FormEncodesValues(t *testing.T) {
	got := Canonicalize(Params{
		FieldOrderInfo: "Thanh toan don 1",
		FieldReturnURL: "https://shop.vn/return?x=1",
	})

	assert.Equal(t,
		"vnp_OrderInfo=Thanh+toan+don+1&vnp_ReturnUrl=https%3A%2F%2Fshop.vn%2Freturn%3Fx%3D1",
		got,
	)
}

func TestCanonicalize_ByteWiseOrder(t *testing.T) {
	// uppercase sorts before lowercase
	got := Canonicalize(Params{"vnp_amount": "1", "vnp_Amount": "2", "vnp_TxnRef": "3"})
	assert.Equal(t, "vnp_Amount=2&vnp_TxnRef=3&vnp_amount=1", got)
}

func TestCanonicalize_DoesNotMutateInput(t *testing.T) {
	params := Params{"a": "1", "b": ""}
	_ = Canonicalize(params)

	assert.Len(t, params, 2)
	assert.Equal(t, "", params["b"])
}

func TestParams_Without(t *testing.T) {
	params := Params{FieldTxnRef: "1", FieldSecureHash: "abc", FieldSecureHashType: "HmacSHA512"}
	stripped := params.Without(FieldSecureHash, FieldSecureHashType)

	assert.Equal(t, Params{FieldTxnRef: "1"}, stripped)
	assert.Len(t, params, 3, "original keeps its fields")
}

func TestExtractParams_KeepsGatewayFieldsOnly(t *testing.T) {
	values := url.Values{
		FieldTxnRef:       {"1042", "9999"},
		FieldResponseCode: {"00"},
		"utm_source":      {"mail"},
		FieldBankCode:     {},
	}

	params := ExtractParams(values)

	assert.Equal(t, Params{FieldTxnRef: "1042", FieldResponseCode: "00"}, params)
}

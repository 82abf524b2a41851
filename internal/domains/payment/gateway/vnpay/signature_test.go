package vnpay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231, test case 2
	got := Sign("what do ya want for nothing?", "Jefe")

	assert.Equal(t,
		"164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737",
		got,
	)
}

func TestSign_LowercaseHex(t *testing.T) {
	sig := Sign("a=1&b=2", "SECRET")

	assert.Regexp(t, `^[0-9a-f]{128}$`, sig, "signature should be 128-char lowercase hex (SHA-512)")
}

func TestSign_Deterministic(t *testing.T) {
	assert.Equal(t, Sign("data", "key"), Sign("data", "key"))
}

func TestSign_EmptyCanonical(t *testing.T) {
	sig := Sign("", "SECRET")

	assert.Len(t, sig, 128)
	assert.True(t, Verify("", "SECRET", sig))
}

func TestVerify_RoundTrip(t *testing.T) {
	inputs := []string{"", "a=1", "vnp_Amount=15000000&vnp_TxnRef=1042", "Thanh+to%C3%A1n"}
	for _, s := range inputs {
		assert.True(t, Verify(s, "SECRET", Sign(s, "SECRET")), s)
	}
}

func TestVerify_IgnoresHexCase(t *testing.T) {
	sig := Sign("a=1", "SECRET")
	assert.True(t, Verify("a=1", "SECRET", strings.ToUpper(sig)))
}

func TestVerify_Rejects(t *testing.T) {
	sig := Sign("a=1", "SECRET")

	tests := []struct {
		name      string
		canonical string
		secret    string
		received  string
	}{
		{"wrong key", "a=1", "OTHER", sig},
		{"wrong payload", "a=2", "SECRET", sig},
		{"empty signature", "a=1", "SECRET", ""},
		{"not hex", "a=1", "SECRET", "zz" + sig[2:]},
		{"truncated", "a=1", "SECRET", sig[:64]},
		{"extra digits", "a=1", "SECRET", sig + "00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify(tt.canonical, tt.secret, tt.received))
		})
	}
}

func TestVerifyParams_ExcludesSignatureFields(t *testing.T) {
	params := Params{FieldTxnRef: "1042", FieldResponseCode: "00"}
	signed := params.Clone()
	signed[FieldSecureHash] = SignParams(params, "SECRET")
	signed[FieldSecureHashType] = "HmacSHA512"

	assert.True(t, VerifyParams(signed, "SECRET"))
}

func TestVerifyParams_MissingSignature(t *testing.T) {
	assert.False(t, VerifyParams(Params{FieldTxnRef: "1042"}, "SECRET"))
}

package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// =====================================================
// VNPAY SIGNATURE
// =====================================================

// Sign computes HMAC-SHA512 of canonical keyed by secret, rendered as lowercase hex
func Sign(canonical, secret string) string {
	return hex.EncodeToString(computeMAC(canonical, secret))
}

// Verify reports whether received is the signature of canonical under secret.
// Hex case is ignored and the comparison runs in constant time.
func Verify(canonical, secret, received string) bool {
	if received == "" {
		return false
	}
	got, err := hex.DecodeString(received)
	if err != nil {
		return false
	}
	return hmac.Equal(computeMAC(canonical, secret), got)
}

// SignParams canonicalizes params without the signature fields and signs the result
func SignParams(params Params, secret string) string {
	return Sign(Canonicalize(params.Without(FieldSecureHash, FieldSecureHashType)), secret)
}

// VerifyParams checks the vnp_SecureHash carried inside params
func VerifyParams(params Params, secret string) bool {
	received, ok := params[FieldSecureHash]
	if !ok {
		return false
	}
	return Verify(Canonicalize(params.Without(FieldSecureHash, FieldSecureHashType)), secret, received)
}

func computeMAC(data, secret string) []byte {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier authenticates payment-completion callbacks. The
// provider signs "orderID|paymentID" with the shared secret; nothing
// else in the callback is trusted.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify reports whether signature is the hex HMAC-SHA256 digest of
// orderID + "|" + paymentID under the shared secret. The comparison is
// constant time so equality cannot leak how long a matching prefix is.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

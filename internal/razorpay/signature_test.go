package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_ValidSignature(t *testing.T) {
	v := NewSignatureVerifier("test-secret")
	sig := sign("test-secret", "order_A1", "pay_B2")
	assert.True(t, v.Verify("order_A1", "pay_B2", sig))
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewSignatureVerifier("test-secret")
	sig := sign("other-secret", "order_A1", "pay_B2")
	assert.False(t, v.Verify("order_A1", "pay_B2", sig))
}

func TestVerify_SwappedFields(t *testing.T) {
	v := NewSignatureVerifier("test-secret")
	sig := sign("test-secret", "order_A1", "pay_B2")
	assert.False(t, v.Verify("pay_B2", "order_A1", sig))
}

func TestVerify_EmptySignature(t *testing.T) {
	v := NewSignatureVerifier("test-secret")
	assert.False(t, v.Verify("order_A1", "pay_B2", ""))
}

func TestVerify_SingleBitMutationFails(t *testing.T) {
	v := NewSignatureVerifier("test-secret")
	sig := sign("test-secret", "order_A1", "pay_B2")
	require.True(t, v.Verify("order_A1", "pay_B2", sig))

	raw, err := hex.DecodeString(sig)
	require.NoError(t, err)

	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			mutated := make([]byte, len(raw))
			copy(mutated, raw)
			mutated[i] ^= 1 << bit
			assert.False(t, v.Verify("order_A1", "pay_B2", hex.EncodeToString(mutated)),
				"flipping byte %d bit %d should invalidate the signature", i, bit)
		}
	}
}

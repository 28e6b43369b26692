package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")

	assert.True(t, VerifySignature("secret", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_2", sig))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))

	g := NewRazorpayGateway("key", "secret")
	assert.True(t, g.VerifyPaymentSignature("order_1", "pay_1", sig))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(200000), ToPaise(2000))
	assert.Equal(t, int64(1999), ToPaise(19.99))
	assert.Equal(t, int64(0), ToPaise(0))
}

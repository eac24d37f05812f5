package billing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider() *Provider {
	return NewProvider(Config{
		MerchantID:  "pitchly-test",
		Secret:      "test-secret",
		CheckoutURL: "https://pay.example.com/checkout",
	})
}

func TestSignAndVerify(t *testing.T) {
	p := testProvider()

	sig := p.Sign("inv-1", 29.0)
	assert.True(t, p.VerifySignature("inv-1", 29.0, sig))

	// Any tampering breaks the signature.
	assert.False(t, p.VerifySignature("inv-1", 290.0, sig))
	assert.False(t, p.VerifySignature("inv-2", 29.0, sig))
	assert.False(t, p.VerifySignature("inv-1", 29.0, "deadbeef"))
	assert.False(t, p.VerifySignature("inv-1", 29.0, ""))
}

func TestSignatureDependsOnSecret(t *testing.T) {
	p := testProvider()
	other := NewProvider(Config{MerchantID: "pitchly-test", Secret: "different", CheckoutURL: "https://pay.example.com"})

	assert.NotEqual(t, p.Sign("inv-1", 29.0), other.Sign("inv-1", 29.0))
}

func TestCheckoutURL(t *testing.T) {
	p := testProvider()

	raw := p.CheckoutURL("inv-42", 79.0, "Pitchly agency subscription")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "pitchly-test", q.Get("merchant"))
	assert.Equal(t, "inv-42", q.Get("invoice"))
	assert.Equal(t, "79.00", q.Get("amount"))
	assert.Equal(t, "Pitchly agency subscription", q.Get("description"))
	assert.True(t, p.VerifySignature("inv-42", 79.0, q.Get("signature")))
}

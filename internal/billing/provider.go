package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
)

// Provider builds hosted checkout links and verifies payment callbacks.
// Signatures are HMAC-SHA256 over "merchant:invoice:amount" so a callback
// cannot be forged or replayed with a different amount.
type Provider struct {
	merchantID  string
	secret      string
	checkoutURL string
}

type Config struct {
	MerchantID  string
	Secret      string
	CheckoutURL string
}

func NewProvider(cfg Config) *Provider {
	return &Provider{
		merchantID:  cfg.MerchantID,
		secret:      cfg.Secret,
		checkoutURL: cfg.CheckoutURL,
	}
}

// CheckoutURL returns the hosted payment page link for an invoice.
func (p *Provider) CheckoutURL(invoiceID string, amount float64, description string) string {
	values := url.Values{}
	values.Set("merchant", p.merchantID)
	values.Set("invoice", invoiceID)
	values.Set("amount", formatAmount(amount))
	values.Set("description", description)
	values.Set("signature", p.Sign(invoiceID, amount))

	return p.checkoutURL + "?" + values.Encode()
}

// Sign computes the signature for an invoice/amount pair.
func (p *Provider) Sign(invoiceID string, amount float64) string {
	payload := fmt.Sprintf("%s:%s:%s", p.merchantID, invoiceID, formatAmount(amount))
	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a callback signature in constant time.
func (p *Provider) VerifySignature(invoiceID string, amount float64, signature string) bool {
	expected := p.Sign(invoiceID, amount)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/craftline/storefront/internal/payment"
)

func TestCanonicalize(t *testing.T) {
	got := payment.Canonicalize(map[string]string{
		"orderId":    "ORD123",
		"amount":     "12345",
		"currency":   "INR",
		"emptyField": "",
	})

	assert.Equal(t, "amount=12345&currency=INR&orderId=ORD123", got)
}

func TestSignAndVerify(t *testing.T) {
	signer := payment.NewSigner("merchant-secret")
	params := map[string]string{
		"amount":             "12345",
		"buyerEmail":         "buyer@example.com",
		"currency":           "INR",
		"merchantIdentifier": "MID42",
		"orderId":            "ORD1756450000000",
	}

	checksum := signer.Sign(params)
	assert.Len(t, checksum, 64)
	assert.Equal(t, strings.ToLower(checksum), checksum)

	t.Run("Should verify own signature", func(t *testing.T) {
		assert.True(t, signer.Verify(params, checksum))
	})

	t.Run("Should verify uppercase received hex", func(t *testing.T) {
		assert.True(t, signer.Verify(params, strings.ToUpper(checksum)))
	})

	t.Run("Should reject single mutated value", func(t *testing.T) {
		tampered := map[string]string{}
		for k, v := range params {
			tampered[k] = v
		}
		tampered["amount"] = "12346"

		assert.False(t, signer.Verify(tampered, checksum))
	})

	t.Run("Should reject wrong secret", func(t *testing.T) {
		other := payment.NewSigner("other-secret")
		assert.False(t, other.Verify(params, checksum))
	})
}

// gatewayChecksum mirrors the gateway's own signing: sorted name=value pairs
// joined by "&", HMAC-SHA256 in lowercase hex.
func gatewayChecksum(secret string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignMatchesGateway(t *testing.T) {
	const secret = "merchant-secret"
	signer := payment.NewSigner(secret)
	params := map[string]string{
		"amount":             "12345",
		"buyerEmail":         "buyer@example.com",
		"currency":           "INR",
		"merchantIdentifier": "MID42",
		"orderId":            "ORD1756450000000",
	}

	expected := gatewayChecksum(secret, params)

	t.Run("Should produce the same checksum the gateway computes", func(t *testing.T) {
		assert.Equal(t, expected, signer.Sign(params))
	})

	t.Run("Should verify a gateway-signed callback", func(t *testing.T) {
		assert.True(t, signer.Verify(params, expected))
	})
}

func TestBuildRedirectURL(t *testing.T) {
	fields := []payment.Field{
		{Name: "amount", Value: "12345"},
		{Name: "buyerFirstName", Value: "Guest"},
		{Name: payment.BuyerEmailField, Value: "buyer+vip@example.com"},
		{Name: "productDescription", Value: "Storefront order"},
		{Name: "returnUrl", Value: "https://shop.example.com/return"},
	}

	got := payment.BuildRedirectURL("https://gw.example.com/pay", fields, "abc123")

	t.Run("Should keep field order and append checksum last", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(got, "https://gw.example.com/pay?amount=12345&"))
		assert.True(t, strings.HasSuffix(got, "&checksum=abc123"))
		assert.Less(t, strings.Index(got, "amount="), strings.Index(got, "buyerFirstName="))
		assert.Less(t, strings.Index(got, "buyerFirstName="), strings.Index(got, "buyerEmail="))
	})

	t.Run("Should escape values with spaces as percent-20", func(t *testing.T) {
		assert.Contains(t, got, "productDescription=Storefront%20order")
		assert.Contains(t, got, "returnUrl=https%3A%2F%2Fshop.example.com%2Freturn")
	})

	t.Run("Should leave buyer email verbatim", func(t *testing.T) {
		assert.Contains(t, got, "buyerEmail=buyer+vip@example.com")
	})
}

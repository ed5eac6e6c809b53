package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"math"
)

const (
	feeRate          = 0.015
	flatFee          = 100.0
	flatFeeThreshold = 2500.0
	feeCap           = 2000.0
)

// CalculateFee returns the provider's charge fee in naira: 1.5% of the
// amount, plus a flat 100 once the amount exceeds 2500, capped at 2000.
func CalculateFee(amount float64) float64 {
	fee := amount * feeRate
	if amount > flatFeeThreshold {
		fee += flatFee
	}
	return math.Min(fee, feeCap)
}

// VerifyWebhookSignature checks the X-Paystack-Signature header: an
// HMAC-SHA512 of the raw body keyed with the secret key, hex encoded.
func VerifyWebhookSignature(secretKey string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

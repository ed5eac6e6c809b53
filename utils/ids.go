package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return b.String()
}

// GenerateTransactionID returns a customer-facing payment identifier of
// the form TXN_<epochMillis>_<9 random chars>.
func GenerateTransactionID() string {
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), randomSuffix(9))
}

// GenerateReferenceNumber returns a gateway reference of the form
// REF_<epochMillis>_<9 random chars, uppercased>.
func GenerateReferenceNumber() string {
	return fmt.Sprintf("REF_%d_%s", time.Now().UnixMilli(), strings.ToUpper(randomSuffix(9)))
}

// GenerateRefundReference returns an identifier for a refund ledger entry.
func GenerateRefundReference() string {
	return fmt.Sprintf("REF_%d_%s", time.Now().UnixMilli(), strings.ToUpper(randomSuffix(9)))
}

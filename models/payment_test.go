package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCautionFeeRefundPercentage(t *testing.T) {
	p := &Payment{Status: PaymentCompleted, CautionFee: 5000}
	assert.Equal(t, "0%", p.CautionFeeRefundPercentage())

	p.CautionFeeRefund = &CautionFeeRefund{
		OriginalCautionFee: 5000,
		RefundedAmount:     3000,
		DamageCharges:      2000,
		RefundStatus:       CautionRefundPartial,
	}
	assert.Equal(t, "60.0%", p.CautionFeeRefundPercentage())

	p.CautionFeeRefund.RefundedAmount = 5000
	p.CautionFeeRefund.DamageCharges = 0
	assert.Equal(t, "100.0%", p.CautionFeeRefundPercentage())

	var nilLedger *CautionFeeRefund
	assert.Equal(t, "0%", nilLedger.RefundPercentage())
}

func TestCautionFeeRefundEligible(t *testing.T) {
	p := &Payment{Status: PaymentCompleted, CautionFee: 5000}
	assert.True(t, p.CautionFeeRefundEligible())

	p.CautionFeeRefund = &CautionFeeRefund{RefundStatus: CautionRefundFull}
	assert.False(t, p.CautionFeeRefundEligible())

	assert.False(t, (&Payment{Status: PaymentProcessing, CautionFee: 5000}).CautionFeeRefundEligible())
	assert.False(t, (&Payment{Status: PaymentCompleted}).CautionFeeRefundEligible())
}

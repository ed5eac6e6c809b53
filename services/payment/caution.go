package payment

import (
	"context"

	"hallbook/models"
	"hallbook/utils"

	"go.uber.org/zap"
)

// ProcessCautionRefund records the post-event damage assessment for a
// completed payment's caution fee. Refund plus damage charges can never
// exceed the fee that was collected.
func (s *paymentService) ProcessCautionRefund(ctx context.Context, req CautionRefundRequest) (*models.Payment, error) {
	p, err := s.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if !p.CautionFeeRefundEligible() {
		return nil, ErrCautionNotEligible
	}
	if req.RefundAmount+req.DamageCharges > p.CautionFee {
		return nil, ErrCautionLedgerExceeded
	}

	now := s.now()
	p.CautionFeeRefund = &models.CautionFeeRefund{
		OriginalCautionFee: p.CautionFee,
		RefundedAmount:     req.RefundAmount,
		DamageCharges:      req.DamageCharges,
		RefundStatus:       cautionStatusFor(req.RefundAmount, p.CautionFee),
		ProcessedBy:        req.AdminID,
		ProcessedAt:        &now,
		RefundReason:       req.RefundReason,
		DamageDescription:  req.DamageDescription,
		ProcessedOffline:   req.ProcessedOffline,
		OfflineReference:   req.OfflineReference,
	}
	p.RefundAmount += req.RefundAmount
	p.RefundStatus = overallRefundStatus(p)
	p.UpdatedAt = now

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Caution fee assessed",
		zap.String("paymentId", p.ID),
		zap.Float64("refunded", req.RefundAmount),
		zap.Float64("damageCharges", req.DamageCharges))

	s.publish(models.Event{
		Kind:      models.EventCautionFeeProcessed,
		UserID:    p.UserID,
		BookingID: p.BookingID,
		PaymentID: p.ID,
		Payment:   p,
		Amount:    req.RefundAmount,
	})
	return p, nil
}

// UpdateCautionRefund revises an existing assessment. The previous
// refunded amount is backed out of the overall refund ledger before the
// new one is added, so revisions never double count.
func (s *paymentService) UpdateCautionRefund(ctx context.Context, req CautionRefundRequest) (*models.Payment, error) {
	p, err := s.GetPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	ledger := p.CautionFeeRefund
	if ledger == nil {
		return nil, ErrNoCautionLedger
	}
	if req.RefundAmount+req.DamageCharges > ledger.OriginalCautionFee {
		return nil, ErrCautionLedgerExceeded
	}

	now := s.now()
	p.RefundAmount -= ledger.RefundedAmount
	p.RefundAmount += req.RefundAmount

	ledger.RefundedAmount = req.RefundAmount
	ledger.DamageCharges = req.DamageCharges
	ledger.RefundStatus = cautionStatusFor(req.RefundAmount, ledger.OriginalCautionFee)
	ledger.ProcessedBy = req.AdminID
	ledger.ProcessedAt = &now
	if req.RefundReason != "" {
		ledger.RefundReason = req.RefundReason
	}
	if req.DamageDescription != "" {
		ledger.DamageDescription = req.DamageDescription
	}
	ledger.ProcessedOffline = req.ProcessedOffline
	ledger.OfflineReference = req.OfflineReference

	p.RefundStatus = overallRefundStatus(p)
	p.UpdatedAt = now

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Caution fee assessment updated",
		zap.String("paymentId", p.ID),
		zap.Float64("refunded", req.RefundAmount),
		zap.Float64("damageCharges", req.DamageCharges))
	return p, nil
}

// CautionRefundHistory returns a payment's caution-fee sub-ledger.
func (s *paymentService) CautionRefundHistory(ctx context.Context, transactionID string) (*models.CautionFeeRefund, error) {
	p, err := s.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if p.CautionFeeRefund == nil {
		return nil, ErrNoCautionLedger
	}
	return p.CautionFeeRefund, nil
}

// EligibleCautionRefunds lists completed payments whose caution fee still
// awaits a damage assessment.
func (s *paymentService) EligibleCautionRefunds(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.payments.FindCompletedWithCautionFee(ctx)
	if err != nil {
		return nil, err
	}
	eligible := payments[:0]
	for i := range payments {
		if payments[i].CautionFeeRefundEligible() {
			eligible = append(eligible, payments[i])
		}
	}
	return eligible, nil
}

// cautionStatusFor derives the sub-ledger state from the refunded share.
func cautionStatusFor(refunded, original float64) models.CautionRefundStatus {
	switch {
	case refunded <= 0:
		return models.CautionRefundNone
	case refunded >= original:
		return models.CautionRefundFull
	default:
		return models.CautionRefundPartial
	}
}

func overallRefundStatus(p *models.Payment) models.RefundStatus {
	switch {
	case p.RefundAmount <= 0:
		return models.RefundNone
	case p.RefundAmount >= p.Amount:
		return models.RefundFull
	default:
		return models.RefundPartial
	}
}

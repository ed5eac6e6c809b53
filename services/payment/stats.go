package payment

import (
	"context"
	"time"

	"hallbook/models"
)

// RevenueBreakdown separates hall revenue from caution-fee money, which
// is held against damages rather than earned.
type RevenueBreakdown struct {
	GrossRevenue          float64 `json:"grossRevenue"`
	HallRevenue           float64 `json:"hallRevenue"`
	CautionFeesCollected  float64 `json:"cautionFeesCollected"`
	CautionFeesRefunded   float64 `json:"cautionFeesRefunded"`
	DamageChargesRetained float64 `json:"damageChargesRetained"`
	GatewayFees           float64 `json:"gatewayFees"`
	NetRevenue            float64 `json:"netRevenue"`
	PaymentCount          int     `json:"paymentCount"`
}

// CautionFeeStats summarizes where caution money currently sits.
type CautionFeeStats struct {
	TotalCollected  float64 `json:"totalCollected"`
	TotalRefunded   float64 `json:"totalRefunded"`
	TotalDamages    float64 `json:"totalDamages"`
	PendingCount    int     `json:"pendingCount"`
	FullRefunds     int     `json:"fullRefunds"`
	PartialRefunds  int     `json:"partialRefunds"`
	WithheldInFull  int     `json:"withheldInFull"`
	OutstandingHeld float64 `json:"outstandingHeld"`
}

// ReceiptData is everything the receipt email and endpoint render.
type ReceiptData struct {
	TransactionID   string           `json:"transactionId"`
	ReferenceNumber string           `json:"referenceNumber"`
	CustomerName    string           `json:"customerName"`
	CustomerEmail   string           `json:"customerEmail"`
	HallID          string           `json:"hallId"`
	EventDates      []time.Time      `json:"eventDates"`
	Amount          float64          `json:"amount"`
	CautionFee      float64          `json:"cautionFee"`
	Method          models.PaymentMethod `json:"method"`
	Status          models.PaymentStatus `json:"status"`
	PaymentDate     *time.Time       `json:"paymentDate,omitempty"`
}

// RevenueBreakdown aggregates completed payments inside the window.
// Zero-valued bounds leave that side open.
func (s *paymentService) RevenueBreakdown(ctx context.Context, from, to time.Time) (*RevenueBreakdown, error) {
	completed, err := s.payments.FindCompletedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := &RevenueBreakdown{PaymentCount: len(completed)}
	for i := range completed {
		p := &completed[i]
		out.GrossRevenue += p.Amount
		out.CautionFeesCollected += p.CautionFee
		out.GatewayFees += p.GatewayFee
		out.NetRevenue += p.NetAmount
		if p.CautionFeeRefund != nil {
			out.CautionFeesRefunded += p.CautionFeeRefund.RefundedAmount
			out.DamageChargesRetained += p.CautionFeeRefund.DamageCharges
		}
	}
	out.HallRevenue = out.GrossRevenue - out.CautionFeesCollected
	return out, nil
}

// CautionFeeStats aggregates the caution sub-ledgers of all completed
// payments that collected a fee.
func (s *paymentService) CautionFeeStats(ctx context.Context) (*CautionFeeStats, error) {
	payments, err := s.payments.FindCompletedWithCautionFee(ctx)
	if err != nil {
		return nil, err
	}

	out := &CautionFeeStats{}
	for i := range payments {
		p := &payments[i]
		out.TotalCollected += p.CautionFee
		ledger := p.CautionFeeRefund
		if ledger == nil || ledger.RefundStatus == models.CautionRefundPending {
			out.PendingCount++
			out.OutstandingHeld += p.CautionFee
			continue
		}
		out.TotalRefunded += ledger.RefundedAmount
		out.TotalDamages += ledger.DamageCharges
		out.OutstandingHeld += p.CautionFee - ledger.RefundedAmount - ledger.DamageCharges
		switch ledger.RefundStatus {
		case models.CautionRefundFull:
			out.FullRefunds++
		case models.CautionRefundPartial:
			out.PartialRefunds++
		case models.CautionRefundNone:
			out.WithheldInFull++
		}
	}
	return out, nil
}

// Receipt builds the customer-facing receipt for one of their payments.
func (s *paymentService) Receipt(ctx context.Context, transactionID, userID string) (*ReceiptData, error) {
	p, err := s.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotOwner
	}
	booking, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	return &ReceiptData{
		TransactionID:   p.TransactionID,
		ReferenceNumber: p.ReferenceNumber,
		CustomerName:    booking.CustomerName,
		CustomerEmail:   booking.CustomerEmail,
		HallID:          booking.HallID,
		EventDates:      booking.EventDates,
		Amount:          p.Amount,
		CautionFee:      p.CautionFee,
		Method:          p.Method,
		Status:          p.Status,
		PaymentDate:     p.PaymentDate,
	}, nil
}

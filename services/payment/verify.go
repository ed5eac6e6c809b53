package payment

import (
	"context"
	"fmt"
	"math"

	"hallbook/config"
	"hallbook/database"
	"hallbook/models"
	"hallbook/services/payment/gateway"
	"hallbook/utils"

	"go.uber.org/zap"
)

func gatewayFeeFor(amount float64) float64 {
	return gateway.CalculateFee(amount)
}

func gatewayInitRequest(booking *models.Booking, p *models.Payment) gateway.InitializeRequest {
	return gateway.InitializeRequest{
		Email:       booking.CustomerEmail,
		AmountKobo:  int64(math.Round(p.Amount * 100)),
		Reference:   p.ReferenceNumber,
		CallbackURL: config.AppConfig.PaystackCallbackURL,
		Metadata:    p.Metadata,
	}
}

// VerifyPayment asks the gateway for the settled state of a charge and
// applies the outcome. Only a processing payment triggers the gateway
// call; anything else (settled, or a transfer still awaiting its proof)
// is returned unchanged, which makes repeated polling safe.
func (s *paymentService) VerifyPayment(ctx context.Context, reference string) (*models.Payment, error) {
	p, err := s.payments.GetByReferenceNumber(ctx, reference)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	if p.Status != models.PaymentProcessing {
		return p, nil
	}

	v, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment with gateway: %w", err)
	}
	if err := s.applyGatewayResult(ctx, p, v); err != nil {
		return nil, err
	}
	return p, nil
}

// HandleWebhookEvent applies a signed gateway event. Success events are
// re-verified against the gateway before money-state changes.
func (s *paymentService) HandleWebhookEvent(ctx context.Context, eventKind, reference string) error {
	p, err := s.payments.GetByReferenceNumber(ctx, reference)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPaymentNotFound
	}

	switch eventKind {
	case "charge.success":
		v, err := s.gateway.Verify(ctx, reference)
		if err != nil {
			return fmt.Errorf("failed to verify webhook charge: %w", err)
		}
		return s.applyGatewayResult(ctx, p, v)
	case "charge.failed":
		return s.applyGatewayResult(ctx, p, &gateway.VerifyResponse{Status: "failed", Reference: reference})
	default:
		// Unknown events are acknowledged and dropped.
		utils.GetLogger().Debug("Ignoring gateway webhook event", zap.String("event", eventKind))
		return nil
	}
}

// applyGatewayResult moves a processing payment to its settled state.
// Payments in any other state are left untouched, which makes webhook
// redelivery and verify/webhook races harmless.
func (s *paymentService) applyGatewayResult(ctx context.Context, p *models.Payment, v *gateway.VerifyResponse) error {
	if p.Status != models.PaymentProcessing {
		return nil
	}

	p.GatewayResponse = &models.GatewayResponse{
		GatewayTransactionID: v.GatewayTxnID,
		GatewayReference:     v.Reference,
		GatewayStatus:        v.Status,
		GatewayMessage:       v.GatewayStatus,
	}
	if v.CardLast4 != "" {
		p.CardDetails = &models.CardDetails{
			Last4Digits: v.CardLast4,
			CardType:    v.CardType,
		}
	}

	if v.Succeeded() {
		return s.settleCompleted(ctx, p)
	}
	return s.settleFailed(ctx, p, "Payment failed")
}

// settleCompleted finalizes a successful payment and confirms its booking
// in one logical unit.
func (s *paymentService) settleCompleted(ctx context.Context, p *models.Payment) error {
	booking, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	now := s.now()
	p.Status = models.PaymentCompleted
	p.PaymentDate = &now
	p.UpdatedAt = now

	booking.PaymentStatus = models.BookingPaymentPaid
	booking.PaymentReference = p.TransactionID
	if booking.Status == models.BookingPending {
		booking.Status = models.BookingConfirmed
	}
	booking.UpdatedAt = now

	err = database.WithTransaction(ctx, func(sc context.Context) error {
		if err := s.payments.Update(sc, p); err != nil {
			return err
		}
		return s.bookings.Update(sc, booking)
	})
	if err != nil {
		return err
	}

	utils.GetLogger().Info("Payment completed",
		zap.String("transactionId", p.TransactionID),
		zap.String("bookingId", booking.ID),
		zap.Float64("amount", p.Amount))

	s.publish(models.Event{
		Kind:      models.EventPaymentCompleted,
		UserID:    p.UserID,
		Email:     booking.CustomerEmail,
		BookingID: booking.ID,
		PaymentID: p.ID,
		Booking:   booking,
		Payment:   p,
		Amount:    p.Amount,
	})
	if booking.Status == models.BookingConfirmed {
		s.publish(models.Event{
			Kind:      models.EventBookingConfirmed,
			UserID:    booking.UserID,
			Email:     booking.CustomerEmail,
			BookingID: booking.ID,
			Booking:   booking,
		})
	}
	return nil
}

// settleFailed marks the payment failed and cancels its booking. An
// unverifiable payment counts as not-paid, so the slots go back on the
// market rather than sit behind an ambiguous booking.
func (s *paymentService) settleFailed(ctx context.Context, p *models.Payment, reason string) error {
	booking, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}

	now := s.now()
	p.Status = models.PaymentFailed
	p.UpdatedAt = now

	cancelled := false
	err = database.WithTransaction(ctx, func(sc context.Context) error {
		if err := s.payments.Update(sc, p); err != nil {
			return err
		}
		if booking == nil || booking.Status.IsTerminal() {
			return nil
		}
		booking.Status = models.BookingCancelled
		booking.PaymentStatus = models.BookingPaymentFailed
		booking.RefundReason = reason
		booking.CancelledBy = models.CancelledBySystem
		booking.CancelledAt = &now
		booking.UpdatedAt = now
		cancelled = true
		return s.bookings.Update(sc, booking)
	})
	if err != nil {
		return err
	}

	if cancelled {
		if err := s.bookings.ReleaseDates(ctx, booking.ID); err != nil {
			utils.GetLogger().Error("Failed to release date claims after failed payment",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	utils.GetLogger().Warn("Payment failed",
		zap.String("transactionId", p.TransactionID),
		zap.String("bookingId", p.BookingID))

	email := ""
	if booking != nil {
		email = booking.CustomerEmail
	}
	s.publish(models.Event{
		Kind:      models.EventPaymentFailed,
		UserID:    p.UserID,
		Email:     email,
		BookingID: p.BookingID,
		PaymentID: p.ID,
		Booking:   booking,
		Payment:   p,
	})
	return nil
}

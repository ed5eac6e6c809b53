package booking

import (
	"context"

	"hallbook/database"
	"hallbook/models"
	"hallbook/utils"

	"go.uber.org/zap"
)

// CancelByUser cancels a customer's own booking before the deadline and
// credits the fixed 90% refund. The refund is recorded on the booking
// whether or not money has moved yet; only a completed payment gets the
// matching refund entry.
func (s *bookingService) CancelByUser(ctx context.Context, bookingID, userID, reason string) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}
	// The deadline itself is outside the window: cancelling at exactly
	// deadline time is rejected.
	if !booking.CanCancel(s.now()) {
		return nil, ErrDeadlinePassed
	}

	refund := UserRefundAmount(booking.TotalAmount)
	if err := s.applyCancellation(ctx, booking, refund, reason, models.CancelledByUser); err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelByAdmin cancels any non-terminal booking with an admin-chosen
// refund amount, defaulting to the standard 90% when none is given.
// No deadline applies.
func (s *bookingService) CancelByAdmin(ctx context.Context, req AdminCancelRequest) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}
	refund := UserRefundAmount(booking.TotalAmount)
	if req.RefundAmount != nil {
		refund = *req.RefundAmount
	}
	if refund > booking.TotalAmount {
		return nil, ErrRefundExceedsTotal
	}
	if err := s.applyCancellation(ctx, booking, refund, req.Reason, models.CancelledByAdmin); err != nil {
		return nil, err
	}
	return booking, nil
}

// applyCancellation writes the cancelled state to the booking and its
// active payment as one logical unit, releases the date slots, and emits
// the cancellation event.
func (s *bookingService) applyCancellation(ctx context.Context, booking *models.Booking, refund float64, reason string, by models.CancelledBy) error {
	logger := utils.GetLogger()
	now := s.now()

	booking.Status = models.BookingCancelled
	booking.RefundAmount = refund
	booking.RefundReason = reason
	booking.CancelledBy = by
	booking.CancelledAt = &now
	booking.UpdatedAt = now
	// The 90% self-service amount is the full refund entitlement, so
	// anything at or above it counts as fully refunded.
	entitled := UserRefundAmount(booking.TotalAmount)
	switch {
	case refund >= entitled && refund > 0:
		booking.PaymentStatus = models.BookingPaymentRefunded
	case refund > 0:
		booking.PaymentStatus = models.BookingPaymentPartiallyRefunded
	default:
		booking.PaymentStatus = models.BookingPaymentFailed
	}

	payment, err := s.payments.FindActiveByBookingID(ctx, booking.ID)
	if err != nil {
		return err
	}

	err = database.WithTransaction(ctx, func(sc context.Context) error {
		if err := s.bookings.Update(sc, booking); err != nil {
			return err
		}
		if payment == nil {
			return nil
		}
		payment.UpdatedAt = now
		if payment.Status == models.PaymentCompleted && refund > 0 {
			payment.RefundAmount = refund
			payment.RefundReference = utils.GenerateRefundReference()
			payment.RefundDate = &now
			if refund >= entitled {
				payment.RefundStatus = models.RefundFull
			} else {
				payment.RefundStatus = models.RefundPartial
			}
		}
		payment.Status = models.PaymentCancelled
		return s.payments.Update(sc, payment)
	})
	if err != nil {
		return err
	}

	if err := s.bookings.ReleaseDates(ctx, booking.ID); err != nil {
		logger.Error("Failed to release date claims on cancellation",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	logger.Info("Booking cancelled",
		zap.String("bookingId", booking.ID),
		zap.String("cancelledBy", string(by)),
		zap.Float64("refundAmount", refund))

	s.publish(models.Event{
		Kind:      models.EventBookingCancelled,
		UserID:    booking.UserID,
		Email:     booking.CustomerEmail,
		BookingID: booking.ID,
		Booking:   booking,
		Reason:    reason,
		Amount:    refund,
	})
	return nil
}

package booking

import (
	"context"
	"time"

	"hallbook/models"
	"hallbook/utils"

	"go.uber.org/zap"
)

// Pending bookings older than this are abandoned and swept.
const stalePendingAge = time.Hour

// CancelStalePending cancels pending bookings whose payment never arrived
// within the allowed hour. No refund is due. Returns how many were swept.
func (s *bookingService) CancelStalePending(ctx context.Context) (int, error) {
	logger := utils.GetLogger()
	cutoff := s.now().Add(-stalePendingAge)

	stale, err := s.bookings.FindStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range stale {
		b := &stale[i]
		now := s.now()
		b.Status = models.BookingCancelled
		b.PaymentStatus = models.BookingPaymentFailed
		b.RefundAmount = 0
		b.RefundReason = "Booking expired: payment was not completed in time"
		b.CancelledBy = models.CancelledBySystem
		b.CancelledAt = &now
		b.UpdatedAt = now
		if err := s.bookings.Update(ctx, b); err != nil {
			logger.Error("Failed to cancel stale booking", zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		if err := s.failActivePayment(ctx, b.ID); err != nil {
			logger.Error("Failed to fail payment for stale booking", zap.String("bookingId", b.ID), zap.Error(err))
		}
		if err := s.bookings.ReleaseDates(ctx, b.ID); err != nil {
			logger.Error("Failed to release date claims for stale booking", zap.String("bookingId", b.ID), zap.Error(err))
		}
		s.publish(models.Event{
			Kind:      models.EventBookingCancelled,
			UserID:    b.UserID,
			Email:     b.CustomerEmail,
			BookingID: b.ID,
			Booking:   b,
			Reason:    b.RefundReason,
		})
		swept++
	}
	if swept > 0 {
		logger.Info("Stale pending bookings cancelled", zap.Int("count", swept))
	}
	return swept, nil
}

// CompletePastBookings rolls bookings forward once their event days have
// all passed: confirmed ones complete, still-pending ones are cancelled.
func (s *bookingService) CompletePastBookings(ctx context.Context) (int, error) {
	logger := utils.GetLogger()
	today := dayOf(s.now())
	rolled := 0

	confirmed, err := s.bookings.FindWithAllDatesPassed(ctx, models.BookingConfirmed, today)
	if err != nil {
		return 0, err
	}
	for i := range confirmed {
		b := &confirmed[i]
		b.Status = models.BookingCompleted
		b.UpdatedAt = s.now()
		if err := s.bookings.Update(ctx, b); err != nil {
			logger.Error("Failed to complete past booking", zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		if err := s.bookings.ReleaseDates(ctx, b.ID); err != nil {
			logger.Error("Failed to release date claims for completed booking", zap.String("bookingId", b.ID), zap.Error(err))
		}
		s.publish(models.Event{
			Kind:      models.EventBookingCompleted,
			UserID:    b.UserID,
			Email:     b.CustomerEmail,
			BookingID: b.ID,
			Booking:   b,
		})
		rolled++
	}

	pending, err := s.bookings.FindWithAllDatesPassed(ctx, models.BookingPending, today)
	if err != nil {
		return rolled, err
	}
	for i := range pending {
		b := &pending[i]
		now := s.now()
		b.Status = models.BookingCancelled
		b.PaymentStatus = models.BookingPaymentFailed
		b.RefundAmount = 0
		b.RefundReason = "Event date passed before payment was completed"
		b.CancelledBy = models.CancelledBySystem
		b.CancelledAt = &now
		b.UpdatedAt = now
		if err := s.bookings.Update(ctx, b); err != nil {
			logger.Error("Failed to cancel expired booking", zap.String("bookingId", b.ID), zap.Error(err))
			continue
		}
		if err := s.failActivePayment(ctx, b.ID); err != nil {
			logger.Error("Failed to fail payment for expired booking", zap.String("bookingId", b.ID), zap.Error(err))
		}
		if err := s.bookings.ReleaseDates(ctx, b.ID); err != nil {
			logger.Error("Failed to release date claims for expired booking", zap.String("bookingId", b.ID), zap.Error(err))
		}
		rolled++
	}

	if rolled > 0 {
		logger.Info("Past bookings rolled over", zap.Int("count", rolled))
	}
	return rolled, nil
}

// SendEventReminders emits reminder events for confirmed bookings whose
// event is three days or one day away.
func (s *bookingService) SendEventReminders(ctx context.Context) (int, error) {
	today := dayOf(s.now())
	horizon := today.AddDate(0, 0, 3)

	upcoming, err := s.bookings.FindConfirmedWithDatesBetween(ctx, today, horizon)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range upcoming {
		b := &upcoming[i]
		daysToGo := s.daysUntilNextEvent(b, today)
		if daysToGo != 3 && daysToGo != 1 {
			continue
		}
		s.publish(models.Event{
			Kind:      models.EventBookingReminder,
			UserID:    b.UserID,
			Email:     b.CustomerEmail,
			BookingID: b.ID,
			Booking:   b,
			DaysToGo:  daysToGo,
		})
		sent++
	}
	return sent, nil
}

// daysUntilNextEvent returns whole days from today to the nearest event
// day that has not passed, or -1 when none remains.
func (s *bookingService) daysUntilNextEvent(b *models.Booking, today time.Time) int {
	best := -1
	for _, d := range b.EventDates {
		day := dayOf(d)
		if day.Before(today) {
			continue
		}
		days := int(day.Sub(today).Hours() / 24)
		if best == -1 || days < best {
			best = days
		}
	}
	return best
}

// failActivePayment marks a booking's in-flight payment as failed.
func (s *bookingService) failActivePayment(ctx context.Context, bookingID string) error {
	payment, err := s.payments.FindActiveByBookingID(ctx, bookingID)
	if err != nil || payment == nil {
		return err
	}
	if payment.Status.IsTerminal() {
		return nil
	}
	payment.Status = models.PaymentFailed
	payment.UpdatedAt = s.now()
	return s.payments.Update(ctx, payment)
}

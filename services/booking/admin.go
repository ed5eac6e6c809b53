package booking

import (
	"context"

	"hallbook/database"
	"hallbook/models"
	"hallbook/utils"

	"go.uber.org/zap"
)

// UpdateStatus performs an admin-driven lifecycle step: confirming a
// pending booking or completing a confirmed one. Cancellations go through
// the cancel flows so refunds are always accounted for. A manual confirm
// stands in for payment settlement, so the active payment is completed
// and verified under the admin's name in the same unit.
func (s *bookingService) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, adminID string) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}

	switch {
	case booking.Status == models.BookingPending && status == models.BookingConfirmed:
	case booking.Status == models.BookingConfirmed && status == models.BookingCompleted:
	default:
		return nil, ErrInvalidTransition
	}

	now := s.now()
	booking.Status = status
	booking.UpdatedAt = now

	var payment *models.Payment
	if status == models.BookingConfirmed {
		booking.PaymentStatus = models.BookingPaymentPaid
		payment, err = s.payments.FindActiveByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		if payment != nil && payment.Status != models.PaymentCompleted {
			payment.Status = models.PaymentCompleted
			payment.PaymentDate = &now
			payment.UpdatedAt = now
			switch {
			case payment.Method == models.MethodTransfer && payment.TransferDetails != nil:
				payment.TransferDetails.VerificationStatus = models.VerificationVerified
				payment.TransferDetails.VerifiedBy = adminID
				payment.TransferDetails.VerifiedAt = &now
			case payment.Method == models.MethodCard:
				if payment.GatewayResponse == nil {
					payment.GatewayResponse = &models.GatewayResponse{}
				}
				payment.GatewayResponse.GatewayStatus = "success"
				payment.GatewayResponse.GatewayMessage = "Payment confirmed by admin"
			}
			booking.PaymentReference = payment.TransactionID
		} else {
			payment = nil
		}
	}

	err = database.WithTransaction(ctx, func(sc context.Context) error {
		if err := s.bookings.Update(sc, booking); err != nil {
			return err
		}
		if payment == nil {
			return nil
		}
		return s.payments.Update(sc, payment)
	})
	if err != nil {
		return nil, err
	}

	// Completed bookings no longer need their slots held.
	if status == models.BookingCompleted {
		if err := s.bookings.ReleaseDates(ctx, booking.ID); err != nil {
			utils.GetLogger().Error("Failed to release date claims on completion",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("Booking status updated",
		zap.String("bookingId", booking.ID),
		zap.String("status", string(status)),
		zap.String("adminId", adminID))

	kind := models.EventBookingConfirmed
	if status == models.BookingCompleted {
		kind = models.EventBookingCompleted
	}
	s.publish(models.Event{
		Kind:      kind,
		UserID:    booking.UserID,
		Email:     booking.CustomerEmail,
		BookingID: booking.ID,
		Booking:   booking,
	})
	return booking, nil
}

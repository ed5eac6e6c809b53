package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"hallbook/config"
	"hallbook/database"
	bookingRepo "hallbook/database/repository/booking"
	"hallbook/models"
	"hallbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the request, prices the stay, claims the date
// slots, and persists the booking. Online bookings start pending until a
// payment settles; offline bookings are paid at creation, so they start
// confirmed with a completed, admin-verified payment record.
func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	dates, err := s.normalizeDates(req.EventDates)
	if err != nil {
		return nil, err
	}

	hall, err := s.halls.GetByID(req.HallID)
	if err != nil {
		return nil, err
	}
	if hall == nil {
		return nil, ErrHallNotFound
	}

	quote := PriceBooking(hall, len(dates), req.AdditionalHours, req.BanquetChairs)
	now := s.now()

	bookingType := req.BookingType
	if bookingType == "" {
		bookingType = models.BookingOnline
	}

	booking := &models.Booking{
		ID:                   uuid.New().String(),
		UserID:               req.UserID,
		HallID:               hall.ID,
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		CustomerPhone:        req.CustomerPhone,
		EventDates:           dates,
		EventType:            req.EventType,
		SpecialRequests:      req.SpecialRequests,
		AdditionalHours:      req.AdditionalHours,
		BanquetChairs:        req.BanquetChairs,
		BasePrice:            quote.BasePrice,
		AdditionalHoursPrice: quote.AdditionalHoursPrice,
		BanquetChairsPrice:   quote.BanquetChairsPrice,
		CautionFee:           quote.CautionFee,
		TotalAmount:          quote.TotalAmount,
		Status:               models.BookingPending,
		PaymentStatus:        models.BookingPaymentPending,
		BookingType:          bookingType,
		CancellationDeadline: CancellationDeadline(dates),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	var payment *models.Payment
	if bookingType == models.BookingOffline {
		booking.Status = models.BookingConfirmed
		booking.PaymentStatus = models.BookingPaymentPaid
		payment = offlineBookingPayment(booking, req.AdminID, now)
		booking.PaymentReference = payment.TransactionID
	}

	// Claiming before inserting makes the unique (hallId, date) index the
	// arbiter between concurrent requests for the same slots.
	if err := s.bookings.ClaimDates(ctx, hall.ID, booking.ID, dates); err != nil {
		if errors.Is(err, bookingRepo.ErrDatesTaken) {
			return nil, ErrDatesUnavailable
		}
		return nil, err
	}
	err = database.WithTransaction(ctx, func(sc context.Context) error {
		if err := s.bookings.Create(sc, booking); err != nil {
			return err
		}
		if payment == nil {
			return nil
		}
		return s.payments.Create(sc, payment)
	})
	if err != nil {
		if releaseErr := s.bookings.ReleaseDates(ctx, booking.ID); releaseErr != nil {
			logger.Error("Failed to release date claims after create failure",
				zap.String("bookingId", booking.ID), zap.Error(releaseErr))
		}
		return nil, err
	}

	logger.Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("hallId", hall.ID),
		zap.Float64("totalAmount", booking.TotalAmount))

	s.publish(models.Event{
		Kind:      models.EventBookingCreated,
		UserID:    booking.UserID,
		Email:     booking.CustomerEmail,
		BookingID: booking.ID,
		Booking:   booking,
		HallName:  hall.Name,
		Amount:    booking.TotalAmount,
	})
	if payment != nil {
		s.publish(models.Event{
			Kind:      models.EventPaymentCompleted,
			UserID:    booking.UserID,
			Email:     booking.CustomerEmail,
			BookingID: booking.ID,
			PaymentID: payment.ID,
			Booking:   booking,
			Payment:   payment,
			Amount:    payment.Amount,
		})
	}
	return booking, nil
}

// offlineBookingPayment is the completed transfer record backing a
// walk-in booking: the admin has already taken the money, so it is
// created settled and verified in the same unit as the booking.
func offlineBookingPayment(booking *models.Booking, adminID string, now time.Time) *models.Payment {
	return &models.Payment{
		ID:              uuid.New().String(),
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		TransactionID:   utils.GenerateTransactionID(),
		ReferenceNumber: utils.GenerateReferenceNumber(),
		Amount:          booking.TotalAmount,
		Method:          models.MethodTransfer,
		Status:          models.PaymentCompleted,
		CautionFee:      booking.CautionFee,
		NetAmount:       booking.TotalAmount,
		RefundStatus:    models.RefundNone,
		PaymentDate:     &now,
		TransferDetails: &models.TransferDetails{
			AccountName:        config.AppConfig.TransferAccountName,
			AccountNumber:      config.AppConfig.TransferAccountNumber,
			BankName:           config.AppConfig.TransferBankName,
			VerificationStatus: models.VerificationVerified,
			VerifiedBy:         adminID,
			VerifiedAt:         &now,
		},
		Metadata: map[string]string{
			"bookingId":  booking.ID,
			"hallId":     booking.HallID,
			"recordedBy": adminID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CheckAvailability reports whether every requested date is free for the hall.
func (s *bookingService) CheckAvailability(ctx context.Context, hallID string, dates []time.Time) (bool, error) {
	normalized, err := s.normalizeDates(dates)
	if err != nil {
		return false, err
	}
	existing, err := s.bookings.FindActiveByHallAndDates(ctx, hallID, normalized)
	if err != nil {
		return false, err
	}
	return len(existing) == 0, nil
}

// DateAvailability is the per-date answer of an availability check.
type DateAvailability struct {
	Date      time.Time `json:"date"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

// AvailabilityByDate reports each requested date separately, so the
// frontend can show which days of a multi-day request are blocked.
func (s *bookingService) AvailabilityByDate(ctx context.Context, hallID string, dates []time.Time) ([]DateAvailability, error) {
	if len(dates) == 0 {
		return nil, ErrNoEventDates
	}
	today := dayOf(s.now())

	candidates := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		candidates = append(candidates, dayOf(d))
	}
	existing, err := s.bookings.FindActiveByHallAndDates(ctx, hallID, candidates)
	if err != nil {
		return nil, err
	}
	booked := make(map[time.Time]struct{})
	for i := range existing {
		for _, d := range existing[i].EventDates {
			booked[dayOf(d)] = struct{}{}
		}
	}

	out := make([]DateAvailability, 0, len(candidates))
	for _, day := range candidates {
		entry := DateAvailability{Date: day, Available: true}
		if day.Before(today) {
			entry.Available = false
			entry.Reason = "date has passed"
		} else if _, taken := booked[day]; taken {
			entry.Available = false
			entry.Reason = "already booked"
		}
		out = append(out, entry)
	}
	return out, nil
}

// normalizeDates truncates to UTC days, removes duplicates, sorts, and
// rejects empty lists or dates already in the past.
func (s *bookingService) normalizeDates(dates []time.Time) ([]time.Time, error) {
	if len(dates) == 0 {
		return nil, ErrNoEventDates
	}
	today := dayOf(s.now())
	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := dayOf(d)
		if day.Before(today) {
			return nil, ErrPastEventDate
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

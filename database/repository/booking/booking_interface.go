package bookingRepo

import (
	"context"
	"time"

	"hallbook/models"
)

// BookingFilter narrows admin listing queries.
type BookingFilter struct {
	Status        models.BookingStatus
	PaymentStatus models.BookingPaymentStatus
	HallID        string
	StartDate     *time.Time
	EndDate       *time.Time
}

// BookingRepository defines methods for booking data access. Mutating
// methods accept a context so the orchestrator can run paired
// booking/payment writes inside one Mongo session.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID; nil if absent.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Create inserts a new booking record.
	Create(ctx context.Context, booking *models.Booking) error
	// Update modifies an existing booking record.
	Update(ctx context.Context, booking *models.Booking) error

	// FindActiveByHallAndDates returns bookings for the hall in
	// {pending, confirmed} whose eventDates intersect the given dates.
	FindActiveByHallAndDates(ctx context.Context, hallID string, dates []time.Time) ([]models.Booking, error)
	// FindByUser returns a user's bookings, newest first, optionally
	// filtered by status.
	FindByUser(ctx context.Context, userID string, status models.BookingStatus) ([]models.Booking, error)
	// FindAll returns bookings matching the admin filter, newest first.
	FindAll(ctx context.Context, filter BookingFilter) ([]models.Booking, error)

	// FindStalePending returns pending bookings created before the cutoff.
	FindStalePending(ctx context.Context, createdBefore time.Time) ([]models.Booking, error)
	// FindWithAllDatesPassed returns bookings in the given status whose
	// event dates all fall strictly before the given day.
	FindWithAllDatesPassed(ctx context.Context, status models.BookingStatus, day time.Time) ([]models.Booking, error)
	// FindConfirmedWithDatesBetween returns confirmed bookings having at
	// least one event date inside [from, to].
	FindConfirmedWithDatesBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)

	// ClaimDates atomically reserves (hallID, date) slots for a booking.
	// A duplicate claim fails with ErrDatesTaken and leaves no partial claims.
	ClaimDates(ctx context.Context, hallID, bookingID string, dates []time.Time) error
	// ReleaseDates frees the slots held by a booking, called when it
	// reaches a terminal non-completed state.
	ReleaseDates(ctx context.Context, bookingID string) error
}

package booking

import (
	"context"
	"time"

	bookingRepo "hallbook/database/repository/booking"
	hallRepo "hallbook/database/repository/hall"
	paymentRepo "hallbook/database/repository/payment"
	"hallbook/models"
)

// EventPublisher receives domain events after a transition commits.
// Publishing is best-effort; failures never roll back the transition.
type EventPublisher interface {
	Publish(event models.Event)
}

// CreateBookingRequest carries everything needed to open a booking.
type CreateBookingRequest struct {
	UserID          string      `json:"-"`
	HallID          string      `json:"hallId" binding:"required"`
	CustomerName    string      `json:"customerName" binding:"required"`
	CustomerEmail   string      `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string      `json:"customerPhone" binding:"required"`
	EventDates      []time.Time `json:"eventDates" binding:"required"`
	EventType       string      `json:"eventType"`
	SpecialRequests string      `json:"specialRequests"`
	AdditionalHours int         `json:"additionalHours" binding:"gte=0"`
	BanquetChairs   int         `json:"banquetChairs" binding:"gte=0"`
	BookingType     models.BookingType `json:"-"`
	// AdminID is the recording admin for offline bookings.
	AdminID string `json:"-"`
}

// AdminCancelRequest is an admin-initiated cancellation. A nil
// RefundAmount means the admin did not choose one, and the standard 90%
// applies; an explicit zero withholds the refund entirely.
type AdminCancelRequest struct {
	BookingID    string   `json:"-"`
	AdminID      string   `json:"-"`
	RefundAmount *float64 `json:"refundAmount" binding:"omitempty,gte=0"`
	Reason       string   `json:"reason" binding:"required"`
}

// BookingService manages the booking lifecycle.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UserBookings(ctx context.Context, userID string, status models.BookingStatus) ([]models.Booking, error)
	ListBookings(ctx context.Context, filter bookingRepo.BookingFilter) ([]models.Booking, error)
	CheckAvailability(ctx context.Context, hallID string, dates []time.Time) (bool, error)
	AvailabilityByDate(ctx context.Context, hallID string, dates []time.Time) ([]DateAvailability, error)

	CancelByUser(ctx context.Context, bookingID, userID, reason string) (*models.Booking, error)
	CancelByAdmin(ctx context.Context, req AdminCancelRequest) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, adminID string) (*models.Booking, error)

	CancelStalePending(ctx context.Context) (int, error)
	CompletePastBookings(ctx context.Context) (int, error)
	SendEventReminders(ctx context.Context) (int, error)
}

type bookingService struct {
	halls    hallRepo.HallRepository
	bookings bookingRepo.BookingRepository
	payments paymentRepo.PaymentRepository
	events   EventPublisher
	now      func() time.Time
}

// NewBookingService creates a new booking service instance.
func NewBookingService(
	halls hallRepo.HallRepository,
	bookings bookingRepo.BookingRepository,
	payments paymentRepo.PaymentRepository,
	events EventPublisher,
) BookingService {
	return &bookingService{
		halls:    halls,
		bookings: bookings,
		payments: payments,
		events:   events,
		now:      time.Now,
	}
}

// GetBooking retrieves a booking by ID.
func (s *bookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// UserBookings lists a user's bookings, newest first.
func (s *bookingService) UserBookings(ctx context.Context, userID string, status models.BookingStatus) ([]models.Booking, error) {
	return s.bookings.FindByUser(ctx, userID, status)
}

// ListBookings lists bookings for the admin dashboard.
func (s *bookingService) ListBookings(ctx context.Context, filter bookingRepo.BookingFilter) ([]models.Booking, error) {
	return s.bookings.FindAll(ctx, filter)
}

func (s *bookingService) publish(event models.Event) {
	if s.events != nil {
		event.OccurredAt = s.now()
		s.events.Publish(event)
	}
}

package booking

import "errors"

var (
	// ErrHallNotFound indicates the requested hall does not exist.
	ErrHallNotFound = errors.New("hall not found")
	// ErrBookingNotFound indicates the requested booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotOwner indicates the caller does not own the booking.
	ErrNotOwner = errors.New("booking does not belong to this user")
	// ErrDatesUnavailable indicates at least one requested date is already
	// held by another booking for the same hall.
	ErrDatesUnavailable = errors.New("one or more requested dates are unavailable")
	// ErrNoEventDates indicates the request carried an empty date list.
	ErrNoEventDates = errors.New("at least one event date is required")
	// ErrPastEventDate indicates a requested date is already in the past.
	ErrPastEventDate = errors.New("event dates must be in the future")
	// ErrDeadlinePassed indicates the free-cancellation window has closed.
	ErrDeadlinePassed = errors.New("cancellation deadline has passed")
	// ErrAlreadyTerminal indicates the booking is cancelled or completed
	// and cannot transition further.
	ErrAlreadyTerminal = errors.New("booking is already cancelled or completed")
	// ErrInvalidTransition indicates the requested status change is not a
	// legal lifecycle step.
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrRefundExceedsTotal indicates an admin refund above the amount paid.
	ErrRefundExceedsTotal = errors.New("refund amount exceeds booking total")
)

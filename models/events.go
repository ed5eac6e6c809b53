package models

import "time"

// EventKind names a domain event emitted after a successful state transition.
type EventKind string

const (
	EventBookingCreated      EventKind = "booking.created"
	EventBookingConfirmed    EventKind = "booking.confirmed"
	EventBookingCancelled    EventKind = "booking.cancelled"
	EventBookingCompleted    EventKind = "booking.completed"
	EventBookingReminder     EventKind = "booking.reminder"
	EventPaymentInitiated    EventKind = "payment.initiated"
	EventPaymentCompleted    EventKind = "payment.completed"
	EventPaymentFailed       EventKind = "payment.failed"
	EventTransferInstructed  EventKind = "payment.transfer_instructions"
	EventCautionFeeProcessed EventKind = "payment.caution_fee_processed"
)

// Event is the explicit record handed to the notifier after a transition
// commits. Services emit events; persistence code never does.
type Event struct {
	Kind       EventKind
	UserID     string
	Email      string
	BookingID  string
	PaymentID  string
	Booking    *Booking
	Payment    *Payment
	HallName   string
	Reason     string
	Amount     float64
	DaysToGo   int
	OccurredAt time.Time
}

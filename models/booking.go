package models

import "time"

// BookingStatus is the booking lifecycle state.
// pending -> {confirmed, cancelled}; confirmed -> {cancelled, completed}.
// cancelled and completed are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// BookingPaymentStatus mirrors the payment side of a booking. It is kept
// in sync with, but distinct from, the linked Payment's status.
type BookingPaymentStatus string

const (
	BookingPaymentPending           BookingPaymentStatus = "pending"
	BookingPaymentProcessing        BookingPaymentStatus = "processing"
	BookingPaymentPaid              BookingPaymentStatus = "paid"
	BookingPaymentFailed            BookingPaymentStatus = "failed"
	BookingPaymentRefunded          BookingPaymentStatus = "refunded"
	BookingPaymentPartiallyRefunded BookingPaymentStatus = "partially_refunded"
)

// BookingType distinguishes customer-created bookings from admin-entered ones.
type BookingType string

const (
	BookingOnline  BookingType = "online"
	BookingOffline BookingType = "offline"
)

// CancelledBy identifies which actor cancelled a booking.
type CancelledBy string

const (
	CancelledByUser   CancelledBy = "user"
	CancelledByAdmin  CancelledBy = "admin"
	CancelledBySystem CancelledBy = "system"
)

// Booking is a reservation of a hall for one or more calendar days.
// Pricing fields are computed once at creation and never recomputed.
type Booking struct {
	ID     string `bson:"id" json:"id"`
	UserID string `bson:"userId" json:"userId"`
	HallID string `bson:"hallId" json:"hallId"`

	// Customer snapshot captured at booking time, independent of the user record.
	CustomerName  string `bson:"customerName" json:"customerName"`
	CustomerEmail string `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone string `bson:"customerPhone" json:"customerPhone"`

	EventDates      []time.Time `bson:"eventDates" json:"eventDates"`
	EventType       string      `bson:"eventType,omitempty" json:"eventType,omitempty"`
	SpecialRequests string      `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	AdditionalHours int         `bson:"additionalHours" json:"additionalHours"`
	BanquetChairs   int         `bson:"banquetChairs" json:"banquetChairs"`

	// Pricing breakdown, fixed at creation.
	// totalAmount = basePrice + cautionFee + additionalHoursPrice + banquetChairsPrice.
	BasePrice            float64 `bson:"basePrice" json:"basePrice"`
	AdditionalHoursPrice float64 `bson:"additionalHoursPrice" json:"additionalHoursPrice"`
	BanquetChairsPrice   float64 `bson:"banquetChairsPrice" json:"banquetChairsPrice"`
	CautionFee           float64 `bson:"cautionFee" json:"cautionFee"`
	TotalAmount          float64 `bson:"totalAmount" json:"totalAmount"`

	Status        BookingStatus        `bson:"status" json:"status"`
	PaymentStatus BookingPaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	BookingType   BookingType          `bson:"bookingType" json:"bookingType"`

	// Cancellation is permitted strictly before this instant.
	CancellationDeadline time.Time `bson:"cancellationDeadline" json:"cancellationDeadline"`

	PaymentReference string      `bson:"paymentReference,omitempty" json:"paymentReference,omitempty"`
	RefundAmount     float64     `bson:"refundAmount" json:"refundAmount"`
	RefundReason     string      `bson:"refundReason,omitempty" json:"refundReason,omitempty"`
	CancelledBy      CancelledBy `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt      *time.Time  `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CanCancel reports whether a user-initiated cancellation is allowed at t.
func (b *Booking) CanCancel(t time.Time) bool {
	return !b.Status.IsTerminal() && t.Before(b.CancellationDeadline)
}

// EarliestEventDate returns the first calendar day of the event.
func (b *Booking) EarliestEventDate() time.Time {
	if len(b.EventDates) == 0 {
		return time.Time{}
	}
	earliest := b.EventDates[0]
	for _, d := range b.EventDates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}
	return earliest
}

// AllDatesBefore reports whether every event date falls strictly before day
// (date-only comparison).
func (b *Booking) AllDatesBefore(day time.Time) bool {
	cutoff := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	for _, d := range b.EventDates {
		dd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, day.Location())
		if !dd.Before(cutoff) {
			return false
		}
	}
	return true
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingCanCancel(t *testing.T) {
	deadline := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	b := &Booking{Status: BookingConfirmed, CancellationDeadline: deadline}

	assert.True(t, b.CanCancel(deadline.Add(-time.Second)))
	assert.False(t, b.CanCancel(deadline), "exactly at the deadline is too late")
	assert.False(t, b.CanCancel(deadline.Add(time.Second)))

	b.Status = BookingCancelled
	assert.False(t, b.CanCancel(deadline.Add(-time.Hour)))
}

func TestBookingEarliestEventDate(t *testing.T) {
	b := &Booking{EventDates: []time.Time{
		day(2026, 9, 20),
		day(2026, 9, 18),
		day(2026, 9, 19),
	}}
	assert.Equal(t, day(2026, 9, 18), b.EarliestEventDate())

	assert.True(t, (&Booking{}).EarliestEventDate().IsZero())
}

func TestBookingAllDatesBefore(t *testing.T) {
	b := &Booking{EventDates: []time.Time{day(2026, 9, 18), day(2026, 9, 19)}}

	assert.True(t, b.AllDatesBefore(day(2026, 9, 20)))
	assert.False(t, b.AllDatesBefore(day(2026, 9, 19)), "an event day still in progress does not count as past")
	assert.False(t, b.AllDatesBefore(day(2026, 9, 10)))

	// Time-of-day on the cutoff is ignored.
	assert.True(t, b.AllDatesBefore(time.Date(2026, 9, 20, 23, 59, 0, 0, time.UTC)))
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingPending.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
}

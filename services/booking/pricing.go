package booking

import (
	"math"
	"time"

	"hallbook/models"
)

const (
	// Flat per-chair daily rate.
	banquetChairDailyRate = 1000.0
	// Caution fee is a tenth of the base hall price.
	cautionFeeRate = 0.10
	// Free cancellation closes this long before the first event day.
	cancellationNotice = 7 * 24 * time.Hour
	// Fraction of the total returned on a user-initiated cancellation.
	userRefundRate = 0.90
)

// Quote is the immutable pricing breakdown computed at booking time.
type Quote struct {
	BasePrice            float64
	AdditionalHoursPrice float64
	BanquetChairsPrice   float64
	CautionFee           float64
	TotalAmount          float64
}

// PriceBooking computes the full charge for booking a hall: per-day base
// price, extra hours, chair rental, and the caution fee derived from the
// base price alone.
func PriceBooking(hall *models.Hall, days, additionalHours, banquetChairs int) Quote {
	n := float64(days)
	base := hall.BasePrice * n
	hours := float64(additionalHours) * hall.AdditionalHourPrice * n
	chairs := float64(banquetChairs) * banquetChairDailyRate * n
	caution := math.Round(base * cautionFeeRate)

	return Quote{
		BasePrice:            base,
		AdditionalHoursPrice: hours,
		BanquetChairsPrice:   chairs,
		CautionFee:           caution,
		TotalAmount:          base + hours + chairs + caution,
	}
}

// UserRefundAmount is what a customer gets back when cancelling before
// the deadline.
func UserRefundAmount(totalAmount float64) float64 {
	return math.Round(totalAmount * userRefundRate)
}

// CancellationDeadline is the last instant at which the customer may
// still cancel, seven days before the earliest event day.
func CancellationDeadline(eventDates []time.Time) time.Time {
	if len(eventDates) == 0 {
		return time.Time{}
	}
	earliest := eventDates[0]
	for _, d := range eventDates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}
	return earliest.Add(-cancellationNotice)
}

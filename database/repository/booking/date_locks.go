package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDatesTaken indicates another booking already holds one of the
// requested (hall, date) slots.
var ErrDatesTaken = errors.New("one or more dates are already booked for this hall")

type dateLock struct {
	HallID    string    `bson:"hallId"`
	Date      time.Time `bson:"date"`
	BookingID string    `bson:"bookingId"`
	CreatedAt time.Time `bson:"createdAt"`
}

// ClaimDates reserves (hallID, date) slots for the booking. The unique
// index on (hallId, date) rejects a slot held by another booking; on any
// failure the claims inserted so far are rolled back.
func (r *MongoBookingRepo) ClaimDates(ctx context.Context, hallID, bookingID string, dates []time.Time) error {
	now := time.Now()
	docs := make([]interface{}, 0, len(dates))
	for _, d := range dates {
		docs = append(docs, dateLock{
			HallID:    hallID,
			Date:      dayUTC(d),
			BookingID: bookingID,
			CreatedAt: now,
		})
	}

	_, err := r.locks.InsertMany(ctx, docs)
	if err != nil {
		if rollbackErr := r.ReleaseDates(ctx, bookingID); rollbackErr != nil {
			return fmt.Errorf("failed to roll back date claims: %w", rollbackErr)
		}
		if mongo.IsDuplicateKeyError(err) {
			return ErrDatesTaken
		}
		return fmt.Errorf("failed to claim dates: %w", err)
	}
	return nil
}

// ReleaseDates frees every slot held by the booking.
func (r *MongoBookingRepo) ReleaseDates(ctx context.Context, bookingID string) error {
	if _, err := r.locks.DeleteMany(ctx, bson.M{"bookingId": bookingID}); err != nil {
		return fmt.Errorf("failed to release date claims: %w", err)
	}
	return nil
}

// dayUTC truncates a timestamp to its UTC calendar day so equal event
// days always collide on the unique index.
func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

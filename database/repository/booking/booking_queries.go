package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"hallbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.M{"createdAt": -1})
}

// FindActiveByHallAndDates returns pending or confirmed bookings for the
// hall whose event dates intersect the given dates.
func (r *MongoBookingRepo) FindActiveByHallAndDates(ctx context.Context, hallID string, dates []time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"hallId":     hallID,
		"status":     bson.M{"$in": []models.BookingStatus{models.BookingPending, models.BookingConfirmed}},
		"eventDates": bson.M{"$in": dates},
	}
	return r.find(ctx, filter, nil)
}

// FindByUser returns a user's bookings, newest first.
func (r *MongoBookingRepo) FindByUser(ctx context.Context, userID string, status models.BookingStatus) ([]models.Booking, error) {
	filter := bson.M{"userId": userID}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter, newestFirst())
}

// FindAll returns bookings matching the admin filter, newest first.
func (r *MongoBookingRepo) FindAll(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if f.HallID != "" {
		filter["hallId"] = f.HallID
	}
	if f.StartDate != nil || f.EndDate != nil {
		created := bson.M{}
		if f.StartDate != nil {
			created["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			created["$lte"] = *f.EndDate
		}
		filter["createdAt"] = created
	}
	return r.find(ctx, filter, newestFirst())
}

// FindStalePending returns pending bookings created before the cutoff.
func (r *MongoBookingRepo) FindStalePending(ctx context.Context, createdBefore time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":    models.BookingPending,
		"createdAt": bson.M{"$lt": createdBefore},
	}
	return r.find(ctx, filter, nil)
}

// FindWithAllDatesPassed returns bookings in the given status where no
// event date falls on or after the given day.
func (r *MongoBookingRepo) FindWithAllDatesPassed(ctx context.Context, status models.BookingStatus, day time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":     status,
		"eventDates": bson.M{"$not": bson.M{"$elemMatch": bson.M{"$gte": day}}},
	}
	return r.find(ctx, filter, nil)
}

// FindConfirmedWithDatesBetween returns confirmed bookings with at least
// one event date inside [from, to].
func (r *MongoBookingRepo) FindConfirmedWithDatesBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":     models.BookingConfirmed,
		"eventDates": bson.M{"$elemMatch": bson.M{"$gte": from, "$lte": to}},
	}
	return r.find(ctx, filter, nil)
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	var cursorOpts []*options.FindOptions
	if opts != nil {
		cursorOpts = append(cursorOpts, opts)
	}
	cursor, err := r.coll.Find(ctx, filter, cursorOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

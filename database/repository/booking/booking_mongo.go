package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"hallbook/database"
	"hallbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo is a MongoDB-backed implementation of BookingRepository.
type MongoBookingRepo struct {
	coll  *mongo.Collection
	locks *mongo.Collection
}

// NewMongoBookingRepo creates a new booking repository instance.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.MongoClient.Database(database.DatabaseName)
	repo := &MongoBookingRepo{
		coll:  db.Collection("bookings"),
		locks: db.Collection("hall_date_locks"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.M{"id": 1},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.M{"userId": 1}},
		{Keys: bson.M{"hallId": 1}},
		{Keys: bson.M{"status": 1}},
		{Keys: bson.M{"eventDates": 1}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		fmt.Printf("Warning: failed to create booking indexes: %v\n", err)
	}

	// The unique compound index is what makes date claims race-safe: two
	// concurrent inserts for the same (hallId, date) cannot both succeed.
	lockIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "hallId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.M{"bookingId": 1}},
	}
	if _, err := r.locks.Indexes().CreateMany(ctx, lockIndexes); err != nil {
		fmt.Printf("Warning: failed to create hall_date_locks indexes: %v\n", err)
	}
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// Create inserts a new booking record.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// Update replaces an existing booking record.
func (r *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": booking.ID}, booking)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking not found: %s", booking.ID)
	}
	return nil
}

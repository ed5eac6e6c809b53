package hallRepo

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

// MongoHallRepo implements HallRepository using MongoDB.
type MongoHallRepo struct {
	coll *mongo.Collection
}

// NewMongoHallRepo creates a new instance of HallRepository using MongoDB.
func NewMongoHallRepo() HallRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("halls")
	repo := &MongoHallRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoHallRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a hall by its unique ID.
func (r *MongoHallRepo) GetByID(id string) (*models.Hall, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var hall models.Hall
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&hall); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch hall with id %s: %w", id, err)
	}
	return &hall, nil
}

// GetAll retrieves all halls.
func (r *MongoHallRepo) GetAll() ([]models.Hall, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch halls: %w", err)
	}
	defer cursor.Close(ctx)

	var halls []models.Hall
	if err := cursor.All(ctx, &halls); err != nil {
		return nil, fmt.Errorf("failed to decode halls: %w", err)
	}
	return halls, nil
}

// Create inserts a new hall document.
func (r *MongoHallRepo) Create(hall *models.Hall) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	hall.CreatedAt = now
	hall.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, hall)
	if err != nil {
		return fmt.Errorf("failed to create hall: %w", err)
	}
	return nil
}

// Update modifies an existing hall document.
func (r *MongoHallRepo) Update(hall *models.Hall) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	hall.UpdatedAt = time.Now()
	filter := bson.M{"id": hall.ID}
	update := bson.M{"$set": hall}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update hall with id %s: %w", hall.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("hall with id %s not found", hall.ID)
	}
	return nil
}

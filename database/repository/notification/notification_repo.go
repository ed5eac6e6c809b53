package notificationRepo

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

// NotificationRepository persists in-app notifications. Records are
// append-only; the sole mutation is marking one as read.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// MongoNotificationRepo is a MongoDB-backed NotificationRepository.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo creates a new notification repository instance.
func NewMongoNotificationRepo() *MongoNotificationRepo {
	repo := &MongoNotificationRepo{
		coll: database.MongoClient.Database(database.DatabaseName).Collection("notifications"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *MongoNotificationRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.M{"id": 1},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create notification indexes: %v\n", err)
	}
}

// Create appends a notification.
func (r *MongoNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// FindByUser returns a user's notifications, newest first.
func (r *MongoNotificationRepo) FindByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read, scoped to its owner.
func (r *MongoNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

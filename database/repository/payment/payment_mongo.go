package paymentRepo

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

// MongoPaymentRepo is a MongoDB-backed implementation of PaymentRepository.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo creates a new payment repository instance.
func NewMongoPaymentRepo() *MongoPaymentRepo {
	repo := &MongoPaymentRepo{
		coll: database.MongoClient.Database(database.DatabaseName).Collection("payments"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *MongoPaymentRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.M{"id": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.M{"transactionId": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.M{"referenceNumber": 1},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.M{"bookingId": 1}},
		{Keys: bson.M{"userId": 1}},
		{Keys: bson.M{"status": 1}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create payment indexes: %v\n", err)
	}
}

// GetByID retrieves a payment by its unique ID.
func (r *MongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByTransactionID retrieves a payment by its transaction identifier.
func (r *MongoPaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"transactionId": transactionID})
}

// GetByReferenceNumber retrieves a payment by its gateway reference.
func (r *MongoPaymentRepo) GetByReferenceNumber(ctx context.Context, reference string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"referenceNumber": reference})
}

// Create inserts a new payment record.
func (r *MongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if _, err := r.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Update replaces an existing payment record.
func (r *MongoPaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": payment.ID}, payment)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("payment not found: %s", payment.ID)
	}
	return nil
}

func (r *MongoPaymentRepo) findOne(ctx context.Context, filter bson.M) (*models.Payment, error) {
	var payment models.Payment
	err := r.coll.FindOne(ctx, filter).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return &payment, nil
}

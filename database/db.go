package database

import (
	"context"
	"log"
	"time"

	"hallbook/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseName is the application database.
const DatabaseName = "hallbook"

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// InitDB initializes the MongoDB connection.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")
}

// WithTransaction runs fn inside a MongoDB session so that paired
// booking/payment writes commit as one logical unit. On standalone
// deployments without replica-set transactions the callback is executed
// directly; the orchestrator's idempotent transitions are the fallback.
func WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if MongoClient == nil {
		return fn(ctx)
	}
	session, err := MongoClient.StartSession()
	if err != nil {
		// No session support (standalone server); run without one.
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"hallbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var activeStatuses = []models.PaymentStatus{
	models.PaymentPending,
	models.PaymentProcessing,
	models.PaymentCompleted,
}

// FindByBookingID returns all payments attached to a booking, newest first.
func (r *MongoPaymentRepo) FindByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error) {
	return r.find(ctx, bson.M{"bookingId": bookingID})
}

// FindActiveByBookingID returns the booking's non-failed, non-cancelled
// payment if one exists. At most one such payment is ever attached to a
// booking, enforced by the initialize guard.
func (r *MongoPaymentRepo) FindActiveByBookingID(ctx context.Context, bookingID string) (*models.Payment, error) {
	filter := bson.M{
		"bookingId": bookingID,
		"status":    bson.M{"$in": activeStatuses},
	}
	return r.findOne(ctx, filter)
}

// FindByUser returns a user's payments, newest first.
func (r *MongoPaymentRepo) FindByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// FindAll returns every payment, optionally narrowed to one status.
func (r *MongoPaymentRepo) FindAll(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.find(ctx, filter)
}

// FindPendingTransferProofs returns transfer payments with an uploaded
// proof still awaiting admin review.
func (r *MongoPaymentRepo) FindPendingTransferProofs(ctx context.Context) ([]models.Payment, error) {
	filter := bson.M{
		"method":                             models.MethodTransfer,
		"transferDetails.transferProof":      bson.M{"$nin": bson.A{nil, ""}},
		"transferDetails.verificationStatus": models.VerificationPending,
	}
	return r.find(ctx, filter)
}

// FindCompletedBetween returns completed payments dated inside [from, to].
func (r *MongoPaymentRepo) FindCompletedBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	filter := bson.M{"status": models.PaymentCompleted}
	window := bson.M{}
	if !from.IsZero() {
		window["$gte"] = from
	}
	if !to.IsZero() {
		window["$lte"] = to
	}
	if len(window) > 0 {
		filter["paymentDate"] = window
	}
	return r.find(ctx, filter)
}

// FindCompletedWithCautionFee returns completed payments that collected a
// caution fee.
func (r *MongoPaymentRepo) FindCompletedWithCautionFee(ctx context.Context) ([]models.Payment, error) {
	filter := bson.M{
		"status":     models.PaymentCompleted,
		"cautionFee": bson.M{"$gt": 0},
	}
	return r.find(ctx, filter)
}

func (r *MongoPaymentRepo) find(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

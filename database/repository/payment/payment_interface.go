package paymentRepo

import (
	"context"
	"time"

	"hallbook/models"
)

// PaymentRepository defines methods for payment data access.
type PaymentRepository interface {
	// GetByID retrieves a payment by its unique ID; nil if absent.
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	// GetByTransactionID retrieves a payment by its TXN_ identifier.
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	// GetByReferenceNumber retrieves a payment by its REF_ gateway reference.
	GetByReferenceNumber(ctx context.Context, reference string) (*models.Payment, error)
	// Create inserts a new payment record.
	Create(ctx context.Context, payment *models.Payment) error
	// Update modifies an existing payment record.
	Update(ctx context.Context, payment *models.Payment) error

	// FindByBookingID returns all payments attached to a booking, newest first.
	FindByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error)
	// FindActiveByBookingID returns the booking's payment in
	// {pending, processing, completed}, or nil when none exists.
	FindActiveByBookingID(ctx context.Context, bookingID string) (*models.Payment, error)
	// FindByUser returns a user's payments, newest first.
	FindByUser(ctx context.Context, userID string) ([]models.Payment, error)
	// FindAll returns every payment, newest first, optionally filtered by
	// status when one is given.
	FindAll(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)

	// FindPendingTransferProofs returns transfer payments whose proof is
	// uploaded but not yet reviewed by an admin.
	FindPendingTransferProofs(ctx context.Context) ([]models.Payment, error)
	// FindCompletedBetween returns completed payments whose paymentDate
	// falls inside [from, to]; zero bounds are open-ended.
	FindCompletedBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	// FindCompletedWithCautionFee returns completed payments carrying a
	// positive caution fee.
	FindCompletedWithCautionFee(ctx context.Context) ([]models.Payment, error)
}

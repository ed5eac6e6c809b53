package payment

import (
	"context"
	"time"

	bookingRepo "hallbook/database/repository/booking"
	paymentRepo "hallbook/database/repository/payment"
	"hallbook/models"
	"hallbook/services/payment/gateway"
	"hallbook/services/ratelimit"
	"hallbook/services/storage"
)

// EventPublisher receives domain events after a transition commits.
type EventPublisher interface {
	Publish(event models.Event)
}

// ProcessPaymentRequest starts a payment attempt for a booking.
type ProcessPaymentRequest struct {
	UserID    string               `json:"-"`
	BookingID string               `json:"bookingId" binding:"required"`
	Method    models.PaymentMethod `json:"method" binding:"required,oneof=card transfer"`
	IPAddress string               `json:"-"`
	UserAgent string               `json:"-"`
}

// ProcessPaymentResult is what the customer needs to continue paying:
// a checkout URL for cards, bank details for transfers.
type ProcessPaymentResult struct {
	Payment          *models.Payment         `json:"payment"`
	AuthorizationURL string                  `json:"authorizationUrl,omitempty"`
	TransferDetails  *models.TransferDetails `json:"transferDetails,omitempty"`
}

// CautionRefundRequest is the admin's damage assessment for a completed
// booking's caution fee.
type CautionRefundRequest struct {
	PaymentID         string  `json:"-"`
	AdminID           string  `json:"-"`
	RefundAmount      float64 `json:"refundAmount" binding:"gte=0"`
	DamageCharges     float64 `json:"damageCharges" binding:"gte=0"`
	RefundReason      string  `json:"refundReason"`
	DamageDescription string  `json:"damageDescription"`
	ProcessedOffline  bool    `json:"processedOffline"`
	OfflineReference  string  `json:"offlineReference"`
}

// RecordOfflinePaymentRequest records a payment taken outside the system,
// cash or POS, against an offline booking.
type RecordOfflinePaymentRequest struct {
	BookingID string               `json:"bookingId" binding:"required"`
	AdminID   string               `json:"-"`
	Method    models.PaymentMethod `json:"method" binding:"required,oneof=card transfer"`
	Reference string               `json:"reference"`
}

// PaymentService manages the payment lifecycle.
type PaymentService interface {
	ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*ProcessPaymentResult, error)
	VerifyPayment(ctx context.Context, reference string) (*models.Payment, error)
	HandleWebhookEvent(ctx context.Context, eventKind, reference string) error
	RecordOfflinePayment(ctx context.Context, req RecordOfflinePaymentRequest) (*models.Payment, error)

	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	UserPayments(ctx context.Context, userID string) ([]models.Payment, error)
	ListPayments(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)
	Receipt(ctx context.Context, transactionID, userID string) (*ReceiptData, error)

	UploadTransferProof(ctx context.Context, transactionID, userID, localFilePath string) (*models.Payment, error)
	PendingTransferProofs(ctx context.Context) ([]models.Payment, error)
	ReviewTransferProof(ctx context.Context, transactionID, adminID string, approve bool, reason string) (*models.Payment, error)

	ProcessCautionRefund(ctx context.Context, req CautionRefundRequest) (*models.Payment, error)
	UpdateCautionRefund(ctx context.Context, req CautionRefundRequest) (*models.Payment, error)
	CautionRefundHistory(ctx context.Context, transactionID string) (*models.CautionFeeRefund, error)
	EligibleCautionRefunds(ctx context.Context) ([]models.Payment, error)

	RevenueBreakdown(ctx context.Context, from, to time.Time) (*RevenueBreakdown, error)
	CautionFeeStats(ctx context.Context) (*CautionFeeStats, error)
}

type paymentService struct {
	payments paymentRepo.PaymentRepository
	bookings bookingRepo.BookingRepository
	gateway  gateway.Gateway
	storage  storage.StorageService
	attempts ratelimit.Limiter
	events   EventPublisher
	now      func() time.Time
}

// NewPaymentService creates a new payment service instance.
func NewPaymentService(
	payments paymentRepo.PaymentRepository,
	bookings bookingRepo.BookingRepository,
	gw gateway.Gateway,
	store storage.StorageService,
	attempts ratelimit.Limiter,
	events EventPublisher,
) PaymentService {
	return &paymentService{
		payments: payments,
		bookings: bookings,
		gateway:  gw,
		storage:  store,
		attempts: attempts,
		events:   events,
		now:      time.Now,
	}
}

// GetPayment retrieves a payment by its internal ID.
func (s *paymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// GetByTransactionID retrieves a payment by its TXN_ identifier.
func (s *paymentService) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	p, err := s.payments.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// GetByReference retrieves a payment by its REF_ gateway reference.
func (s *paymentService) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	p, err := s.payments.GetByReferenceNumber(ctx, reference)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// UserPayments lists a user's payments, newest first.
func (s *paymentService) UserPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.payments.FindByUser(ctx, userID)
}

// ListPayments lists all payments for the admin dashboard, optionally
// narrowed to one status.
func (s *paymentService) ListPayments(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	return s.payments.FindAll(ctx, status)
}

// PendingTransferProofs lists transfer payments awaiting admin review.
func (s *paymentService) PendingTransferProofs(ctx context.Context) ([]models.Payment, error) {
	return s.payments.FindPendingTransferProofs(ctx)
}

func (s *paymentService) publish(event models.Event) {
	if s.events != nil {
		event.OccurredAt = s.now()
		s.events.Publish(event)
	}
}

package payment

import (
	"context"
	"fmt"

	"hallbook/config"
	"hallbook/database"
	"hallbook/models"
	"hallbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcessPayment opens a payment attempt for a booking. Card payments go
// to the gateway and come back with a checkout URL; transfers get the
// bank account details and wait for a proof upload.
func (s *paymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*ProcessPaymentResult, error) {
	logger := utils.GetLogger()

	if s.attempts != nil {
		allowed, err := s.attempts.Allow(ctx, "payment:"+req.UserID)
		if err != nil {
			logger.Warn("Payment attempt limiter unavailable, allowing request", zap.Error(err))
		} else if !allowed {
			return nil, ErrTooManyAttempts
		}
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != req.UserID {
		return nil, ErrNotOwner
	}
	if booking.Status.IsTerminal() || booking.PaymentStatus == models.BookingPaymentPaid {
		return nil, ErrBookingNotPayable
	}

	// One active payment per booking: a second attempt is only allowed
	// after the first fails or is cancelled.
	active, err := s.payments.FindActiveByBookingID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrDuplicatePayment
	}

	now := s.now()
	amount := booking.TotalAmount
	gatewayFee := 0.0
	if req.Method == models.MethodCard {
		gatewayFee = gatewayFeeFor(amount)
	}

	p := &models.Payment{
		ID:              uuid.New().String(),
		BookingID:       booking.ID,
		UserID:          req.UserID,
		TransactionID:   utils.GenerateTransactionID(),
		ReferenceNumber: utils.GenerateReferenceNumber(),
		Amount:          amount,
		Method:          req.Method,
		CautionFee:      booking.CautionFee,
		GatewayFee:      gatewayFee,
		NetAmount:       amount - gatewayFee,
		RefundStatus:    models.RefundNone,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
		Metadata: map[string]string{
			"bookingId": booking.ID,
			"hallId":    booking.HallID,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	result := &ProcessPaymentResult{Payment: p}

	switch req.Method {
	case models.MethodCard:
		init, err := s.gateway.Initialize(ctx, gatewayInitRequest(booking, p))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize card payment: %w", err)
		}
		p.Status = models.PaymentProcessing
		p.GatewayResponse = &models.GatewayResponse{GatewayReference: init.Reference}
		booking.PaymentStatus = models.BookingPaymentProcessing
		result.AuthorizationURL = init.AuthorizationURL

	case models.MethodTransfer:
		p.Status = models.PaymentPending
		p.TransferDetails = &models.TransferDetails{
			AccountName:        config.AppConfig.TransferAccountName,
			AccountNumber:      config.AppConfig.TransferAccountNumber,
			BankName:           config.AppConfig.TransferBankName,
			VerificationStatus: models.VerificationPending,
		}
		result.TransferDetails = p.TransferDetails

	default:
		return nil, fmt.Errorf("unsupported payment method %q", req.Method)
	}

	booking.PaymentReference = p.TransactionID
	booking.UpdatedAt = now
	err = database.WithTransaction(ctx, func(sc context.Context) error {
		if err := s.payments.Create(sc, p); err != nil {
			return err
		}
		return s.bookings.Update(sc, booking)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment initiated",
		zap.String("transactionId", p.TransactionID),
		zap.String("bookingId", booking.ID),
		zap.String("method", string(req.Method)),
		zap.Float64("amount", amount))

	kind := models.EventPaymentInitiated
	if req.Method == models.MethodTransfer {
		kind = models.EventTransferInstructed
	}
	s.publish(models.Event{
		Kind:      kind,
		UserID:    req.UserID,
		Email:     booking.CustomerEmail,
		BookingID: booking.ID,
		PaymentID: p.ID,
		Booking:   booking,
		Payment:   p,
		Amount:    amount,
	})
	return result, nil
}

// RecordOfflinePayment records a cash or POS payment an admin took
// outside the system. The payment is completed immediately with no
// gateway fee.
func (s *paymentService) RecordOfflinePayment(ctx context.Context, req RecordOfflinePaymentRequest) (*models.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status.IsTerminal() || booking.PaymentStatus == models.BookingPaymentPaid {
		return nil, ErrBookingNotPayable
	}
	active, err := s.payments.FindActiveByBookingID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrDuplicatePayment
	}

	now := s.now()
	p := &models.Payment{
		ID:              uuid.New().String(),
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		TransactionID:   utils.GenerateTransactionID(),
		ReferenceNumber: utils.GenerateReferenceNumber(),
		Amount:          booking.TotalAmount,
		Method:          req.Method,
		Status:          models.PaymentCompleted,
		CautionFee:      booking.CautionFee,
		NetAmount:       booking.TotalAmount,
		RefundStatus:    models.RefundNone,
		PaymentDate:     &now,
		Metadata: map[string]string{
			"bookingId":  booking.ID,
			"recordedBy": req.AdminID,
			"offlineRef": req.Reference,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	booking.PaymentStatus = models.BookingPaymentPaid
	booking.PaymentReference = p.TransactionID
	if booking.Status == models.BookingPending {
		booking.Status = models.BookingConfirmed
	}
	booking.UpdatedAt = now
	err = database.WithTransaction(ctx, func(sc context.Context) error {
		if err := s.payments.Create(sc, p); err != nil {
			return err
		}
		return s.bookings.Update(sc, booking)
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Offline payment recorded",
		zap.String("transactionId", p.TransactionID),
		zap.String("bookingId", booking.ID),
		zap.String("adminId", req.AdminID))

	s.publish(models.Event{
		Kind:      models.EventPaymentCompleted,
		UserID:    booking.UserID,
		Email:     booking.CustomerEmail,
		BookingID: booking.ID,
		PaymentID: p.ID,
		Booking:   booking,
		Payment:   p,
		Amount:    p.Amount,
	})
	return p, nil
}

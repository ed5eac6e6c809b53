package payment

import (
	"context"

	"hallbook/models"
	"hallbook/utils"

	"go.uber.org/zap"
)

// UploadTransferProof attaches the customer's proof of bank transfer and
// moves the payment into processing for admin review.
func (s *paymentService) UploadTransferProof(ctx context.Context, transactionID, userID, localFilePath string) (*models.Payment, error) {
	p, err := s.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotOwner
	}
	if p.Method != models.MethodTransfer || p.TransferDetails == nil {
		return nil, ErrNotTransferPayment
	}
	if p.TransferDetails.VerificationStatus != models.VerificationPending {
		return nil, ErrProofAlreadyReviewed
	}
	if p.Status.IsTerminal() {
		return nil, ErrBookingNotPayable
	}

	url, publicID, err := s.storage.UploadFile(ctx, localFilePath, "transfer_proofs")
	if err != nil {
		return nil, err
	}

	// Replace a previously uploaded proof rather than accumulate copies.
	if old := p.TransferDetails.TransferProofID; old != "" && old != publicID {
		if delErr := s.storage.DeleteFile(ctx, old); delErr != nil {
			utils.GetLogger().Warn("Failed to delete replaced transfer proof",
				zap.String("publicId", old), zap.Error(delErr))
		}
	}

	now := s.now()
	p.TransferDetails.TransferProof = url
	p.TransferDetails.TransferProofID = publicID
	p.Status = models.PaymentProcessing
	p.UpdatedAt = now
	if err := s.payments.Update(ctx, p); err != nil {
		if delErr := s.storage.DeleteFile(ctx, publicID); delErr != nil {
			utils.GetLogger().Warn("Failed to delete orphaned transfer proof",
				zap.String("publicId", publicID), zap.Error(delErr))
		}
		return nil, err
	}

	if booking, err := s.bookings.GetByID(ctx, p.BookingID); err == nil && booking != nil && !booking.Status.IsTerminal() {
		booking.PaymentStatus = models.BookingPaymentProcessing
		booking.UpdatedAt = now
		if err := s.bookings.Update(ctx, booking); err != nil {
			utils.GetLogger().Error("Failed to mark booking processing after proof upload",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("Transfer proof uploaded",
		zap.String("transactionId", p.TransactionID),
		zap.String("publicId", publicID))
	return p, nil
}

// ReviewTransferProof is the admin decision on an uploaded proof.
// Approval completes the payment and confirms the booking; rejection
// fails the payment and records the reason.
func (s *paymentService) ReviewTransferProof(ctx context.Context, transactionID, adminID string, approve bool, reason string) (*models.Payment, error) {
	p, err := s.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if p.Method != models.MethodTransfer || p.TransferDetails == nil {
		return nil, ErrNotTransferPayment
	}
	if p.TransferDetails.TransferProof == "" {
		return nil, ErrNoProofUploaded
	}
	if p.TransferDetails.VerificationStatus != models.VerificationPending {
		return nil, ErrProofAlreadyReviewed
	}
	if p.Status != models.PaymentProcessing {
		return nil, ErrProofAlreadyReviewed
	}

	now := s.now()
	p.TransferDetails.VerifiedBy = adminID
	p.TransferDetails.VerifiedAt = &now

	if approve {
		p.TransferDetails.VerificationStatus = models.VerificationVerified
		if err := s.settleCompleted(ctx, p); err != nil {
			return nil, err
		}
	} else {
		p.TransferDetails.VerificationStatus = models.VerificationRejected
		p.TransferDetails.RejectionReason = reason
		if reason == "" {
			reason = "Transfer payment rejected"
		}
		if err := s.settleFailed(ctx, p, reason); err != nil {
			return nil, err
		}
	}

	utils.GetLogger().Info("Transfer proof reviewed",
		zap.String("transactionId", p.TransactionID),
		zap.String("adminId", adminID),
		zap.Bool("approved", approve))
	return p, nil
}

package payment

import "errors"

var (
	// ErrPaymentNotFound indicates no payment matches the lookup key.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrBookingNotFound indicates the payment's booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotOwner indicates the caller does not own the payment or booking.
	ErrNotOwner = errors.New("payment does not belong to this user")
	// ErrDuplicatePayment indicates the booking already has a payment in
	// {pending, processing, completed}.
	ErrDuplicatePayment = errors.New("an active payment already exists for this booking")
	// ErrBookingNotPayable indicates the booking is cancelled, completed,
	// or already paid.
	ErrBookingNotPayable = errors.New("booking is not in a payable state")
	// ErrTooManyAttempts indicates the user exhausted the payment attempt
	// allowance for the current window.
	ErrTooManyAttempts = errors.New("too many payment attempts, try again later")
	// ErrNotTransferPayment indicates a transfer-only operation was called
	// on a card payment.
	ErrNotTransferPayment = errors.New("payment is not a bank transfer")
	// ErrProofAlreadyReviewed indicates the transfer proof was already
	// verified or rejected.
	ErrProofAlreadyReviewed = errors.New("transfer proof has already been reviewed")
	// ErrNoProofUploaded indicates review was requested before the
	// customer uploaded a proof.
	ErrNoProofUploaded = errors.New("no transfer proof has been uploaded")
	// ErrCautionNotEligible indicates the caution fee cannot be assessed,
	// either because the payment is not completed or it was already settled.
	ErrCautionNotEligible = errors.New("payment is not eligible for caution fee assessment")
	// ErrCautionLedgerExceeded indicates refund plus damage charges would
	// exceed the original caution fee.
	ErrCautionLedgerExceeded = errors.New("refund and damage charges exceed the caution fee")
	// ErrNoCautionLedger indicates an update was requested before the
	// initial assessment.
	ErrNoCautionLedger = errors.New("caution fee has not been assessed yet")
)

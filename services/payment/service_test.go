package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"hallbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	gw       *fakeGateway
	store    *fakeStorage
	limiter  *fakeLimiter
	events   *fakePublisher
	svc      *paymentService
}

func payableBooking() *models.Booking {
	return &models.Booking{
		ID:            "bk-1",
		UserID:        "user-1",
		HallID:        "hall-1",
		CustomerEmail: "ada@example.com",
		CustomerName:  "Ada Obi",
		TotalAmount:   75000,
		CautionFee:    5000,
		Status:        models.BookingPending,
		PaymentStatus: models.BookingPaymentPending,
	}
}

func newTestEnv(t *testing.T, bookings ...*models.Booking) *testEnv {
	t.Helper()
	if len(bookings) == 0 {
		bookings = []*models.Booking{payableBooking()}
	}
	env := &testEnv{
		bookings: newFakeBookingRepo(bookings...),
		payments: newFakePaymentRepo(),
		gw:       &fakeGateway{},
		store:    &fakeStorage{},
		limiter:  &fakeLimiter{allowed: true},
		events:   &fakePublisher{},
	}
	env.svc = NewPaymentService(env.payments, env.bookings, env.gw, env.store, env.limiter, env.events).(*paymentService)
	env.svc.now = func() time.Time { return testNow }
	return env
}

func (e *testEnv) processCard(t *testing.T) *ProcessPaymentResult {
	t.Helper()
	result, err := e.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
		UserID:    "user-1",
		BookingID: "bk-1",
		Method:    models.MethodCard,
	})
	require.NoError(t, err)
	return result
}

func TestProcessPayment(t *testing.T) {
	t.Run("card payment goes to checkout", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)

		p := result.Payment
		assert.Equal(t, models.PaymentProcessing, p.Status)
		assert.Equal(t, 75000.0, p.Amount)
		assert.Equal(t, 5000.0, p.CautionFee)
		assert.Equal(t, 1225.0, p.GatewayFee) // 1.5% plus the flat fee
		assert.Equal(t, 73775.0, p.NetAmount)
		assert.Contains(t, result.AuthorizationURL, p.ReferenceNumber)
		assert.Equal(t, 1, env.gw.initCalls)

		b, _ := env.bookings.GetByID(context.Background(), "bk-1")
		assert.Equal(t, models.BookingPaymentProcessing, b.PaymentStatus)
		assert.Equal(t, p.TransactionID, b.PaymentReference)
	})

	t.Run("transfer payment returns bank details", func(t *testing.T) {
		env := newTestEnv(t)
		result, err := env.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
			UserID:    "user-1",
			BookingID: "bk-1",
			Method:    models.MethodTransfer,
		})
		require.NoError(t, err)

		assert.Equal(t, models.PaymentPending, result.Payment.Status)
		assert.Equal(t, 0.0, result.Payment.GatewayFee)
		require.NotNil(t, result.TransferDetails)
		assert.Equal(t, models.VerificationPending, result.TransferDetails.VerificationStatus)
		assert.Equal(t, 0, env.gw.initCalls)
		assert.Equal(t, []models.EventKind{models.EventTransferInstructed}, env.events.kinds())
	})

	t.Run("second attempt while one is active conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		env.processCard(t)

		_, err := env.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
			UserID:    "user-1",
			BookingID: "bk-1",
			Method:    models.MethodCard,
		})
		assert.ErrorIs(t, err, ErrDuplicatePayment)
	})

	t.Run("no retry once a failed charge cancelled the booking", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)

		env.gw.verifyStatus = "failed"
		_, err := env.svc.VerifyPayment(context.Background(), result.Payment.ReferenceNumber)
		require.NoError(t, err)

		_, err = env.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
			UserID:    "user-1",
			BookingID: "bk-1",
			Method:    models.MethodCard,
		})
		assert.ErrorIs(t, err, ErrBookingNotPayable)
	})

	t.Run("attempt limit enforced", func(t *testing.T) {
		env := newTestEnv(t)
		env.limiter.allowed = false

		_, err := env.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
			UserID:    "user-1",
			BookingID: "bk-1",
			Method:    models.MethodCard,
		})
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	})

	t.Run("terminal booking is not payable", func(t *testing.T) {
		b := payableBooking()
		b.Status = models.BookingCancelled
		env := newTestEnv(t, b)

		_, err := env.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
			UserID:    "user-1",
			BookingID: "bk-1",
			Method:    models.MethodCard,
		})
		assert.ErrorIs(t, err, ErrBookingNotPayable)
	})

	t.Run("only the owner can pay", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
			UserID:    "intruder",
			BookingID: "bk-1",
			Method:    models.MethodCard,
		})
		assert.ErrorIs(t, err, ErrNotOwner)
	})
}

func TestVerifyPayment(t *testing.T) {
	t.Run("success completes payment and confirms booking", func(t *testing.T) {
		env := newTestEnv(t)
		env.gw.verifyLast4 = "4081"
		result := env.processCard(t)

		p, err := env.svc.VerifyPayment(context.Background(), result.Payment.ReferenceNumber)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, p.Status)
		require.NotNil(t, p.PaymentDate)
		require.NotNil(t, p.CardDetails)
		assert.Equal(t, "4081", p.CardDetails.Last4Digits)

		b, _ := env.bookings.GetByID(context.Background(), "bk-1")
		assert.Equal(t, models.BookingConfirmed, b.Status)
		assert.Equal(t, models.BookingPaymentPaid, b.PaymentStatus)
	})

	t.Run("verify is idempotent once settled", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)

		_, err := env.svc.VerifyPayment(context.Background(), result.Payment.ReferenceNumber)
		require.NoError(t, err)
		eventsAfterFirst := len(env.events.events)
		verifyCallsAfterFirst := env.gw.verifyCalls

		p, err := env.svc.VerifyPayment(context.Background(), result.Payment.ReferenceNumber)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, p.Status)
		assert.Equal(t, eventsAfterFirst, len(env.events.events))
		assert.Equal(t, verifyCallsAfterFirst, env.gw.verifyCalls)
	})

	t.Run("failure cancels the booking", func(t *testing.T) {
		env := newTestEnv(t)
		env.gw.verifyStatus = "failed"
		result := env.processCard(t)

		p, err := env.svc.VerifyPayment(context.Background(), result.Payment.ReferenceNumber)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, p.Status)

		// An unverifiable payment is treated as not-paid: the booking is
		// cancelled outright and its dates go back on the market.
		b, _ := env.bookings.GetByID(context.Background(), "bk-1")
		assert.Equal(t, models.BookingCancelled, b.Status)
		assert.Equal(t, models.BookingPaymentFailed, b.PaymentStatus)
		assert.Equal(t, "Payment failed", b.RefundReason)
		assert.Equal(t, models.CancelledBySystem, b.CancelledBy)
		require.NotNil(t, b.CancelledAt)
	})

	t.Run("unknown reference", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.VerifyPayment(context.Background(), "REF_NOPE")
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestHandleWebhookEvent(t *testing.T) {
	t.Run("charge success settles once", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)
		ref := result.Payment.ReferenceNumber

		require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), "charge.success", ref))
		completedEvents := len(env.events.events)

		// Redelivery is a no-op.
		require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), "charge.success", ref))
		assert.Equal(t, completedEvents, len(env.events.events))

		p, _ := env.payments.GetByReferenceNumber(context.Background(), ref)
		assert.Equal(t, models.PaymentCompleted, p.Status)
	})

	t.Run("charge failed marks payment failed", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)
		ref := result.Payment.ReferenceNumber

		require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), "charge.failed", ref))
		p, _ := env.payments.GetByReferenceNumber(context.Background(), ref)
		assert.Equal(t, models.PaymentFailed, p.Status)
	})

	t.Run("failed event after success does not regress", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)
		ref := result.Payment.ReferenceNumber

		require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), "charge.success", ref))
		require.NoError(t, env.svc.HandleWebhookEvent(context.Background(), "charge.failed", ref))

		p, _ := env.payments.GetByReferenceNumber(context.Background(), ref)
		assert.Equal(t, models.PaymentCompleted, p.Status)
	})

	t.Run("unknown events are ignored", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)
		assert.NoError(t, env.svc.HandleWebhookEvent(context.Background(), "subscription.create", result.Payment.ReferenceNumber))
	})
}

func TestTransferFlow(t *testing.T) {
	startTransfer := func(t *testing.T, env *testEnv) *models.Payment {
		t.Helper()
		result, err := env.svc.ProcessPayment(context.Background(), ProcessPaymentRequest{
			UserID:    "user-1",
			BookingID: "bk-1",
			Method:    models.MethodTransfer,
		})
		require.NoError(t, err)
		return result.Payment
	}

	t.Run("proof upload moves payment to processing", func(t *testing.T) {
		env := newTestEnv(t)
		p := startTransfer(t, env)

		got, err := env.svc.UploadTransferProof(context.Background(), p.TransactionID, "user-1", "/tmp/proof.png")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentProcessing, got.Status)
		assert.NotEmpty(t, got.TransferDetails.TransferProof)

		pending, err := env.svc.PendingTransferProofs(context.Background())
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})

	t.Run("approval completes payment", func(t *testing.T) {
		env := newTestEnv(t)
		p := startTransfer(t, env)
		_, err := env.svc.UploadTransferProof(context.Background(), p.TransactionID, "user-1", "/tmp/proof.png")
		require.NoError(t, err)

		got, err := env.svc.ReviewTransferProof(context.Background(), p.TransactionID, "admin-1", true, "")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, got.Status)
		assert.Equal(t, models.VerificationVerified, got.TransferDetails.VerificationStatus)
		assert.Equal(t, "admin-1", got.TransferDetails.VerifiedBy)

		b, _ := env.bookings.GetByID(context.Background(), "bk-1")
		assert.Equal(t, models.BookingConfirmed, b.Status)
	})

	t.Run("rejection fails payment with reason", func(t *testing.T) {
		env := newTestEnv(t)
		p := startTransfer(t, env)
		_, err := env.svc.UploadTransferProof(context.Background(), p.TransactionID, "user-1", "/tmp/proof.png")
		require.NoError(t, err)

		got, err := env.svc.ReviewTransferProof(context.Background(), p.TransactionID, "admin-1", false, "amount mismatch")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, got.Status)
		assert.Equal(t, models.VerificationRejected, got.TransferDetails.VerificationStatus)
		assert.Equal(t, "amount mismatch", got.TransferDetails.RejectionReason)

		b, _ := env.bookings.GetByID(context.Background(), "bk-1")
		assert.Equal(t, models.BookingCancelled, b.Status)
		assert.Equal(t, models.BookingPaymentFailed, b.PaymentStatus)
		assert.Equal(t, "amount mismatch", b.RefundReason)
	})

	t.Run("failed save removes the uploaded proof", func(t *testing.T) {
		env := newTestEnv(t)
		p := startTransfer(t, env)
		env.payments.updateErr = errors.New("write conflict")

		_, err := env.svc.UploadTransferProof(context.Background(), p.TransactionID, "user-1", "/tmp/proof.png")
		require.Error(t, err)
		assert.Equal(t, 1, env.store.deletes)
	})

	t.Run("review without proof is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		p := startTransfer(t, env)

		_, err := env.svc.ReviewTransferProof(context.Background(), p.TransactionID, "admin-1", true, "")
		assert.ErrorIs(t, err, ErrNoProofUploaded)
	})

	t.Run("double review is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		p := startTransfer(t, env)
		_, err := env.svc.UploadTransferProof(context.Background(), p.TransactionID, "user-1", "/tmp/proof.png")
		require.NoError(t, err)
		_, err = env.svc.ReviewTransferProof(context.Background(), p.TransactionID, "admin-1", true, "")
		require.NoError(t, err)

		_, err = env.svc.ReviewTransferProof(context.Background(), p.TransactionID, "admin-1", false, "")
		assert.ErrorIs(t, err, ErrProofAlreadyReviewed)
	})

	t.Run("proof upload on card payment is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)

		_, err := env.svc.UploadTransferProof(context.Background(), result.Payment.TransactionID, "user-1", "/tmp/proof.png")
		assert.ErrorIs(t, err, ErrNotTransferPayment)
	})
}

func completedPayment(env *testEnv, t *testing.T) *models.Payment {
	t.Helper()
	result := env.processCard(t)
	_, err := env.svc.VerifyPayment(context.Background(), result.Payment.ReferenceNumber)
	require.NoError(t, err)
	p, err := env.payments.GetByID(context.Background(), result.Payment.ID)
	require.NoError(t, err)
	return p
}

func TestCautionRefund(t *testing.T) {
	t.Run("partial refund with damage charges", func(t *testing.T) {
		env := newTestEnv(t)
		p := completedPayment(env, t)

		got, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID:     p.ID,
			AdminID:       "admin-1",
			RefundAmount:  3000,
			DamageCharges: 2000,
			RefundReason:  "broken chairs",
		})
		require.NoError(t, err)
		ledger := got.CautionFeeRefund
		require.NotNil(t, ledger)
		assert.Equal(t, 5000.0, ledger.OriginalCautionFee)
		assert.Equal(t, 3000.0, ledger.RefundedAmount)
		assert.Equal(t, 2000.0, ledger.DamageCharges)
		assert.Equal(t, models.CautionRefundPartial, ledger.RefundStatus)
		assert.Equal(t, 3000.0, got.RefundAmount)
	})

	t.Run("full refund", func(t *testing.T) {
		env := newTestEnv(t)
		p := completedPayment(env, t)

		got, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, models.CautionRefundFull, got.CautionFeeRefund.RefundStatus)
	})

	t.Run("fully withheld", func(t *testing.T) {
		env := newTestEnv(t)
		p := completedPayment(env, t)

		got, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 0, DamageCharges: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, models.CautionRefundNone, got.CautionFeeRefund.RefundStatus)
	})

	t.Run("over-allocation is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		p := completedPayment(env, t)

		_, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 3000, DamageCharges: 2001,
		})
		assert.ErrorIs(t, err, ErrCautionLedgerExceeded)
	})

	t.Run("processing twice is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		p := completedPayment(env, t)

		_, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 3000,
		})
		require.NoError(t, err)
		_, err = env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 1000,
		})
		assert.ErrorIs(t, err, ErrCautionNotEligible)
	})

	t.Run("update revises without double counting", func(t *testing.T) {
		env := newTestEnv(t)
		p := completedPayment(env, t)

		_, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 3000, DamageCharges: 2000,
		})
		require.NoError(t, err)

		got, err := env.svc.UpdateCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-2", RefundAmount: 5000, DamageCharges: 0,
		})
		require.NoError(t, err)
		assert.Equal(t, 5000.0, got.CautionFeeRefund.RefundedAmount)
		assert.Equal(t, models.CautionRefundFull, got.CautionFeeRefund.RefundStatus)
		// Overall ledger reflects the revision, not the sum of both passes.
		assert.Equal(t, 5000.0, got.RefundAmount)
	})

	t.Run("update before assessment is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		p := completedPayment(env, t)

		_, err := env.svc.UpdateCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 1000,
		})
		assert.ErrorIs(t, err, ErrNoCautionLedger)
	})

	t.Run("not eligible on unsettled payment", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.processCard(t)

		_, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
			PaymentID: result.Payment.ID, AdminID: "admin-1", RefundAmount: 1000,
		})
		assert.ErrorIs(t, err, ErrCautionNotEligible)
	})
}

func TestRevenueBreakdown(t *testing.T) {
	env := newTestEnv(t)
	p := completedPayment(env, t)

	_, err := env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
		PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 3000, DamageCharges: 1000,
	})
	require.NoError(t, err)

	breakdown, err := env.svc.RevenueBreakdown(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 75000.0, breakdown.GrossRevenue)
	assert.Equal(t, 70000.0, breakdown.HallRevenue)
	assert.Equal(t, 5000.0, breakdown.CautionFeesCollected)
	assert.Equal(t, 3000.0, breakdown.CautionFeesRefunded)
	assert.Equal(t, 1000.0, breakdown.DamageChargesRetained)
	assert.Equal(t, 1225.0, breakdown.GatewayFees)
	assert.Equal(t, 1, breakdown.PaymentCount)
}

func TestCautionFeeStats(t *testing.T) {
	env := newTestEnv(t)
	p := completedPayment(env, t)

	stats, err := env.svc.CautionFeeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 5000.0, stats.OutstandingHeld)

	_, err = env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
		PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 3000, DamageCharges: 2000,
	})
	require.NoError(t, err)

	stats, err = env.svc.CautionFeeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.PendingCount)
	assert.Equal(t, 1, stats.PartialRefunds)
	assert.Equal(t, 3000.0, stats.TotalRefunded)
	assert.Equal(t, 2000.0, stats.TotalDamages)
	assert.Equal(t, 0.0, stats.OutstandingHeld)
}

func TestReceipt(t *testing.T) {
	env := newTestEnv(t)
	p := completedPayment(env, t)

	receipt, err := env.svc.Receipt(context.Background(), p.TransactionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, p.TransactionID, receipt.TransactionID)
	assert.Equal(t, "Ada Obi", receipt.CustomerName)
	assert.Equal(t, 75000.0, receipt.Amount)

	_, err = env.svc.Receipt(context.Background(), p.TransactionID, "intruder")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCautionRefundHistory(t *testing.T) {
	env := newTestEnv(t)
	p := completedPayment(env, t)

	_, err := env.svc.CautionRefundHistory(context.Background(), p.TransactionID)
	assert.ErrorIs(t, err, ErrNoCautionLedger)

	_, err = env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
		PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 3000, DamageCharges: 1000,
	})
	require.NoError(t, err)

	ledger, err := env.svc.CautionRefundHistory(context.Background(), p.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, ledger.RefundedAmount)
	assert.Equal(t, 1000.0, ledger.DamageCharges)
}

func TestEligibleCautionRefunds(t *testing.T) {
	env := newTestEnv(t)
	p := completedPayment(env, t)

	eligible, err := env.svc.EligibleCautionRefunds(context.Background())
	require.NoError(t, err)
	assert.Len(t, eligible, 1)

	_, err = env.svc.ProcessCautionRefund(context.Background(), CautionRefundRequest{
		PaymentID: p.ID, AdminID: "admin-1", RefundAmount: 5000,
	})
	require.NoError(t, err)

	eligible, err = env.svc.EligibleCautionRefunds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestRecordOfflinePayment(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.svc.RecordOfflinePayment(context.Background(), RecordOfflinePaymentRequest{
		BookingID: "bk-1",
		AdminID:   "admin-1",
		Method:    models.MethodTransfer,
		Reference: "POS-124",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.Equal(t, 0.0, p.GatewayFee)
	assert.Equal(t, 75000.0, p.NetAmount)

	b, _ := env.bookings.GetByID(context.Background(), "bk-1")
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, models.BookingPaymentPaid, b.PaymentStatus)

	_, err = env.svc.RecordOfflinePayment(context.Background(), RecordOfflinePaymentRequest{
		BookingID: "bk-1", AdminID: "admin-1", Method: models.MethodCard,
	})
	assert.ErrorIs(t, err, ErrBookingNotPayable)
}

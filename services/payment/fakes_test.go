package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "hallbook/database/repository/booking"
	"hallbook/models"
	"hallbook/services/payment/gateway"
)

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	m := make(map[string]*models.Booking)
	for _, b := range bookings {
		copied := *b
		m[b.ID] = &copied
	}
	return &fakeBookingRepo{bookings: m}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) FindActiveByHallAndDates(context.Context, string, []time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) FindByUser(context.Context, string, models.BookingStatus) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) FindAll(context.Context, bookingRepo.BookingFilter) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) FindStalePending(context.Context, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) FindWithAllDatesPassed(context.Context, models.BookingStatus, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) FindConfirmedWithDatesBetween(context.Context, time.Time, time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookingRepo) ClaimDates(context.Context, string, string, []time.Time) error { return nil }
func (f *fakeBookingRepo) ReleaseDates(context.Context, string) error                    { return nil }

type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  map[string]*models.Payment
	updateErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetByTransactionID(_ context.Context, txn string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.TransactionID == txn {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) GetByReferenceNumber(_ context.Context, ref string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ReferenceNumber == ref {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *p
	f.payments[p.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) Update(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *p
	f.payments[p.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindActiveByBookingID(_ context.Context, bookingID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.BookingID != bookingID {
			continue
		}
		switch p.Status {
		case models.PaymentPending, models.PaymentProcessing, models.PaymentCompleted:
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindByUser(_ context.Context, userID string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindAll(_ context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindPendingTransferProofs(_ context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.Method == models.MethodTransfer && p.TransferDetails != nil &&
			p.TransferDetails.TransferProof != "" &&
			p.TransferDetails.VerificationStatus == models.VerificationPending {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindCompletedBetween(_ context.Context, from, to time.Time) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		if !from.IsZero() && (p.PaymentDate == nil || p.PaymentDate.Before(from)) {
			continue
		}
		if !to.IsZero() && (p.PaymentDate == nil || p.PaymentDate.After(to)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePaymentRepo) FindCompletedWithCautionFee(_ context.Context) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.Status == models.PaymentCompleted && p.CautionFee > 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakeGateway returns scripted results and counts calls.
type fakeGateway struct {
	mu           sync.Mutex
	initCalls    int
	verifyCalls  int
	initErr      error
	verifyStatus string
	verifyLast4  string
}

func (f *fakeGateway) Initialize(_ context.Context, req gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &gateway.InitializeResponse{
		AuthorizationURL: "https://checkout.example.com/" + req.Reference,
		AccessCode:       "access_123",
		Reference:        req.Reference,
	}, nil
}

func (f *fakeGateway) Verify(_ context.Context, reference string) (*gateway.VerifyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	status := f.verifyStatus
	if status == "" {
		status = "success"
	}
	return &gateway.VerifyResponse{
		Status:       status,
		Reference:    reference,
		GatewayTxnID: "gw-1",
		CardLast4:    f.verifyLast4,
	}, nil
}

type fakeStorage struct {
	uploads int
	deletes int
	failed  bool
}

func (f *fakeStorage) UploadFile(_ context.Context, _, folder string) (string, string, error) {
	if f.failed {
		return "", "", errors.New("storage unavailable")
	}
	f.uploads++
	return "https://cdn.example.com/" + folder + "/proof.png", folder + "/proof-" + time.Now().Format("150405.000000000"), nil
}

func (f *fakeStorage) DeleteFile(context.Context, string) error {
	f.deletes++
	return nil
}

type fakeLimiter struct {
	allowed bool
	calls   int
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, error) {
	f.calls++
	return f.allowed, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (f *fakePublisher) Publish(event models.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) kinds() []models.EventKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.EventKind, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "hallbook/database/repository/booking"
	"hallbook/models"
)

type fakeHallRepo struct {
	halls map[string]*models.Hall
}

func newFakeHallRepo(halls ...*models.Hall) *fakeHallRepo {
	m := make(map[string]*models.Hall)
	for _, h := range halls {
		m[h.ID] = h
	}
	return &fakeHallRepo{halls: m}
}

func (f *fakeHallRepo) GetByID(id string) (*models.Hall, error) { return f.halls[id], nil }
func (f *fakeHallRepo) GetAll() ([]models.Hall, error) {
	out := make([]models.Hall, 0, len(f.halls))
	for _, h := range f.halls {
		out = append(out, *h)
	}
	return out, nil
}
func (f *fakeHallRepo) Create(h *models.Hall) error { f.halls[h.ID] = h; return nil }
func (f *fakeHallRepo) Update(h *models.Hall) error { f.halls[h.ID] = h; return nil }

type lockKey struct {
	hallID string
	date   time.Time
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	locks    map[lockKey]string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[string]*models.Booking),
		locks:    make(map[lockKey]string),
	}
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

func (f *fakeBookingRepo) FindActiveByHallAndDates(_ context.Context, hallID string, dates []time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.HallID != hallID || b.Status.IsTerminal() {
			continue
		}
		for _, want := range dates {
			for _, have := range b.EventDates {
				if have.Equal(want) {
					out = append(out, *b)
				}
			}
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindByUser(_ context.Context, userID string, status models.BookingStatus) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && (status == "" || b.Status == status) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindAll(_ context.Context, filter bookingRepo.BookingFilter) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.HallID != "" && b.HallID != filter.HallID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) FindStalePending(_ context.Context, createdBefore time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingPending && b.CreatedAt.Before(createdBefore) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindWithAllDatesPassed(_ context.Context, status models.BookingStatus, day time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == status && b.AllDatesBefore(day) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindConfirmedWithDatesBetween(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status != models.BookingConfirmed {
			continue
		}
		for _, d := range b.EventDates {
			if !d.Before(from) && !d.After(to) {
				out = append(out, *b)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ClaimDates(_ context.Context, hallID, bookingID string, dates []time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range dates {
		key := lockKey{hallID: hallID, date: d}
		if owner, held := f.locks[key]; held && owner != bookingID {
			for k, v := range f.locks {
				if v == bookingID {
					delete(f.locks, k)
				}
			}
			return bookingRepo.ErrDatesTaken
		}
	}
	for _, d := range dates {
		f.locks[lockKey{hallID: hallID, date: d}] = bookingID
	}
	return nil
}

func (f *fakeBookingRepo) ReleaseDates(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range f.locks {
		if v == bookingID {
			delete(f.locks, k)
		}
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
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

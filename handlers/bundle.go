package handlers

import (
	"errors"
	"net/http"

	"hallbook/services/booking"
	"hallbook/services/hall"
	"hallbook/services/notification"
	"hallbook/services/payment"
	"hallbook/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle wires every HTTP handler to its service. One bundle is
// built in main and shared by all route groups.
type HandlerBundle struct {
	Halls    hall.HallService
	Bookings booking.BookingService
	Payments payment.PaymentService
	Notifier *notification.Notifier
}

// NewHandlerBundle creates a handler bundle over the given services.
func NewHandlerBundle(
	halls hall.HallService,
	bookings booking.BookingService,
	payments payment.PaymentService,
	notifier *notification.Notifier,
) *HandlerBundle {
	return &HandlerBundle{
		Halls:    halls,
		Bookings: bookings,
		Payments: payments,
		Notifier: notifier,
	}
}

// HealthHandler is the liveness endpoint.
func (hb *HandlerBundle) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps service errors to HTTP statuses. Unknown errors are
// logged by the recovery layer and reported as 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hall.ErrHallNotFound),
		errors.Is(err, booking.ErrHallNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, payment.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error(), "")

	case errors.Is(err, booking.ErrNotOwner),
		errors.Is(err, payment.ErrNotOwner):
		utils.JSONError(c, http.StatusForbidden, err.Error(), "")

	case errors.Is(err, booking.ErrDatesUnavailable),
		errors.Is(err, booking.ErrAlreadyTerminal),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, payment.ErrDuplicatePayment),
		errors.Is(err, payment.ErrProofAlreadyReviewed),
		errors.Is(err, payment.ErrCautionNotEligible):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")

	case errors.Is(err, booking.ErrDeadlinePassed),
		errors.Is(err, booking.ErrNoEventDates),
		errors.Is(err, booking.ErrPastEventDate),
		errors.Is(err, booking.ErrRefundExceedsTotal),
		errors.Is(err, payment.ErrBookingNotPayable),
		errors.Is(err, payment.ErrNotTransferPayment),
		errors.Is(err, payment.ErrNoProofUploaded),
		errors.Is(err, payment.ErrCautionLedgerExceeded),
		errors.Is(err, payment.ErrNoCautionLedger):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), "")

	case errors.Is(err, payment.ErrTooManyAttempts):
		utils.JSONError(c, http.StatusTooManyRequests, err.Error(), "")

	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

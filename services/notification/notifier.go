package notification

import (
	"context"
	"fmt"
	"time"

	notificationRepo "hallbook/database/repository/notification"
	"hallbook/models"
	"hallbook/services/mailer"
	"hallbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier turns domain events into in-app notifications and customer
// email. Both effects are best-effort: a failed write or send is logged
// and never surfaces to the caller.
type Notifier struct {
	repo notificationRepo.NotificationRepository
	mail mailer.Mailer
}

// NewNotifier creates a notifier over the given sinks. Either sink may be
// nil, in which case that channel is skipped.
func NewNotifier(repo notificationRepo.NotificationRepository, mail mailer.Mailer) *Notifier {
	return &Notifier{repo: repo, mail: mail}
}

// Publish handles one domain event asynchronously.
func (n *Notifier) Publish(event models.Event) {
	go n.handle(event)
}

func (n *Notifier) handle(event models.Event) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	title, message, kind := describe(event)
	if title == "" {
		return
	}

	if n.repo != nil && event.UserID != "" {
		record := &models.Notification{
			ID:             uuid.New().String(),
			UserID:         event.UserID,
			Title:          title,
			Message:        message,
			Type:           kind,
			RelatedBooking: event.BookingID,
			RelatedPayment: event.PaymentID,
			CreatedAt:      time.Now(),
		}
		if err := n.repo.Create(ctx, record); err != nil {
			logger.Error("Failed to write notification",
				zap.String("event", string(event.Kind)), zap.Error(err))
		}
	}

	if n.mail != nil && event.Email != "" {
		subject, body, err := renderEmail(event)
		if err != nil {
			logger.Error("Failed to render notification email",
				zap.String("event", string(event.Kind)), zap.Error(err))
			return
		}
		if subject == "" {
			return
		}
		if err := n.mail.Send(event.Email, subject, body); err != nil {
			logger.Error("Failed to send notification email",
				zap.String("event", string(event.Kind)),
				zap.String("email", event.Email),
				zap.Error(err))
		}
	}
}

// describe maps an event to the in-app notification content.
func describe(event models.Event) (title, message, kind string) {
	switch event.Kind {
	case models.EventBookingCreated:
		return "Booking received",
			fmt.Sprintf("Your booking of %s was received. Complete payment of ₦%.2f within one hour.", event.HallName, event.Amount),
			"info"
	case models.EventBookingConfirmed:
		return "Booking confirmed", "Your booking is confirmed. See you at your event!", "success"
	case models.EventBookingCancelled:
		msg := "Your booking has been cancelled."
		if event.Amount > 0 {
			msg = fmt.Sprintf("Your booking has been cancelled. A refund of ₦%.2f will be processed.", event.Amount)
		}
		return "Booking cancelled", msg, "warning"
	case models.EventBookingCompleted:
		return "Event completed", "Thank you for hosting your event with us.", "success"
	case models.EventBookingReminder:
		if event.DaysToGo == 1 {
			return "Event tomorrow", "Your event is tomorrow. We look forward to hosting you.", "info"
		}
		return "Event coming up", fmt.Sprintf("Your event is in %d days.", event.DaysToGo), "info"
	case models.EventPaymentInitiated:
		return "Payment started", fmt.Sprintf("Your payment of ₦%.2f is being processed.", event.Amount), "info"
	case models.EventTransferInstructed:
		return "Transfer details sent", "Bank transfer details have been sent to your email.", "info"
	case models.EventPaymentCompleted:
		return "Payment received", fmt.Sprintf("Your payment of ₦%.2f was successful.", event.Amount), "success"
	case models.EventPaymentFailed:
		return "Payment failed", "Your payment could not be completed. Please try again.", "error"
	case models.EventCautionFeeProcessed:
		return "Caution fee settled", fmt.Sprintf("Your caution fee assessment is complete. Refunded: ₦%.2f.", event.Amount), "info"
	default:
		return "", "", ""
	}
}

// renderEmail maps an event to its email subject and body. Events with no
// email counterpart return an empty subject.
func renderEmail(event models.Event) (subject, body string, err error) {
	name := ""
	if event.Booking != nil {
		name = event.Booking.CustomerName
	}

	switch event.Kind {
	case models.EventBookingCreated:
		body, err = mailer.Render(mailer.BookingCreatedTpl, map[string]any{
			"CustomerName": name,
			"HallName":     event.HallName,
			"Amount":       event.Amount,
			"CautionFee":   cautionFeeOf(event),
		})
		return "Booking received", body, err
	case models.EventBookingConfirmed:
		body, err = mailer.Render(mailer.BookingConfirmedTpl, map[string]any{
			"CustomerName": name,
			"HallName":     event.HallName,
		})
		return "Booking confirmed", body, err
	case models.EventBookingCancelled:
		body, err = mailer.Render(mailer.BookingCancelledTpl, map[string]any{
			"CustomerName": name,
			"Reason":       event.Reason,
			"RefundAmount": event.Amount,
		})
		return "Booking cancelled", body, err
	case models.EventBookingReminder:
		body, err = mailer.Render(mailer.EventReminderTpl, map[string]any{
			"CustomerName": name,
			"DaysToGo":     event.DaysToGo,
		})
		return "Your event is coming up", body, err
	case models.EventTransferInstructed:
		td := transferDetailsOf(event)
		if td == nil {
			return "", "", nil
		}
		body, err = mailer.Render(mailer.TransferInstructionsTpl, map[string]any{
			"CustomerName":  name,
			"Amount":        event.Amount,
			"AccountName":   td.AccountName,
			"AccountNumber": td.AccountNumber,
			"BankName":      td.BankName,
		})
		return "Bank transfer details", body, err
	case models.EventPaymentCompleted:
		if event.Payment == nil {
			return "", "", nil
		}
		body, err = mailer.Render(mailer.PaymentReceiptTpl, map[string]any{
			"CustomerName":    name,
			"Amount":          event.Payment.Amount,
			"TransactionID":   event.Payment.TransactionID,
			"ReferenceNumber": event.Payment.ReferenceNumber,
		})
		return "Payment receipt", body, err
	case models.EventCautionFeeProcessed:
		if event.Payment == nil || event.Payment.CautionFeeRefund == nil {
			return "", "", nil
		}
		ledger := event.Payment.CautionFeeRefund
		body, err = mailer.Render(mailer.CautionRefundTpl, map[string]any{
			"CustomerName":  name,
			"CautionFee":    ledger.OriginalCautionFee,
			"RefundAmount":  ledger.RefundedAmount,
			"DamageCharges": ledger.DamageCharges,
		})
		return "Caution fee settlement", body, err
	default:
		return "", "", nil
	}
}

func cautionFeeOf(event models.Event) float64 {
	if event.Booking != nil {
		return event.Booking.CautionFee
	}
	return 0
}

func transferDetailsOf(event models.Event) *models.TransferDetails {
	if event.Payment != nil {
		return event.Payment.TransferDetails
	}
	return nil
}

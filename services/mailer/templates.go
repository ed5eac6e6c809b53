package mailer

import "html/template"

var (
	// BookingCreatedTpl is sent right after a booking is opened.
	BookingCreatedTpl = template.Must(template.New("bookingCreated").Parse(`
<h2>Booking received</h2>
<p>Dear {{.CustomerName}},</p>
<p>Your booking of <strong>{{.HallName}}</strong> has been received.</p>
<p>Total due: <strong>&#8358;{{printf "%.2f" .Amount}}</strong> (includes a refundable caution fee of &#8358;{{printf "%.2f" .CautionFee}}).</p>
<p>Please complete payment within one hour to hold your dates.</p>`))

	// BookingConfirmedTpl is sent once payment settles.
	BookingConfirmedTpl = template.Must(template.New("bookingConfirmed").Parse(`
<h2>Booking confirmed</h2>
<p>Dear {{.CustomerName}},</p>
<p>Your booking of <strong>{{.HallName}}</strong> is confirmed. We look forward to hosting you.</p>`))

	// BookingCancelledTpl covers user, admin, and system cancellations.
	BookingCancelledTpl = template.Must(template.New("bookingCancelled").Parse(`
<h2>Booking cancelled</h2>
<p>Dear {{.CustomerName}},</p>
<p>Your booking has been cancelled.{{if .Reason}} Reason: {{.Reason}}.{{end}}</p>
{{if gt .RefundAmount 0.0}}<p>A refund of <strong>&#8358;{{printf "%.2f" .RefundAmount}}</strong> will be processed to your payment method.</p>{{end}}`))

	// PaymentReceiptTpl is the emailed receipt for a completed payment.
	PaymentReceiptTpl = template.Must(template.New("paymentReceipt").Parse(`
<h2>Payment receipt</h2>
<p>Dear {{.CustomerName}},</p>
<p>We received your payment of <strong>&#8358;{{printf "%.2f" .Amount}}</strong>.</p>
<p>Transaction ID: {{.TransactionID}}<br>Reference: {{.ReferenceNumber}}</p>`))

	// TransferInstructionsTpl carries the bank details for manual transfers.
	TransferInstructionsTpl = template.Must(template.New("transferInstructions").Parse(`
<h2>Bank transfer details</h2>
<p>Dear {{.CustomerName}},</p>
<p>Please transfer <strong>&#8358;{{printf "%.2f" .Amount}}</strong> to:</p>
<p>Account name: {{.AccountName}}<br>Account number: {{.AccountNumber}}<br>Bank: {{.BankName}}</p>
<p>Then upload your proof of payment so we can confirm your booking.</p>`))

	// EventReminderTpl is the 3-day and 1-day countdown email.
	EventReminderTpl = template.Must(template.New("eventReminder").Parse(`
<h2>Your event is coming up</h2>
<p>Dear {{.CustomerName}},</p>
<p>{{if eq .DaysToGo 1}}Your event is <strong>tomorrow</strong>!{{else}}Your event is in <strong>{{.DaysToGo}} days</strong>.{{end}}</p>
<p>If anything has changed, contact us as soon as possible.</p>`))

	// CautionRefundTpl reports the post-event damage assessment outcome.
	CautionRefundTpl = template.Must(template.New("cautionRefund").Parse(`
<h2>Caution fee settlement</h2>
<p>Dear {{.CustomerName}},</p>
<p>Your caution fee of &#8358;{{printf "%.2f" .CautionFee}} has been assessed.</p>
<p>Refunded: <strong>&#8358;{{printf "%.2f" .RefundAmount}}</strong>{{if gt .DamageCharges 0.0}}<br>Retained for damages: &#8358;{{printf "%.2f" .DamageCharges}}{{end}}</p>`))
)

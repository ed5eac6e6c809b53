package models

import (
	"fmt"
	"time"
)

// PaymentStatus is the payment lifecycle state.
// pending|processing -> {completed, failed, cancelled}; the latter three are terminal.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed || s == PaymentCancelled
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// RefundStatus tracks the overall refund ledger of a payment.
type RefundStatus string

const (
	RefundNone       RefundStatus = "none"
	RefundPartial    RefundStatus = "partial"
	RefundFull       RefundStatus = "full"
	RefundProcessing RefundStatus = "processing"
	RefundFailed     RefundStatus = "failed"
)

// VerificationStatus is the admin review state of an uploaded transfer proof.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// CautionRefundStatus is the state of the caution-fee damage-assessment ledger.
type CautionRefundStatus string

const (
	CautionRefundPending     CautionRefundStatus = "pending"
	CautionRefundProcessed   CautionRefundStatus = "processed"
	CautionRefundNotEligible CautionRefundStatus = "not_eligible"
	CautionRefundFull        CautionRefundStatus = "full"
	CautionRefundPartial     CautionRefundStatus = "partial"
	CautionRefundNone        CautionRefundStatus = "none"
)

// CardDetails holds the masked card snapshot. Only the last four digits
// are ever stored.
type CardDetails struct {
	Last4Digits    string `bson:"last4Digits" json:"last4Digits"`
	CardType       string `bson:"cardType,omitempty" json:"cardType,omitempty"`
	ExpiryMonth    string `bson:"expiryMonth,omitempty" json:"expiryMonth,omitempty"`
	ExpiryYear     string `bson:"expiryYear,omitempty" json:"expiryYear,omitempty"`
	CardholderName string `bson:"cardholderName,omitempty" json:"cardholderName,omitempty"`
}

// TransferDetails holds the bank account shown to the customer plus the
// uploaded proof and its review state.
type TransferDetails struct {
	AccountName        string             `bson:"accountName" json:"accountName"`
	AccountNumber      string             `bson:"accountNumber" json:"accountNumber"`
	BankName           string             `bson:"bankName" json:"bankName"`
	TransferProof      string             `bson:"transferProof,omitempty" json:"transferProof,omitempty"`
	TransferProofID    string             `bson:"transferProofId,omitempty" json:"transferProofId,omitempty"`
	VerificationStatus VerificationStatus `bson:"verificationStatus" json:"verificationStatus"`
	VerifiedBy         string             `bson:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`
	VerifiedAt         *time.Time         `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	RejectionReason    string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
}

// GatewayResponse captures what the card gateway told us.
type GatewayResponse struct {
	GatewayTransactionID string `bson:"gatewayTransactionId,omitempty" json:"gatewayTransactionId,omitempty"`
	GatewayReference     string `bson:"gatewayReference,omitempty" json:"gatewayReference,omitempty"`
	GatewayStatus        string `bson:"gatewayStatus,omitempty" json:"gatewayStatus,omitempty"`
	GatewayMessage       string `bson:"gatewayMessage,omitempty" json:"gatewayMessage,omitempty"`
}

// CautionFeeRefund is the damage-assessment sub-ledger. It is distinct
// from the payment's overall refund ledger.
// Invariant: RefundedAmount + DamageCharges <= OriginalCautionFee.
type CautionFeeRefund struct {
	OriginalCautionFee float64             `bson:"originalCautionFee" json:"originalCautionFee"`
	RefundedAmount     float64             `bson:"refundedAmount" json:"refundedAmount"`
	DamageCharges      float64             `bson:"damageCharges" json:"damageCharges"`
	RefundStatus       CautionRefundStatus `bson:"refundStatus" json:"refundStatus"`
	ProcessedBy        string              `bson:"processedBy,omitempty" json:"processedBy,omitempty"`
	ProcessedAt        *time.Time          `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	RefundReason       string              `bson:"refundReason,omitempty" json:"refundReason,omitempty"`
	DamageDescription  string              `bson:"damageDescription,omitempty" json:"damageDescription,omitempty"`
	ProcessedOffline   bool                `bson:"processedOffline" json:"processedOffline"`
	OfflineReference   string              `bson:"offlineReference,omitempty" json:"offlineReference,omitempty"`
}

// Payment is one payment attempt for a booking. At most one payment per
// booking may be in {completed, processing} at a time.
type Payment struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"bookingId" json:"bookingId"`
	UserID    string `bson:"userId" json:"userId"`

	// External-facing lookup keys; globally unique, never the internal id.
	TransactionID   string `bson:"transactionId" json:"transactionId"`
	ReferenceNumber string `bson:"referenceNumber" json:"referenceNumber"`

	Amount float64       `bson:"amount" json:"amount"`
	Method PaymentMethod `bson:"method" json:"method"`
	Status PaymentStatus `bson:"status" json:"status"`

	// Caution-fee portion of the amount, tracked separately because it has
	// its own refund workflow.
	CautionFee float64 `bson:"cautionFee" json:"cautionFee"`

	CardDetails     *CardDetails     `bson:"cardDetails,omitempty" json:"cardDetails,omitempty"`
	TransferDetails *TransferDetails `bson:"transferDetails,omitempty" json:"transferDetails,omitempty"`
	GatewayResponse *GatewayResponse `bson:"gatewayResponse,omitempty" json:"gatewayResponse,omitempty"`

	// Fee ledger: netAmount = amount - gatewayFee - processingFee.
	ProcessingFee float64 `bson:"processingFee" json:"processingFee"`
	GatewayFee    float64 `bson:"gatewayFee" json:"gatewayFee"`
	NetAmount     float64 `bson:"netAmount" json:"netAmount"`

	// Set when the payment reaches completed.
	PaymentDate *time.Time `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`

	// Overall refund ledger.
	RefundAmount    float64      `bson:"refundAmount" json:"refundAmount"`
	RefundStatus    RefundStatus `bson:"refundStatus" json:"refundStatus"`
	RefundReference string       `bson:"refundReference,omitempty" json:"refundReference,omitempty"`
	RefundDate      *time.Time   `bson:"refundDate,omitempty" json:"refundDate,omitempty"`

	CautionFeeRefund *CautionFeeRefund `bson:"cautionFeeRefund,omitempty" json:"cautionFeeRefund,omitempty"`

	IPAddress string            `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string            `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Metadata  map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CautionFeeRefundEligible reports whether the caution fee can still be
// assessed: the payment completed, a caution fee exists, and no refund
// has been finalized yet.
func (p *Payment) CautionFeeRefundEligible() bool {
	if p.Status != PaymentCompleted || p.CautionFee <= 0 {
		return false
	}
	return p.CautionFeeRefund == nil || p.CautionFeeRefund.RefundStatus == CautionRefundPending
}

// RefundPercentage reports how much of the caution fee has been returned,
// formatted for display, e.g. "60.0%".
func (r *CautionFeeRefund) RefundPercentage() string {
	if r == nil || r.OriginalCautionFee == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", r.RefundedAmount/r.OriginalCautionFee*100)
}

// CautionFeeRefundPercentage is the payment-level view of the caution
// sub-ledger: "0%" until an assessment exists.
func (p *Payment) CautionFeeRefundPercentage() string {
	if p.CautionFeeRefund == nil {
		return "0%"
	}
	return p.CautionFeeRefund.RefundPercentage()
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hallbook/config"
	"hallbook/models"
	"hallbook/services/payment"
	"hallbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProcessPaymentHandler starts a payment attempt for a booking.
func (hb *HandlerBundle) ProcessPaymentHandler(c *gin.Context) {
	var req payment.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.UserID = c.GetString("userID")
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := hb.Payments.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// VerifyPaymentHandler re-checks a charge against the gateway. The route
// is keyed by the customer-facing transaction id.
func (hb *HandlerBundle) VerifyPaymentHandler(c *gin.Context) {
	p, err := hb.Payments.GetByTransactionID(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if p.UserID != c.GetString("userID") && c.GetString("userRole") != "admin" {
		utils.JSONError(c, http.StatusForbidden, "payment does not belong to this user", "")
		return
	}
	p, err = hb.Payments.VerifyPayment(c.Request.Context(), p.ReferenceNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetPaymentByReferenceHandler looks a payment up by its gateway reference.
func (hb *HandlerBundle) GetPaymentByReferenceHandler(c *gin.Context) {
	p, err := hb.Payments.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	if p.UserID != c.GetString("userID") && c.GetString("userRole") != "admin" {
		utils.JSONError(c, http.StatusForbidden, "payment does not belong to this user", "")
		return
	}
	c.JSON(http.StatusOK, p)
}

// PaymentCallbackHandler is where the gateway redirects the customer
// after checkout. The charge is verified and the browser forwarded to the
// frontend result page.
func (hb *HandlerBundle) PaymentCallbackHandler(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}
	if reference == "" {
		c.Redirect(http.StatusFound, config.AppConfig.FrontendURL+"/payment/failed")
		return
	}

	p, err := hb.Payments.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		c.Redirect(http.StatusFound, config.AppConfig.FrontendURL+"/payment/failed")
		return
	}
	// The result page looks payments up by transaction id, not by the
	// gateway reference.
	if p.Status != models.PaymentCompleted {
		c.Redirect(http.StatusFound, config.AppConfig.FrontendURL+"/payment/failed?transactionId="+p.TransactionID)
		return
	}
	c.Redirect(http.StatusFound, config.AppConfig.FrontendURL+"/payment/success?transactionId="+p.TransactionID)
}

// MyPaymentsHandler lists the caller's payments.
func (hb *HandlerBundle) MyPaymentsHandler(c *gin.Context) {
	payments, err := hb.Payments.UserPayments(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ReceiptHandler returns the receipt for one of the caller's payments.
func (hb *HandlerBundle) ReceiptHandler(c *gin.Context) {
	receipt, err := hb.Payments.Receipt(c.Request.Context(), c.Param("transactionId"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// UploadTransferProofHandler accepts the customer's proof of bank transfer.
func (hb *HandlerBundle) UploadTransferProofHandler(c *gin.Context) {
	file, err := c.FormFile("proof")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "proof file is required", err.Error())
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		respondError(c, err)
		return
	}
	defer os.Remove(tmpPath)

	p, err := hb.Payments.UploadTransferProof(c.Request.Context(), c.Param("transactionId"), c.GetString("userID"), tmpPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPaymentsHandler is the admin dashboard listing, optionally filtered
// by ?status=.
func (hb *HandlerBundle) ListPaymentsHandler(c *gin.Context) {
	payments, err := hb.Payments.ListPayments(c.Request.Context(), models.PaymentStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// PendingTransferProofsHandler lists proofs awaiting admin review.
func (hb *HandlerBundle) PendingTransferProofsHandler(c *gin.Context) {
	payments, err := hb.Payments.PendingTransferProofs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ReviewTransferProofHandler approves or rejects an uploaded proof.
func (hb *HandlerBundle) ReviewTransferProofHandler(c *gin.Context) {
	var input struct {
		Approve bool   `json:"approve"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	p, err := hb.Payments.ReviewTransferProof(c.Request.Context(), c.Param("transactionId"), c.GetString("userID"), input.Approve, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// RecordOfflinePaymentHandler records a cash or POS payment.
func (hb *HandlerBundle) RecordOfflinePaymentHandler(c *gin.Context) {
	var req payment.RecordOfflinePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.AdminID = c.GetString("userID")

	p, err := hb.Payments.RecordOfflinePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// cautionRefundRequest binds the body and resolves the route's
// transaction id to the internal payment id.
func (hb *HandlerBundle) cautionRefundRequest(c *gin.Context) (payment.CautionRefundRequest, bool) {
	var req payment.CautionRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return req, false
	}
	p, err := hb.Payments.GetByTransactionID(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		respondError(c, err)
		return req, false
	}
	req.PaymentID = p.ID
	req.AdminID = c.GetString("userID")
	return req, true
}

// ProcessCautionRefundHandler records the post-event damage assessment.
func (hb *HandlerBundle) ProcessCautionRefundHandler(c *gin.Context) {
	req, ok := hb.cautionRefundRequest(c)
	if !ok {
		return
	}
	p, err := hb.Payments.ProcessCautionRefund(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateCautionRefundHandler revises an existing assessment.
func (hb *HandlerBundle) UpdateCautionRefundHandler(c *gin.Context) {
	req, ok := hb.cautionRefundRequest(c)
	if !ok {
		return
	}
	p, err := hb.Payments.UpdateCautionRefund(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CautionRefundHistoryHandler returns a payment's caution sub-ledger.
func (hb *HandlerBundle) CautionRefundHistoryHandler(c *gin.Context) {
	ledger, err := hb.Payments.CautionRefundHistory(c.Request.Context(), c.Param("transactionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cautionFeeRefund":           ledger,
		"cautionFeeRefundPercentage": ledger.RefundPercentage(),
	})
}

// EligibleCautionRefundsHandler lists payments still awaiting their
// damage assessment.
func (hb *HandlerBundle) EligibleCautionRefundsHandler(c *gin.Context) {
	payments, err := hb.Payments.EligibleCautionRefunds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// PaymentStatsHandler reports the revenue breakdown and caution-fee
// ledger totals. ?from and ?to (RFC3339) bound the revenue window.
func (hb *HandlerBundle) PaymentStatsHandler(c *gin.Context) {
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}

	revenue, err := hb.Payments.RevenueBreakdown(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	cautionFees, err := hb.Payments.CautionFeeStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"revenue":     revenue,
		"cautionFees": cautionFees,
	})
}

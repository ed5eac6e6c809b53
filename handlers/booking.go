package handlers

import (
	"net/http"
	"time"

	bookingRepo "hallbook/database/repository/booking"
	"hallbook/models"
	"hallbook/services/booking"
	"hallbook/utils"

	"github.com/gin-gonic/gin"
)

// CreateBookingHandler opens a booking for the authenticated customer.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.UserID = c.GetString("userID")
	req.BookingType = models.BookingOnline

	b, err := hb.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// MyBookingsHandler lists the caller's bookings, optionally filtered by
// a ?status= query.
func (hb *HandlerBundle) MyBookingsHandler(c *gin.Context) {
	status := models.BookingStatus(c.Query("status"))
	bookings, err := hb.Bookings.UserBookings(c.Request.Context(), c.GetString("userID"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBookingHandler returns one booking, visible to its owner or an admin.
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	b, err := hb.Bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if b.UserID != c.GetString("userID") && c.GetString("userRole") != "admin" {
		utils.JSONError(c, http.StatusForbidden, "booking does not belong to this user", "")
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler is the customer cancellation endpoint.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	b, err := hb.Bookings.CancelByUser(c.Request.Context(), c.Param("id"), c.GetString("userID"), input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler is the admin dashboard listing with filters.
func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	filter := bookingRepo.BookingFilter{
		Status:        models.BookingStatus(c.Query("status")),
		PaymentStatus: models.BookingPaymentStatus(c.Query("paymentStatus")),
		HallID:        c.Query("hallId"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.StartDate = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.EndDate = &t
		}
	}

	bookings, err := hb.Bookings.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CreateOfflineBookingHandler lets an admin enter a walk-in booking.
func (hb *HandlerBundle) CreateOfflineBookingHandler(c *gin.Context) {
	var input struct {
		booking.CreateBookingRequest
		CustomerUserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req := input.CreateBookingRequest
	req.BookingType = models.BookingOffline
	req.AdminID = c.GetString("userID")
	req.UserID = input.CustomerUserID
	if req.UserID == "" {
		req.UserID = c.GetString("userID")
	}

	b, err := hb.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// AdminCancelBookingHandler cancels any booking with a chosen refund.
func (hb *HandlerBundle) AdminCancelBookingHandler(c *gin.Context) {
	var req booking.AdminCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	req.BookingID = c.Param("id")
	req.AdminID = c.GetString("userID")

	b, err := hb.Bookings.CancelByAdmin(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBookingStatusHandler confirms or completes a booking.
func (hb *HandlerBundle) UpdateBookingStatusHandler(c *gin.Context) {
	var input struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	b, err := hb.Bookings.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status, c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hallbook/services/hall"
	"hallbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListHallsHandler returns the hall catalogue.
func (hb *HandlerBundle) ListHallsHandler(c *gin.Context) {
	halls, err := hb.Halls.ListHalls(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"halls": halls})
}

// GetHallHandler returns one hall.
func (hb *HandlerBundle) GetHallHandler(c *gin.Context) {
	h, err := hb.Halls.GetHall(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

// CheckAvailabilityHandler reports whether the given dates are free for
// a hall.
func (hb *HandlerBundle) CheckAvailabilityHandler(c *gin.Context) {
	var input struct {
		HallID     string      `json:"hallId" binding:"required"`
		EventDates []time.Time `json:"eventDates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	results, err := hb.Bookings.AvailabilityByDate(c.Request.Context(), input.HallID, input.EventDates)
	if err != nil {
		respondError(c, err)
		return
	}
	available := true
	for _, r := range results {
		if !r.Available {
			available = false
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"available": available, "dates": results})
}

// CreateHallHandler adds a hall to the catalogue.
func (hb *HandlerBundle) CreateHallHandler(c *gin.Context) {
	var req hall.UpsertHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h, err := hb.Halls.CreateHall(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

// UpdateHallHandler edits a hall's details.
func (hb *HandlerBundle) UpdateHallHandler(c *gin.Context) {
	var req hall.UpsertHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	h, err := hb.Halls.UpdateHall(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

// UploadHallImageHandler accepts a multipart photo upload for a hall.
func (hb *HandlerBundle) UploadHallImageHandler(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "image file is required", err.Error())
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		respondError(c, err)
		return
	}
	defer os.Remove(tmpPath)

	h, err := hb.Halls.AddImage(c.Request.Context(), c.Param("id"), tmpPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

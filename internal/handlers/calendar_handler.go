package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/store"
)

// GetCalendar returns the week grid for ?date= (default today).
func (h *Handler) GetCalendar(c *gin.Context) {
	today, ok := h.parseDay(c, "date")
	if !ok {
		return
	}
	appts, err := h.Store.Appointments(c.Request.Context(), store.AppointmentFilter{})
	if err != nil {
		h.storeError(c, err, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, h.Grid.Week(appts, today))
}

// GetCalendarCell lists the appointments of one (day, slot) cell.
func (h *Handler) GetCalendarCell(c *gin.Context) {
	today, ok := h.parseDay(c, "date")
	if !ok {
		return
	}
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil || day < 0 || day >= len(h.Grid.Days()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid day index"})
		return
	}
	slot, err := strconv.Atoi(c.Query("slot"))
	if err != nil || slot < 0 || slot >= h.Grid.SlotsPerDay() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot index"})
		return
	}

	appts, err := h.Store.Appointments(c.Request.Context(), store.AppointmentFilter{})
	if err != nil {
		h.storeError(c, err, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"day":          day,
		"slot":         slot,
		"label":        h.Grid.SlotLabels()[slot],
		"appointments": h.Grid.CellAppointments(day, slot, appts, today),
	})
}

// ClassifyTime tells where ?at= falls on the grid as seen on ?date=.
func (h *Handler) ClassifyTime(c *gin.Context) {
	v := c.Query("at")
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at is required"})
		return
	}
	at, err := time.Parse(time.RFC3339, v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, use RFC3339"})
		return
	}
	today, ok := h.parseDay(c, "date")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Grid.Classify(at, today))
}

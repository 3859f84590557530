package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/models"
	"github.com/harentsoaR/dentaldash-api/internal/store"
)

type appointmentRequest struct {
	models.Appointment
	// AutoSchedule places the appointment with the scheduling policy, using
	// dateTime (or now when empty) as the desired start.
	AutoSchedule bool `json:"autoSchedule"`
}

func validateAppointment(a models.Appointment) string {
	switch {
	case strings.TrimSpace(a.PatientName) == "":
		return "patientName is required"
	case a.PaymentDone < 0 || a.PaymentDue < 0:
		return "payments cannot be negative"
	}
	for _, tooth := range a.SelectedTeeth {
		if tooth < 1 || tooth > 32 {
			return "selectedTeeth must be tooth numbers 1-32"
		}
	}
	return ""
}

// --- GET APPOINTMENTS (with Filtering) ---
func (h *Handler) GetAppointments(c *gin.Context) {
	var filter store.AppointmentFilter

	// Filter by date range (e.g., /api/appointments?startDate=2026-10-01&endDate=2026-10-31)
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		startDate, err := time.ParseInLocation("2006-01-02", startDateStr, h.clinicLocation())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, use YYYY-MM-DD"})
			return
		}
		filter.From = startDate
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		endDate, err := time.ParseInLocation("2006-01-02", endDateStr, h.clinicLocation())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate, use YYYY-MM-DD"})
			return
		}
		// Include the entire end day
		filter.To = endDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if paidStr := c.Query("paid"); paidStr != "" {
		paid, err := strconv.ParseBool(paidStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paid, use true or false"})
			return
		}
		filter.Paid = &paid
	}

	appointments, err := h.Store.Appointments(c.Request.Context(), filter)
	if err != nil {
		h.storeError(c, err, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.Store.Appointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err, "Failed to retrieve appointment")
		return
	}
	c.JSON(http.StatusOK, apt)
}

// --- CREATE APPOINTMENT (with SMS confirmation) ---
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	apt := req.Appointment
	apt.ID = models.NewID
	if msg := validateAppointment(apt); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	if req.AutoSchedule {
		desired := apt.DateTime.In(h.clinicLocation())
		if apt.DateTime.IsZero() {
			desired = h.Now()
		}
		existing, err := h.Store.Appointments(ctx, store.AppointmentFilter{})
		if err != nil {
			h.storeError(c, err, "Failed to retrieve appointments")
			return
		}
		apt.DateTime = h.Policy.Resolve(desired, existing)
	} else if apt.DateTime.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dateTime is required, use RFC3339"})
		return
	}

	saved, err := h.Store.SaveAppointment(ctx, apt)
	if err != nil {
		h.storeError(c, err, "Failed to create appointment")
		return
	}

	// --- NOTIFICATION ---
	if h.NotificationSvc != nil {
		h.NotificationSvc.SendAppointmentConfirmationSMS(saved)
	}

	c.JSON(http.StatusCreated, saved)
}

// --- UPDATE APPOINTMENT (replace by id) ---
func (h *Handler) UpdateAppointment(c *gin.Context) {
	var apt models.Appointment
	if err := c.ShouldBindJSON(&apt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	apt.ID = c.Param("id")
	if apt.IsNew() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID"})
		return
	}
	if msg := validateAppointment(apt); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if apt.DateTime.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dateTime is required, use RFC3339"})
		return
	}

	saved, err := h.Store.SaveAppointment(c.Request.Context(), apt)
	if err != nil {
		h.storeError(c, err, "Failed to update appointment")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// NextSlot shows where an appointment wanted at ?desired= would be placed.
func (h *Handler) NextSlot(c *gin.Context) {
	desired := h.Now()
	if v := c.Query("desired"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, use RFC3339"})
			return
		}
		desired = t.In(h.clinicLocation())
	}

	existing, err := h.Store.Appointments(c.Request.Context(), store.AppointmentFilter{})
	if err != nil {
		h.storeError(c, err, "Failed to retrieve appointments")
		return
	}
	resolved := h.Policy.Resolve(desired, existing)
	c.JSON(http.StatusOK, gin.H{
		"desired":  desired,
		"resolved": resolved,
		"cell":     h.Grid.Classify(resolved, resolved),
	})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

func validateLabWork(l models.LabWork) string {
	switch {
	case strings.TrimSpace(l.PatientName) == "":
		return "patientName is required"
	case strings.TrimSpace(l.LabName) == "":
		return "labName is required"
	case !l.Status.Valid():
		return "status must be Sent, Received or Fitted"
	case l.Cost < 0:
		return "cost cannot be negative"
	case !l.DateDue.IsZero() && l.DateDue.Before(l.DateSent):
		return "dateDue cannot be before dateSent"
	}
	return ""
}

func (h *Handler) GetLabWorks(c *gin.Context) {
	works, err := h.Store.LabWorks(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "Failed to retrieve lab work")
		return
	}
	c.JSON(http.StatusOK, works)
}

func (h *Handler) CreateLabWork(c *gin.Context) {
	var l models.LabWork
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if l.Status == "" {
		l.Status = models.LabWorkSent
	}
	if l.DateSent.IsZero() {
		l.DateSent = h.Now()
	}
	if msg := validateLabWork(l); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	l.ID = models.NewID

	saved, err := h.Store.SaveLabWork(c.Request.Context(), l)
	if err != nil {
		h.storeError(c, err, "Failed to create lab work")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateLabWork replaces the lab work entry, typically to move its status on.
func (h *Handler) UpdateLabWork(c *gin.Context) {
	var l models.LabWork
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	l.ID = c.Param("id")
	if l.ID == models.NewID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lab work ID"})
		return
	}
	if msg := validateLabWork(l); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	saved, err := h.Store.SaveLabWork(c.Request.Context(), l)
	if err != nil {
		h.storeError(c, err, "Failed to update lab work")
		return
	}
	c.JSON(http.StatusOK, saved)
}

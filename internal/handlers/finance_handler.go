package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/finance"
	"github.com/harentsoaR/dentaldash-api/internal/services"
	"github.com/harentsoaR/dentaldash-api/internal/store"
)

// GetFinanceSummary totals income, dues and expenses over every entry.
func (h *Handler) GetFinanceSummary(c *gin.Context) {
	ctx := c.Request.Context()
	appts, err := h.Store.Appointments(ctx, store.AppointmentFilter{})
	if err != nil {
		h.storeError(c, err, "Failed to retrieve appointments")
		return
	}
	expenses, err := h.Store.Expenses(ctx)
	if err != nil {
		h.storeError(c, err, "Failed to retrieve expenses")
		return
	}
	c.JSON(http.StatusOK, finance.Summarize(appts, expenses))
}

func (h *Handler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": services.Reminders(h.Now())})
}

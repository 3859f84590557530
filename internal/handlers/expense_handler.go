package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

// GetExpenses lists expenses newest first.
func (h *Handler) GetExpenses(c *gin.Context) {
	expenses, err := h.Store.Expenses(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "Failed to retrieve expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(c *gin.Context) {
	var e models.Expense
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !e.Category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be Lab, Supplies, Bill or Other"})
		return
	}
	if strings.TrimSpace(e.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description is required"})
		return
	}
	if e.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount cannot be negative"})
		return
	}
	if e.Date.IsZero() {
		e.Date = h.Now()
	}
	e.ID = models.NewID

	saved, err := h.Store.SaveExpense(c.Request.Context(), e)
	if err != nil {
		h.storeError(c, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/calsync"
)

// SyncCalendar runs one external calendar sync and reports what it added.
func (h *Handler) SyncCalendar(c *gin.Context) {
	res, err := h.Syncer.Run(c.Request.Context())
	switch {
	case errors.Is(err, calsync.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "A sync is already in progress"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Calendar sync failed", "detail": err.Error()})
		return
	}

	msg := "No new appointments to sync."
	if n := len(res.Added); n > 0 {
		msg = fmt.Sprintf("Successfully synced %d new appointment(s).", n)
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "result": res})
}

func (h *Handler) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Syncer.Status())
}

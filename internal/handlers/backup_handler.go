package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/backup"
	"github.com/harentsoaR/dentaldash-api/internal/store"
)

// DownloadBackup streams a JSON snapshot of every ledger as a file.
func (h *Handler) DownloadBackup(c *gin.Context) {
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
	labWorks, err := h.Store.LabWorks(ctx)
	if err != nil {
		h.storeError(c, err, "Failed to retrieve lab work")
		return
	}

	now := h.Now()
	data, err := backup.Encode(backup.New(appts, expenses, labWorks, now))
	if err != nil {
		h.Logger.Error("encode backup", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build backup"})
		return
	}

	h.backupMu.Lock()
	h.lastBackup = now
	h.backupMu.Unlock()

	c.Header("Content-Disposition", `attachment; filename="`+backup.FileName(now)+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (h *Handler) BackupStatus(c *gin.Context) {
	h.backupMu.Lock()
	last := h.lastBackup
	h.backupMu.Unlock()

	var lastBackup *time.Time
	if !last.IsZero() {
		lastBackup = &last
	}
	c.JSON(http.StatusOK, gin.H{"lastBackup": lastBackup})
}

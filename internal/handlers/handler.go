package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/dentaldash-api/internal/calendar"
	"github.com/harentsoaR/dentaldash-api/internal/calsync"
	"github.com/harentsoaR/dentaldash-api/internal/scheduling"
	"github.com/harentsoaR/dentaldash-api/internal/services"
	"github.com/harentsoaR/dentaldash-api/internal/store"
	"github.com/harentsoaR/dentaldash-api/internal/utils"
)

// Deps is everything the handlers need. Now defaults to time.Now.
type Deps struct {
	Store           store.Store
	Grid            calendar.Grid
	Policy          scheduling.Policy
	Syncer          *calsync.Syncer
	NotificationSvc *services.NotificationService
	Tokens          *utils.Tokens
	BcryptCost      int
	Logger          *slog.Logger
	Now             func() time.Time
}

type Handler struct {
	Deps

	backupMu   sync.Mutex
	lastBackup time.Time
}

func NewHandler(deps Deps) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{Deps: deps}
}

// storeError answers with 404 for unknown ids and 500 otherwise.
func (h *Handler) storeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	default:
		h.Logger.Error(msg, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// Health reports whether the ledger store is reachable.
func (h *Handler) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// clinicLocation is where grid wall-clock times are read: the location of
// Now, which is time.Local in production.
func (h *Handler) clinicLocation() *time.Location {
	return h.Now().Location()
}

// parseDay reads a YYYY-MM-DD query value as a clinic-local date, falling
// back to now.
func (h *Handler) parseDay(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return h.Now(), true
	}
	d, err := time.ParseInLocation("2006-01-02", v, h.clinicLocation())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key + ", use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

package calsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/models"
	"github.com/harentsoaR/dentaldash-api/internal/scheduling"
	"github.com/harentsoaR/dentaldash-api/internal/store"
)

// DefaultTimeout bounds a whole sync run.
const DefaultTimeout = 30 * time.Second

var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrSyncFailed     = errors.New("sync failed")
)

// Ledger is the part of the store the syncer needs.
type Ledger interface {
	Appointments(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error)
	AddAppointments(ctx context.Context, appts []models.Appointment) error
}

type Result struct {
	Source     string               `json:"source"`
	Fetched    int                  `json:"fetched"`
	Skipped    int                  `json:"skipped"`
	Added      []models.Appointment `json:"added"`
	FinishedAt time.Time            `json:"finishedAt"`
}

type Status struct {
	Syncing   bool      `json:"syncing"`
	LastRun   time.Time `json:"lastRun"`
	LastAdded int       `json:"lastAdded"`
	LastError string    `json:"lastError,omitempty"`
}

type Config struct {
	Source  Source
	Policy  scheduling.Policy
	IDs     IDSource
	Prefix  string        // defaults to models.ExternalIDPrefix
	Timeout time.Duration // defaults to DefaultTimeout
	Now     func() time.Time
	Logger  *slog.Logger
}

// Syncer runs at most one sync at a time. A run cannot be cancelled by its
// caller; it ends when the source and the ledger answer or the timeout hits.
type Syncer struct {
	ledger Ledger
	cfg    Config
	busy   atomic.Bool

	mu     sync.Mutex
	status Status
}

func NewSyncer(ledger Ledger, cfg Config) *Syncer {
	if cfg.Prefix == "" {
		cfg.Prefix = models.ExternalIDPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.IDs == nil {
		cfg.IDs = UUIDs{Prefix: cfg.Prefix}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Syncer{ledger: ledger, cfg: cfg}
}

// Syncing reports whether a run is in flight.
func (s *Syncer) Syncing() bool {
	return s.busy.Load()
}

func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Syncing = s.Syncing()
	return st
}

// Run fetches from the source, drops already-known ids, places the rest on
// the grid and appends them to the ledger. An empty Result with a nil error
// means there was nothing new; any failure wraps ErrSyncFailed.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Result{}, ErrSyncInProgress
	}
	defer s.busy.Store(false)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	log := s.cfg.Logger.With("source", s.cfg.Source.Name())
	log.Info("calendar sync start")

	res, err := s.run(ctx)
	s.record(res, err)
	if err != nil {
		log.Error("calendar sync failed", "error", err)
		return Result{}, err
	}
	log.Info("calendar sync complete", "fetched", res.Fetched, "added", len(res.Added), "skipped", res.Skipped)
	return res, nil
}

func (s *Syncer) run(ctx context.Context) (Result, error) {
	now := s.cfg.Now()
	cands, err := s.cfg.Source.Fetch(ctx, now)
	if err != nil {
		return Result{}, fmt.Errorf("%w: fetch from %s: %w", ErrSyncFailed, s.cfg.Source.Name(), err)
	}

	existing, err := s.ledger.Appointments(ctx, store.AppointmentFilter{})
	if err != nil {
		return Result{}, fmt.Errorf("%w: load appointments: %w", ErrSyncFailed, err)
	}

	fresh := Merge(Assign(cands, s.cfg.Prefix, s.cfg.IDs), existing)
	placed := Place(fresh, existing, s.cfg.Policy)
	if err := s.ledger.AddAppointments(ctx, placed); err != nil {
		return Result{}, fmt.Errorf("%w: save appointments: %w", ErrSyncFailed, err)
	}

	return Result{
		Source:     s.cfg.Source.Name(),
		Fetched:    len(cands),
		Skipped:    len(cands) - len(placed),
		Added:      placed,
		FinishedAt: s.cfg.Now(),
	}, nil
}

func (s *Syncer) record(res Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastRun = s.cfg.Now()
	s.status.LastAdded = len(res.Added)
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
}

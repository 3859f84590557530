// Package calsync imports appointments from an external calendar into the
// ledger without duplicating earlier imports or colliding with booked slots.
package calsync

import (
	"context"
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

// Candidate is an appointment proposed by a source. UID is the source's own
// stable event id, empty when it has none.
type Candidate struct {
	UID          string
	DesiredStart time.Time
	Appointment  models.Appointment
}

// Source fetches candidates. now is the reference time of the sync run.
type Source interface {
	Name() string
	Fetch(ctx context.Context, now time.Time) ([]Candidate, error)
}

// Package scheduling picks start times for new appointments so they do not
// collide with the ones already in the ledger.
package scheduling

import (
	"fmt"
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/calendar"
	"github.com/harentsoaR/dentaldash-api/internal/models"
)

// Policy resolves a desired start against the current appointments.
type Policy interface {
	Resolve(desired time.Time, existing []models.Appointment) time.Time
}

const (
	PolicyAppend = "append"
	PolicyGap    = "gap"
)

// NewPolicy returns the named policy for grid.
func NewPolicy(name string, grid calendar.Grid) (Policy, error) {
	switch name {
	case "", PolicyAppend:
		return Append{Grid: grid}, nil
	case PolicyGap:
		return Gap{Grid: grid, Horizon: DefaultHorizon}, nil
	default:
		return nil, fmt.Errorf("unknown scheduling policy %q", name)
	}
}

// Append always places new appointments after the latest existing one.
type Append struct {
	Grid calendar.Grid
}

func (p Append) Resolve(desired time.Time, existing []models.Appointment) time.Time {
	return NextAvailable(p.Grid, desired, existing)
}

// NextAvailable is the single-pass append rule: when the latest existing
// appointment starts after desired, the candidate moves to one slot after it;
// a candidate at or past closing rolls to the next day's opening slot. The
// rolled-over slot is not checked against existing appointments. The result
// is expressed in desired's location, which is also where closing is judged.
func NextAvailable(grid calendar.Grid, desired time.Time, existing []models.Appointment) time.Time {
	candidate := desired
	if last := latestStart(existing); last.After(desired) {
		candidate = last.Add(grid.SlotWidth).In(desired.Location())
	}
	if candidate.Hour() >= grid.CloseHour {
		candidate = grid.Opening(candidate.AddDate(0, 0, 1))
	}
	return candidate
}

// latestStart returns the zero time for an empty ledger.
func latestStart(appts []models.Appointment) time.Time {
	var last time.Time
	for _, a := range appts {
		if a.DateTime.After(last) {
			last = a.DateTime
		}
	}
	return last
}

package scheduling

import (
	"sort"
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/calendar"
	"github.com/harentsoaR/dentaldash-api/internal/models"
)

// DefaultHorizon bounds how far ahead Gap searches.
const DefaultHorizon = 14 * 24 * time.Hour

// Gap searches the grid for the first free slot at or after the desired
// start, skipping the closed day and times outside the daily window. Each
// appointment occupies one slot width.
type Gap struct {
	Grid    calendar.Grid
	Horizon time.Duration
}

type interval struct {
	start time.Time
	end   time.Time
}

func (p Gap) Resolve(desired time.Time, existing []models.Appointment) time.Time {
	if t, ok := NextFree(p.Grid, desired, existing, p.Horizon); ok {
		return t
	}
	return NextAvailable(p.Grid, desired, existing)
}

// NextFree returns the first slot start >= desired whose slot does not
// overlap any existing appointment, searching until desired+horizon. The
// daily window is laid out in desired's location.
func NextFree(grid calendar.Grid, desired time.Time, existing []models.Appointment, horizon time.Duration) (time.Time, bool) {
	busy := make([]interval, 0, len(existing))
	for _, a := range existing {
		busy = append(busy, interval{start: a.DateTime, end: a.DateTime.Add(grid.SlotWidth)})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start.Before(busy[j].start) })

	limit := desired.Add(horizon)
	t := alignUp(grid, desired)
	for !t.After(limit) {
		switch {
		case t.Weekday() == grid.ClosedDay || !t.Before(grid.Closing(t)):
			t = grid.Opening(t.AddDate(0, 0, 1))
			continue
		case t.Before(grid.Opening(t)):
			t = grid.Opening(t)
			continue
		}
		if !overlapsAny(t, t.Add(grid.SlotWidth), busy) {
			return t, true
		}
		t = t.Add(grid.SlotWidth)
	}
	return time.Time{}, false
}

// alignUp rounds t up to the next slot boundary of its day.
func alignUp(grid calendar.Grid, t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	since := t.Sub(midnight)
	if rem := since % grid.SlotWidth; rem != 0 {
		since += grid.SlotWidth - rem
	}
	return midnight.Add(since)
}

func overlapsAny(start, end time.Time, busy []interval) bool {
	for _, b := range busy {
		if !b.start.Before(end) {
			return false
		}
		// Half-open intervals: [start,end) overlaps [b.start,b.end) iff start < b.end && b.start < end.
		if start.Before(b.end) {
			return true
		}
	}
	return false
}

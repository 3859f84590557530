package calendar

import (
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

type Kind string

const (
	InGrid    Kind = "in_grid"
	OutOfGrid Kind = "out_of_grid"
	Closed    Kind = "closed"
)

// Cell is the grid coordinate of a timestamp. Day and Slot are only
// meaningful when Kind is InGrid.
type Cell struct {
	Kind Kind `json:"kind"`
	Day  int  `json:"day"`
	Slot int  `json:"slot"`
}

// Classify maps ts into the grid as seen on today. Wall-clock fields are read
// in today's location, whatever location ts carries. Only timestamps on
// today's calendar date are placed; anything on the closed weekday is Closed.
// Minutes that are not on a slot boundary round down to the containing slot.
func (g Grid) Classify(ts, today time.Time) Cell {
	ts = ts.In(today.Location())
	if ts.Weekday() == g.ClosedDay {
		return Cell{Kind: Closed, Day: -1, Slot: -1}
	}
	if !sameDate(ts, today) {
		return Cell{Kind: OutOfGrid, Day: -1, Slot: -1}
	}
	if ts.Hour() < g.OpenHour || ts.Hour() >= g.CloseHour {
		return Cell{Kind: OutOfGrid, Day: -1, Slot: -1}
	}
	sinceOpen := time.Duration(ts.Hour()-g.OpenHour)*time.Hour + time.Duration(ts.Minute())*time.Minute
	return Cell{
		Kind: InGrid,
		Day:  g.DayIndex(ts.Weekday()),
		Slot: int(sinceOpen / g.SlotWidth),
	}
}

// CellAppointments returns the appointments classified into (day, slot), in
// ledger order. Usually zero or one, but callers must handle more.
func (g Grid) CellAppointments(day, slot int, appts []models.Appointment, today time.Time) []models.Appointment {
	var out []models.Appointment
	for _, a := range appts {
		c := g.Classify(a.DateTime, today)
		if c.Kind == InGrid && c.Day == day && c.Slot == slot {
			out = append(out, a)
		}
	}
	return out
}

// sameDate compares calendar dates in b's location.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

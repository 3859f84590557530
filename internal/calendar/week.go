package calendar

import (
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

type DayColumn struct {
	Weekday string                 `json:"weekday"`
	Today   bool                   `json:"today"`
	Cells   [][]models.Appointment `json:"cells"`
}

// WeekView is the rendered grid for one reference day. Only the column of
// today carries appointments; the others are placeholders.
type WeekView struct {
	Date        string               `json:"date"`
	Closed      bool                 `json:"closed"`
	Slots       []string             `json:"slots"`
	Days        []DayColumn          `json:"days"`
	Unscheduled []models.Appointment `json:"unscheduled"`
}

// Week builds the grid for today. On the closed day the view is empty and
// marked Closed.
func (g Grid) Week(appts []models.Appointment, today time.Time) WeekView {
	view := WeekView{
		Date:        today.Format("2006-01-02"),
		Slots:       g.SlotLabels(),
		Unscheduled: []models.Appointment{},
	}
	if today.Weekday() == g.ClosedDay {
		view.Closed = true
		view.Days = []DayColumn{}
		return view
	}

	todayIdx := g.DayIndex(today.Weekday())
	for i, d := range g.Days() {
		col := DayColumn{
			Weekday: d.String(),
			Today:   i == todayIdx,
			Cells:   make([][]models.Appointment, g.SlotsPerDay()),
		}
		for s := range col.Cells {
			col.Cells[s] = []models.Appointment{}
		}
		view.Days = append(view.Days, col)
	}

	for _, a := range appts {
		if !sameDate(a.DateTime, today) {
			continue
		}
		c := g.Classify(a.DateTime, today)
		if c.Kind != InGrid {
			view.Unscheduled = append(view.Unscheduled, a)
			continue
		}
		cells := view.Days[c.Day].Cells
		cells[c.Slot] = append(cells[c.Slot], a)
	}
	return view
}

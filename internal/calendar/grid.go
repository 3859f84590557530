// Package calendar lays out the clinic's weekly slot grid and classifies
// appointment times into it.
package calendar

import (
	"fmt"
	"time"
)

// Grid describes the clinic week: which days are open, the daily window and
// the slot width. Hours are local wall-clock hours.
type Grid struct {
	FirstDay  time.Weekday  // day index 0
	ClosedDay time.Weekday  // no grid at all on this day
	OpenHour  int           // first slot starts here
	CloseHour int           // exclusive end of the last slot
	SlotWidth time.Duration // 30 minutes by default
}

// DefaultGrid is the Saturday..Thursday, 14:00-22:00 week with Friday closed.
func DefaultGrid() Grid {
	return Grid{
		FirstDay:  time.Saturday,
		ClosedDay: time.Friday,
		OpenHour:  14,
		CloseHour: 22,
		SlotWidth: 30 * time.Minute,
	}
}

// Validate reports a configuration that cannot produce a grid.
func (g Grid) Validate() error {
	if g.OpenHour < 0 || g.CloseHour > 24 || g.OpenHour >= g.CloseHour {
		return fmt.Errorf("invalid grid window %02d:00-%02d:00", g.OpenHour, g.CloseHour)
	}
	if g.SlotWidth <= 0 || time.Hour%g.SlotWidth != 0 {
		return fmt.Errorf("slot width %s must divide one hour", g.SlotWidth)
	}
	if g.FirstDay == g.ClosedDay {
		return fmt.Errorf("first day %s cannot be the closed day", g.FirstDay)
	}
	return nil
}

// SlotsPerHour is the number of slots in one hour of the window.
func (g Grid) SlotsPerHour() int {
	return int(time.Hour / g.SlotWidth)
}

// SlotsPerDay is the number of rows in the grid.
func (g Grid) SlotsPerDay() int {
	return (g.CloseHour - g.OpenHour) * g.SlotsPerHour()
}

// Days returns the operating weekdays in column order.
func (g Grid) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 6)
	for i := 0; i < 7; i++ {
		d := time.Weekday((int(g.FirstDay) + i) % 7)
		if d == g.ClosedDay {
			continue
		}
		days = append(days, d)
	}
	return days
}

// DayIndex returns the column of d, or -1 for the closed day.
func (g Grid) DayIndex(d time.Weekday) int {
	if d == g.ClosedDay {
		return -1
	}
	for i, day := range g.Days() {
		if day == d {
			return i
		}
	}
	return -1
}

// SlotLabels returns "14:00", "14:30", ... for each row.
func (g Grid) SlotLabels() []string {
	labels := make([]string, 0, g.SlotsPerDay())
	for i := 0; i < g.SlotsPerDay(); i++ {
		offset := time.Duration(g.OpenHour)*time.Hour + time.Duration(i)*g.SlotWidth
		labels = append(labels, fmt.Sprintf("%d:%02d", int(offset.Hours()), int(offset.Minutes())%60))
	}
	return labels
}

// SlotStart returns the wall-clock start of slot on the date of day.
func (g Grid) SlotStart(day time.Time, slot int) time.Time {
	y, m, d := day.Date()
	start := time.Date(y, m, d, g.OpenHour, 0, 0, 0, day.Location())
	return start.Add(time.Duration(slot) * g.SlotWidth)
}

// Opening returns the first slot start on the date of day.
func (g Grid) Opening(day time.Time) time.Time {
	return g.SlotStart(day, 0)
}

// Closing returns the exclusive end of the window on the date of day.
func (g Grid) Closing(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, g.CloseHour, 0, 0, 0, day.Location())
}

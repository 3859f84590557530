package calsync

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

// ICS reads events from an iCalendar feed. Each VEVENT with a UID and a
// timed DTSTART on or after the day of the run becomes a candidate. All-day
// events and RRULE expansion are not supported.
type ICS struct {
	URL    string
	Client *http.Client
}

func NewICS(url string, timeout time.Duration) *ICS {
	return &ICS{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (s *ICS) Name() string { return "ics" }

func (s *ICS) Fetch(ctx context.Context, now time.Time) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned %s", resp.Status)
	}

	cal, err := ical.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse calendar feed: %w", err)
	}
	return candidatesFromCalendar(cal, now), nil
}

func candidatesFromCalendar(cal *ical.Calendar, now time.Time) []Candidate {
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var out []Candidate
	for _, ev := range cal.Events() {
		uid := propValue(ev, ical.ComponentPropertyUniqueId)
		if uid == "" {
			continue
		}
		if isAllDay(ev) {
			continue
		}
		start, err := ev.GetStartAt()
		if err != nil {
			continue
		}
		start = start.In(now.Location())
		if start.Before(dayStart) {
			continue
		}

		notes := propValue(ev, ical.ComponentPropertyDescription)
		if notes == "" {
			notes = syncedNote
		}
		out = append(out, Candidate{
			UID:          uid,
			DesiredStart: start,
			Appointment: models.Appointment{
				PatientName: propValue(ev, ical.ComponentPropertySummary),
				Notes:       notes,
			},
		})
	}
	return out
}

func propValue(ev *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ev.GetProperty(p); prop != nil {
		return strings.TrimSpace(prop.Value)
	}
	return ""
}

// isAllDay is true for VALUE=DATE or a DTSTART without a time part.
func isAllDay(ev *ical.VEvent) bool {
	prop := ev.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil {
		return false
	}
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}

package calsync

import (
	"context"
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

// DefaultLatency is the fake network delay of the simulated source.
const DefaultLatency = 2 * time.Second

const syncedNote = "Synced from Outlook Calendar event."

// Simulated stands in for a real calendar integration: after Latency it
// returns two fixed events seeded at 19:00 and 20:00 on the day of the run.
type Simulated struct {
	Latency time.Duration
}

func (Simulated) Name() string { return "simulated" }

func (s Simulated) Fetch(ctx context.Context, now time.Time) ([]Candidate, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	y, m, d := now.Date()
	todayAt := func(hour int) time.Time {
		return time.Date(y, m, d, hour, 0, 0, 0, now.Location())
	}
	return []Candidate{
		{
			DesiredStart: todayAt(19),
			Appointment: models.Appointment{
				PatientName:    "Carol White (Outlook)",
				PhoneNumber:    "555-SYNC-1",
				ChiefComplaint: "Follow-up",
				WorkDone:       "Follow-up Consultation",
				PaymentDue:     75,
				Notes:          syncedNote,
			},
		},
		{
			DesiredStart: todayAt(20),
			Appointment: models.Appointment{
				PatientName:    "David Green (Outlook)",
				PhoneNumber:    "555-SYNC-2",
				ChiefComplaint: "Emergency",
				WorkDone:       "Emergency Toothache",
				PaymentDone:    100,
				PaymentDue:     100,
				Notes:          syncedNote,
			},
		},
	}, nil
}

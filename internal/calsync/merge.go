package calsync

import (
	"github.com/harentsoaR/dentaldash-api/internal/models"
	"github.com/harentsoaR/dentaldash-api/internal/scheduling"
)

// Assign turns candidates into appointments: candidates with a UID get the
// stable id prefix+UID, the others take the next id from ids. DateTime is the
// candidate's desired start.
func Assign(cands []Candidate, prefix string, ids IDSource) []models.Appointment {
	out := make([]models.Appointment, 0, len(cands))
	for _, c := range cands {
		a := c.Appointment
		if c.UID != "" {
			a.ID = prefix + c.UID
		} else {
			a.ID = ids.Next()
		}
		a.DateTime = c.DesiredStart
		out = append(out, a)
	}
	return out
}

// Merge returns the candidates whose id is neither in existing nor taken by
// an earlier candidate, in the order given. Dropped candidates are not
// reported.
func Merge(candidates, existing []models.Appointment) []models.Appointment {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, a := range existing {
		seen[a.ID] = struct{}{}
	}
	out := make([]models.Appointment, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Place resolves each candidate's start against existing and the candidates
// placed before it.
func Place(candidates, existing []models.Appointment, policy scheduling.Policy) []models.Appointment {
	working := make([]models.Appointment, 0, len(existing)+len(candidates))
	working = append(working, existing...)
	out := make([]models.Appointment, 0, len(candidates))
	for _, c := range candidates {
		c.DateTime = policy.Resolve(c.DateTime, working)
		working = append(working, c)
		out = append(out, c)
	}
	return out
}

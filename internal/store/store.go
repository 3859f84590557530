// Package store holds the clinic ledgers: appointments, expenses, lab work
// and staff users. Entries are added or replaced by id; nothing is deleted.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// AppointmentFilter narrows Appointments. Zero values match everything.
type AppointmentFilter struct {
	From time.Time
	To   time.Time
	Paid *bool
}

func (f AppointmentFilter) match(a models.Appointment) bool {
	if !f.From.IsZero() && a.DateTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && a.DateTime.After(f.To) {
		return false
	}
	if f.Paid != nil && a.IsPaid != *f.Paid {
		return false
	}
	return true
}

type Store interface {
	Appointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)
	Appointment(ctx context.Context, id string) (models.Appointment, error)
	// SaveAppointment creates the appointment when its id is empty or
	// models.NewID and replaces the entry with the same id otherwise.
	SaveAppointment(ctx context.Context, a models.Appointment) (models.Appointment, error)
	// AddAppointments appends entries that already carry ids.
	AddAppointments(ctx context.Context, appts []models.Appointment) error

	Expenses(ctx context.Context) ([]models.Expense, error)
	SaveExpense(ctx context.Context, e models.Expense) (models.Expense, error)

	LabWorks(ctx context.Context) ([]models.LabWork, error)
	SaveLabWork(ctx context.Context, l models.LabWork) (models.LabWork, error)

	CreateUser(ctx context.Context, u models.User) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	UpdateUserName(ctx context.Context, id, fullName string) error
	CountUsers(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}

func newID() string {
	return uuid.NewString()
}

func isNew(id string) bool {
	return id == "" || id == models.NewID
}

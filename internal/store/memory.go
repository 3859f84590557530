package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

var _ Store = (*Memory)(nil)

// Memory keeps the ledgers in insertion order. Expenses are kept newest first.
type Memory struct {
	mu           sync.RWMutex
	appointments []models.Appointment
	expenses     []models.Expense
	labWorks     []models.LabWork
	users        []models.User
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Appointments(_ context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		if f.match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) Appointment(_ context.Context, id string) (models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Appointment{}, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
}

func (m *Memory) SaveAppointment(_ context.Context, a models.Appointment) (models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isNew(a.ID) {
		a.ID = newID()
		m.appointments = append(m.appointments, a)
		return a, nil
	}
	for i := range m.appointments {
		if m.appointments[i].ID == a.ID {
			m.appointments[i] = a
			return a, nil
		}
	}
	return models.Appointment{}, fmt.Errorf("appointment %s: %w", a.ID, ErrNotFound)
}

func (m *Memory) AddAppointments(_ context.Context, appts []models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{}, len(m.appointments)+len(appts))
	for _, a := range m.appointments {
		seen[a.ID] = struct{}{}
	}
	for _, a := range appts {
		if isNew(a.ID) {
			return fmt.Errorf("appointment for %q has no id", a.PatientName)
		}
		if _, ok := seen[a.ID]; ok {
			return fmt.Errorf("appointment %s: %w", a.ID, ErrDuplicate)
		}
		seen[a.ID] = struct{}{}
	}
	m.appointments = append(m.appointments, appts...)
	return nil
}

func (m *Memory) Expenses(_ context.Context) ([]models.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Expense{}, m.expenses...), nil
}

func (m *Memory) SaveExpense(_ context.Context, e models.Expense) (models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isNew(e.ID) {
		e.ID = newID()
		m.expenses = append(m.expenses, e)
	} else {
		found := false
		for i := range m.expenses {
			if m.expenses[i].ID == e.ID {
				m.expenses[i] = e
				found = true
				break
			}
		}
		if !found {
			return models.Expense{}, fmt.Errorf("expense %s: %w", e.ID, ErrNotFound)
		}
	}
	sort.SliceStable(m.expenses, func(i, j int) bool { return m.expenses[i].Date.After(m.expenses[j].Date) })
	return e, nil
}

func (m *Memory) LabWorks(_ context.Context) ([]models.LabWork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.LabWork{}, m.labWorks...), nil
}

func (m *Memory) SaveLabWork(_ context.Context, l models.LabWork) (models.LabWork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isNew(l.ID) {
		l.ID = newID()
		m.labWorks = append(m.labWorks, l)
		return l, nil
	}
	for i := range m.labWorks {
		if m.labWorks[i].ID == l.ID {
			m.labWorks[i] = l
			return l, nil
		}
	}
	return models.LabWork{}, fmt.Errorf("lab work %s: %w", l.ID, ErrNotFound)
}

func (m *Memory) CreateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
	}
	if isNew(u.ID) {
		u.ID = newID()
	}
	u.Email = strings.ToLower(u.Email)
	m.users = append(m.users, u)
	return u, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

func (m *Memory) UserByID(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
}

func (m *Memory) UpdateUserName(_ context.Context, id, fullName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].FullName = fullName
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", id, ErrNotFound)
}

func (m *Memory) CountUsers(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

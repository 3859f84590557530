// Package backup writes and reads the JSON snapshot of all three ledgers.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

// Snapshot is the backup document. Field order matches the file layout.
type Snapshot struct {
	Appointments []models.Appointment `json:"appointments"`
	Expenses     []models.Expense     `json:"expenses"`
	LabWorks     []models.LabWork     `json:"labWorks"`
	BackupDate   time.Time            `json:"backupDate"`
}

func New(appts []models.Appointment, expenses []models.Expense, labWorks []models.LabWork, now time.Time) Snapshot {
	s := Snapshot{
		Appointments: appts,
		Expenses:     expenses,
		LabWorks:     labWorks,
		BackupDate:   now.UTC(),
	}
	if s.Appointments == nil {
		s.Appointments = []models.Appointment{}
	}
	if s.Expenses == nil {
		s.Expenses = []models.Expense{}
	}
	if s.LabWorks == nil {
		s.LabWorks = []models.LabWork{}
	}
	return s
}

// Encode renders the snapshot as pretty-printed JSON.
func Encode(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode backup: %w", err)
	}
	return s, nil
}

// FileName is dentaldash_backup_<YYYY-MM-DD>.json for the UTC date of now.
func FileName(now time.Time) string {
	return "dentaldash_backup_" + now.UTC().Format("2006-01-02") + ".json"
}

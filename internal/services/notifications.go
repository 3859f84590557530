package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/harentsoaR/dentaldash-api/internal/models"
)

const textbeltURL = "https://textbelt.com/text"

// NotificationService sends appointment SMS through Textbelt and produces the
// dashboard reminder banner.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewNotificationService(apiKey string, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: textbeltURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// SendAppointmentConfirmationSMS sends in the background so it doesn't block
// the API response. Appointments without a phone number are skipped.
func (s *NotificationService) SendAppointmentConfirmationSMS(apt models.Appointment) {
	if apt.PhoneNumber == "" {
		s.logger.Info("SMS not sent: patient has no phone number", "appointment", apt.ID)
		return
	}
	if s.apiKey == "" {
		return
	}

	smsBody := fmt.Sprintf(
		"Appointment Confirmed: %s for %s on %s.",
		apt.WorkDone,
		apt.PatientName,
		apt.DateTime.Format("Jan 2 at 3:04 PM"),
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.sendSMS(ctx, apt.PhoneNumber, smsBody); err != nil {
			s.logger.Error("failed to send SMS", "appointment", apt.ID, "error", err)
			return
		}
		s.logger.Info("sent appointment SMS", "appointment", apt.ID)
	}()
}

func (s *NotificationService) sendSMS(ctx context.Context, phone, message string) error {
	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(postBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt response: %w", err)
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = resp.Status
		}
		return errors.New(result.Error)
	}
	return nil
}

var yearEndReminders = []string{
	"Prepare year-end salary bonuses.",
	"Pay annual clinic rent.",
	"Review and pay final quarter electricity bill.",
	"Settle all outstanding lab payments for the year.",
}

// Reminders returns the banner notifications for the month of now: the
// year-end checklist in December, nothing otherwise.
func Reminders(now time.Time) []string {
	if now.Month() != time.December {
		return []string{}
	}
	return append([]string{}, yearEndReminders...)
}

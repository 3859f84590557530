package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/dentaldash-api/internal/backup"
	"github.com/harentsoaR/dentaldash-api/internal/calendar"
	"github.com/harentsoaR/dentaldash-api/internal/calsync"
	"github.com/harentsoaR/dentaldash-api/internal/models"
	"github.com/harentsoaR/dentaldash-api/internal/scheduling"
	"github.com/harentsoaR/dentaldash-api/internal/services"
	"github.com/harentsoaR/dentaldash-api/internal/store"
	"github.com/harentsoaR/dentaldash-api/internal/utils"
)

// 2026-10-18 is a Sunday, day index 1 on the grid.
func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 18, hour, minute, 0, 0, time.Local)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Memory
	tokens *utils.Tokens
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerAt(t, at(10, 0))
}

// newTestServerAt runs the clinic in fixed's location, frozen at fixed.
func newTestServerAt(t *testing.T, fixed time.Time) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return fixed }
	grid := calendar.DefaultGrid()
	policy := scheduling.Append{Grid: grid}
	mem := store.NewMemory()
	tokens := utils.NewTokens("test-secret", time.Hour)

	h := NewHandler(Deps{
		Store:  mem,
		Grid:   grid,
		Policy: policy,
		Syncer: calsync.NewSyncer(mem, calsync.Config{
			Source: calsync.Simulated{},
			Policy: policy,
			IDs:    calsync.NewCounter(models.ExternalIDPrefix),
			Now:    now,
			Logger: logger,
		}),
		NotificationSvc: services.NewNotificationService("", logger),
		Tokens:          tokens,
		BcryptCost:      bcrypt.MinCost,
		Logger:          logger,
		Now:             now,
	})
	r := gin.New()
	h.Routes(r)
	return &testServer{t: t, router: r, store: mem, tokens: tokens}
}

// login creates a user with role directly in the store and returns a token.
func (s *testServer) login(role string) string {
	s.t.Helper()
	hash, err := utils.HashPassword("correct-horse", bcrypt.MinCost)
	require.NoError(s.t, err)
	u, err := s.store.CreateUser(context.Background(), models.User{
		FullName: "Dr. Test",
		Email:    role + "@clinic.test",
		Password: hash,
		Role:     role,
	})
	require.NoError(s.t, err)
	token, err := s.tokens.GenerateJWT(u.ID, u.Role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) seed(appts ...models.Appointment) {
	s.t.Helper()
	for _, a := range appts {
		_, err := s.store.SaveAppointment(context.Background(), a)
		require.NoError(s.t, err)
	}
}

func TestRegisterLoginAndProfile(t *testing.T) {
	s := newTestServer(t)

	reg := map[string]string{
		"fullName": "Dr. Lina Haddad",
		"email":    "Lina@Clinic.test",
		"password": "s3cretpass",
		"role":     models.RoleDentist,
	}
	w := s.do(http.MethodPost, "/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotContains(t, w.Body.String(), "s3cretpass")
	require.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPost, "/auth/register", "", reg)
	require.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "lina@clinic.test", "password": "wrong-pass"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "lina@clinic.test", "password": "s3cretpass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, w)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "lina@clinic.test", login.User.Email)

	w = s.do(http.MethodPut, "/api/user", login.Token, map[string]string{"fullName": "Dr. Lina H."})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/user", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Dr. Lina H.", decode[models.User](t, w).FullName)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "Patient Zero",
		"email":    "p0@clinic.test",
		"password": "s3cretpass",
		"role":     "client",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/appointments", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/appointments", "garbage", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil).Code)
}

func TestCreateAppointmentAutoSchedule(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	s.seed(models.Appointment{PatientName: "Alice", DateTime: at(18, 0)})

	w := s.do(http.MethodPost, "/api/appointments", token, map[string]any{
		"patientName":  "Bob",
		"dateTime":     at(15, 0),
		"paymentDue":   40,
		"autoSchedule": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode[models.Appointment](t, w)
	require.NotEqual(t, models.NewID, got.ID)
	require.True(t, got.DateTime.Equal(at(18, 30)), got.DateTime)

	w = s.do(http.MethodGet, "/api/appointments/"+got.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Bob", decode[models.Appointment](t, w).PatientName)
}

func TestCreateAppointmentKeepsRequestedTime(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	s.seed(models.Appointment{PatientName: "Alice", DateTime: at(18, 0)})

	w := s.do(http.MethodPost, "/api/appointments", token, map[string]any{
		"id":          "new",
		"patientName": "Bob",
		"dateTime":    at(15, 0),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, decode[models.Appointment](t, w).DateTime.Equal(at(15, 0)))
}

func TestCreateAppointmentValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)

	cases := map[string]map[string]any{
		"missing name":     {"dateTime": at(15, 0)},
		"negative payment": {"patientName": "Bob", "dateTime": at(15, 0), "paymentDue": -5},
		"missing time":     {"patientName": "Bob"},
		"bad tooth":        {"patientName": "Bob", "dateTime": at(15, 0), "selectedTeeth": []int{33}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/appointments", token, body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestUpdateAppointment(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	saved, err := s.store.SaveAppointment(context.Background(), models.Appointment{PatientName: "Alice", DateTime: at(15, 0)})
	require.NoError(t, err)

	saved.IsPaid = true
	saved.PaymentDone = 120
	w := s.do(http.MethodPut, "/api/appointments/"+saved.ID, token, saved)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/appointments?paid=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Appointment](t, w)
	require.Len(t, list, 1)
	require.Equal(t, saved.ID, list[0].ID)

	w = s.do(http.MethodPut, "/api/appointments/missing", token, saved)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAppointmentsDateRange(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	s.seed(
		models.Appointment{PatientName: "Early", DateTime: at(15, 0).AddDate(0, 0, -3)},
		models.Appointment{PatientName: "Today", DateTime: at(21, 30)},
	)

	w := s.do(http.MethodGet, "/api/appointments?startDate=2026-10-18&endDate=2026-10-18", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Appointment](t, w)
	require.Len(t, list, 1)
	require.Equal(t, "Today", list[0].PatientName)

	w = s.do(http.MethodGet, "/api/appointments?startDate=18-10-2026", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNextSlotRollsOverAfterClosing(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	s.seed(models.Appointment{PatientName: "Late", DateTime: at(21, 30)})

	w := s.do(http.MethodGet, "/api/appointments/next-slot?desired="+url.QueryEscape(at(15, 0).Format(time.RFC3339)), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[struct {
		Resolved time.Time     `json:"resolved"`
		Cell     calendar.Cell `json:"cell"`
	}](t, w)
	require.True(t, got.Resolved.Equal(time.Date(2026, 10, 19, 14, 0, 0, 0, time.Local)), got.Resolved)
	require.Equal(t, calendar.InGrid, got.Cell.Kind)
	require.Equal(t, 0, got.Cell.Slot)
}

func TestCalendarWeek(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	s.seed(
		models.Appointment{PatientName: "Grid", DateTime: at(14, 40)},
		models.Appointment{PatientName: "Morning", DateTime: at(9, 0)},
	)

	w := s.do(http.MethodGet, "/api/calendar", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[calendar.WeekView](t, w)
	require.Equal(t, "2026-10-18", view.Date)
	require.Len(t, view.Slots, 16)
	require.Len(t, view.Days, 6)
	require.True(t, view.Days[1].Today)
	require.Len(t, view.Days[1].Cells[1], 1)
	require.Equal(t, "Grid", view.Days[1].Cells[1][0].PatientName)
	require.Len(t, view.Unscheduled, 1)

	w = s.do(http.MethodGet, "/api/calendar?date=2026-10-16", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode[calendar.WeekView](t, w).Closed)

	w = s.do(http.MethodGet, "/api/calendar/cell?day=1&slot=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cell := decode[struct {
		Label        string               `json:"label"`
		Appointments []models.Appointment `json:"appointments"`
	}](t, w)
	require.Equal(t, "14:30", cell.Label)
	require.Len(t, cell.Appointments, 1)

	require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/calendar/cell?day=6&slot=0", token, nil).Code)
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/calendar/cell?day=0&slot=16", token, nil).Code)
}

func TestClassifyTime(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)

	w := s.do(http.MethodGet, "/api/calendar/classify?at="+url.QueryEscape(at(21, 59).Format(time.RFC3339)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, calendar.Cell{Kind: calendar.InGrid, Day: 1, Slot: 15}, decode[calendar.Cell](t, w))

	w = s.do(http.MethodGet, "/api/calendar/classify?at="+url.QueryEscape(at(22, 0).Format(time.RFC3339)), token, nil)
	require.Equal(t, calendar.OutOfGrid, decode[calendar.Cell](t, w).Kind)

	require.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/calendar/classify", token, nil).Code)
}

func TestExpensesAndFinanceSummary(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleDentist)
	s.seed(
		models.Appointment{PatientName: "A", DateTime: at(14, 0), PaymentDone: 100.10, IsPaid: true},
		models.Appointment{PatientName: "B", DateTime: at(15, 0), PaymentDone: 50.20, PaymentDue: 30},
	)

	w := s.do(http.MethodPost, "/api/expenses", token, map[string]any{"category": "Rent", "description": "Office", "amount": 10})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/api/expenses", token, map[string]any{"category": "Lab", "description": "Crown", "amount": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/expenses", token, map[string]any{"category": "Lab", "description": "Crown", "amount": 40.30})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Expense](t, w)
	require.True(t, created.Date.Equal(at(10, 0)))

	w = s.do(http.MethodGet, "/api/expenses", token, nil)
	require.Len(t, decode[[]models.Expense](t, w), 1)

	w = s.do(http.MethodGet, "/api/finance/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	require.Equal(t, "150.3", sum["income"])
	require.Equal(t, "30", sum["due"])
	require.Equal(t, "40.3", sum["expenses"])
	require.Equal(t, "110", sum["net"])
	require.EqualValues(t, 1, sum["outstanding"])
}

func TestLabWorkLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleAssistant)

	w := s.do(http.MethodPost, "/api/labworks", token, map[string]any{
		"patientName": "Carol",
		"labName":     "Smile Lab",
		"typeOfWork":  "Crown",
		"dateDue":     at(10, 0).AddDate(0, 0, 7),
		"cost":        80,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lw := decode[models.LabWork](t, w)
	require.Equal(t, models.LabWorkSent, lw.Status)

	lw.Status = models.LabWorkReceived
	w = s.do(http.MethodPut, "/api/labworks/"+lw.ID, token, lw)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	lw.Status = "Lost"
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/labworks/"+lw.ID, token, lw).Code)

	w = s.do(http.MethodGet, "/api/labworks", token, nil)
	list := decode[[]models.LabWork](t, w)
	require.Len(t, list, 1)
	require.Equal(t, models.LabWorkReceived, list[0].Status)
}

func TestNotificationsOutsideDecember(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	w := s.do(http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"notifications":[]}`, w.Body.String())
}

func TestSyncCalendar(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleDentist)

	w := s.do(http.MethodPost, "/api/sync", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[struct {
		Message string         `json:"message"`
		Result  calsync.Result `json:"result"`
	}](t, w)
	require.Len(t, got.Result.Added, 2)
	require.Equal(t, "outlook-1", got.Result.Added[0].ID)
	require.True(t, got.Result.Added[0].DateTime.Equal(at(19, 0)))
	require.True(t, got.Result.Added[1].DateTime.Equal(at(20, 0)))

	w = s.do(http.MethodGet, "/api/sync/status", token, nil)
	status := decode[calsync.Status](t, w)
	require.False(t, status.Syncing)
	require.Equal(t, 2, status.LastAdded)

	w = s.do(http.MethodGet, "/api/appointments", token, nil)
	require.Len(t, decode[[]models.Appointment](t, w), 2)
}

func TestSyncAndBackupNeedClinicRole(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleAssistant)
	require.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/sync", token, nil).Code)
	require.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/backup", token, nil).Code)
}

func TestDownloadBackup(t *testing.T) {
	s := newTestServer(t)
	token := s.login(models.RoleStaff)
	s.seed(models.Appointment{PatientName: "Alice", DateTime: at(15, 0)})

	w := s.do(http.MethodGet, "/api/backup/status", token, nil)
	require.JSONEq(t, `{"lastBackup":null}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/backup", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), backup.FileName(at(10, 0)))
	snap, err := backup.Decode(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, snap.Appointments, 1)
	require.Empty(t, snap.Expenses)
	require.NotNil(t, snap.LabWorks)

	w = s.do(http.MethodGet, "/api/backup/status", token, nil)
	status := decode[struct {
		LastBackup *time.Time `json:"lastBackup"`
	}](t, w)
	require.NotNil(t, status.LastBackup)
	require.True(t, status.LastBackup.Equal(at(10, 0)))
}

type registered struct {
	Token string
	User  models.User
}

func (s *testServer) registerAndLogin(email, role string) registered {
	s.t.Helper()
	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "New Hire",
		"email":    email,
		"password": "s3cretpass",
		"role":     role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "s3cretpass"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	return registered{Token: out.Token, User: out.User}
}

func TestFirstRegistrationBecomesDentist(t *testing.T) {
	s := newTestServer(t)
	owner := s.registerAndLogin("owner@clinic.test", "")
	require.Equal(t, models.RoleDentist, owner.User.Role)
}

func TestSelfRegistrationCannotClaimPrivilegedRole(t *testing.T) {
	s := newTestServer(t)
	s.login(models.RoleDentist)

	for _, role := range []string{models.RoleDentist, models.RoleStaff} {
		u := s.registerAndLogin(role+"-claim@clinic.test", role)
		require.Equal(t, models.RoleAssistant, u.User.Role)
		require.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/backup", u.Token, nil).Code)
		require.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/sync", u.Token, nil).Code)
	}
}

func TestDentistCreatesPrivilegedUsers(t *testing.T) {
	s := newTestServer(t)
	dentist := s.login(models.RoleDentist)
	assistant := s.login(models.RoleAssistant)

	body := map[string]string{
		"fullName": "Front Desk",
		"email":    "desk@clinic.test",
		"password": "s3cretpass",
		"role":     models.RoleStaff,
	}
	require.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/users", assistant, body).Code)

	w := s.do(http.MethodPost, "/api/users", dentist, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, models.RoleStaff, decode[models.User](t, w).Role)

	body["email"] = "other@clinic.test"
	body["role"] = "owner"
	require.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/users", dentist, body).Code)
}

func TestGridUsesClinicLocationForUTCTimestamps(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	s := newTestServerAt(t, time.Date(2026, 10, 18, 10, 0, 0, 0, riyadh))
	token := s.login(models.RoleStaff)

	// 14:30 in the clinic, sent the way a browser's toISOString does.
	w := s.do(http.MethodPost, "/api/appointments", token, map[string]any{
		"patientName": "Utc Patient",
		"dateTime":    "2026-10-18T11:30:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/calendar", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[calendar.WeekView](t, w)
	require.Len(t, view.Days[1].Cells[1], 1)
	require.Empty(t, view.Unscheduled)

	w = s.do(http.MethodGet, "/api/calendar/classify?at=2026-10-18T11:30:00Z", token, nil)
	require.Equal(t, calendar.Cell{Kind: calendar.InGrid, Day: 1, Slot: 1}, decode[calendar.Cell](t, w))

	// 21:45 in the clinic, stored as UTC. Appending after it passes closing.
	s.seed(models.Appointment{PatientName: "Late", DateTime: time.Date(2026, 10, 18, 18, 45, 0, 0, time.UTC)})
	w = s.do(http.MethodPost, "/api/appointments", token, map[string]any{
		"patientName":  "Auto",
		"dateTime":     "2026-10-18T16:00:00Z",
		"autoSchedule": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode[models.Appointment](t, w)
	require.True(t, got.DateTime.Equal(time.Date(2026, 10, 19, 14, 0, 0, 0, riyadh)), got.DateTime)
}

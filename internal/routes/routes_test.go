package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

const secret = "routes-test"

// syncPublisher writes straight to the audit log so reads see it at once.
type syncPublisher struct {
	audit *memory.AuditLog
}

func (p syncPublisher) Publish(ev domain.Event) {
	_ = p.audit.Write(context.Background(), ev)
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	clock  *timezone.FixedClock
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:          secret,
		BusinessHoursStart: wallclock.MustParseTimeOfDay("09:00 AM"),
		BusinessHoursEnd:   wallclock.MustParseTimeOfDay("05:00 PM"),
		SlotMinutes:        30,
		ReminderLead:       24 * time.Hour,
		ReminderChannels:   []domain.Channel{domain.ChannelEmail},
	}

	clock := &timezone.FixedClock{At: time.Date(2099, 1, 1, 12, 0, 0, 0, time.UTC)}
	repo := memory.NewRepository(time.UTC)
	audit := memory.NewAuditLog()

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config: cfg,
		Repo:   repo,
		Hours:  repo,
		Audit:  audit,
		Locker: lock.NewLocalLocker(),
		Events: syncPublisher{audit: audit},
		Clock:  clock,
	})

	return &server{t: t, engine: r, clock: clock}
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "role": role}).
		SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func (s *server) do(method, path, tok string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func bookBody(tod string) gin.H {
	return gin.H{
		"providerRef":  "dr-house",
		"calendarDate": "2099-01-10",
		"timeOfDay":    tod,
		"reason":       "checkup",
		"location":     "Main clinic",
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingFlow(t *testing.T) {
	s := newServer(t)
	alice := token(t, "alice", "patient")
	bob := token(t, "bob", "patient")

	w := s.do(http.MethodPost, "/api/appointments", alice, bookBody("10:00 AM"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)

	assert.Equal(t, "alice", created["patientRef"])
	assert.Equal(t, "scheduled", created["status"])
	assert.Equal(t, "10:30 AM", created["endTime"])
	assert.Equal(t, true, created["canCancel"])
	assert.Equal(t, true, created["isUpcoming"])

	w = s.do(http.MethodPost, "/api/appointments", bob, bookBody("10:15 AM"))
	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "slot_conflict", body["error_code"])
	assert.Equal(t, id, body["details"].(map[string]any)["conflictingAppointmentId"])

	w = s.do(http.MethodPost, "/api/appointments", bob, bookBody("10:30 AM"))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/providers/dr-house/availability?date=2099-01-10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode(t, w)["availableSlots"].([]any)
	assert.Len(t, slots, 14)
	assert.NotContains(t, slots, "10:00 AM")
	assert.NotContains(t, slots, "10:30 AM")

	w = s.do(http.MethodGet, "/api/appointments/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/appointments/"+id, token(t, "dr-house", "provider"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingErrors(t *testing.T) {
	s := newServer(t)
	alice := token(t, "alice", "patient")

	w := s.do(http.MethodPost, "/api/appointments", alice, bookBody("13:00 PM"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_time_format", decode(t, w)["error_code"])

	past := bookBody("09:00 AM")
	past["calendarDate"] = "2098-12-31"
	w = s.do(http.MethodPost, "/api/appointments", alice, past)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "past_appointment", decode(t, w)["error_code"])

	missing := bookBody("09:00 AM")
	delete(missing, "reason")
	w = s.do(http.MethodPost, "/api/appointments", alice, missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w)["error_code"])

	w = s.do(http.MethodPost, "/api/appointments", "", bookBody("09:00 AM"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRescheduleCancelAndHistory(t *testing.T) {
	s := newServer(t)
	alice := token(t, "alice", "patient")

	w := s.do(http.MethodPost, "/api/appointments", alice, bookBody("10:00 AM"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = s.do(http.MethodPut, "/api/appointments/"+id+"/reschedule", alice, gin.H{
		"calendarDate": "2099-01-11",
		"timeOfDay":    "03:00 PM",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "03:00 PM", decode(t, w)["timeOfDay"])

	s.clock.At = time.Date(2099, 1, 11, 9, 0, 0, 0, time.UTC)
	w = s.do(http.MethodPut, "/api/appointments/"+id+"/cancel", alice, gin.H{"reason": "late"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "cancel_window", decode(t, w)["error_code"])

	s.clock.At = time.Date(2099, 1, 2, 9, 0, 0, 0, time.UTC)
	w = s.do(http.MethodPut, "/api/appointments/"+id+"/cancel", alice, gin.H{"reason": "travel"})
	require.Equal(t, http.StatusOK, w.Code)
	cancelled := decode(t, w)
	assert.Equal(t, "cancelled", cancelled["status"])
	assert.Equal(t, "patient", cancelled["cancellation"].(map[string]any)["cancelledBy"])

	w = s.do(http.MethodGet, "/api/appointments/"+id+"/history", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode(t, w)
	assert.EqualValues(t, 3, history["total"])
	entries := history["data"].([]any)
	assert.Equal(t, "appointment.cancelled", entries[0].(map[string]any)["action"])
	assert.Equal(t, "appointment.confirmed", entries[2].(map[string]any)["action"])
}

func TestTransitionsRequireStaff(t *testing.T) {
	s := newServer(t)
	alice := token(t, "alice", "patient")
	doctor := token(t, "dr-house", "provider")

	w := s.do(http.MethodPost, "/api/appointments", alice, bookBody("10:00 AM"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = s.do(http.MethodPatch, "/api/appointments/"+id+"/start", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/appointments/"+id+"/confirm", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decode(t, w)["status"])

	w = s.do(http.MethodPatch, "/api/appointments/"+id+"/complete", doctor, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/api/appointments/"+id+"/no-show", doctor, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_status_transition", decode(t, w)["error_code"])
}

func TestPatientListing(t *testing.T) {
	s := newServer(t)
	alice := token(t, "alice", "patient")

	for _, tod := range []string{"09:00 AM", "10:00 AM", "11:00 AM"} {
		w := s.do(http.MethodPost, "/api/appointments", alice, bookBody(tod))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, "/api/appointments?view=upcoming&page=1&limit=2", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["data"], 2)
	assert.EqualValues(t, 3, body["total"])
	assert.Equal(t, map[string]any{
		"current": float64(1), "total": float64(2), "hasNext": true, "hasPrev": false,
	}, body["pagination"])

	w = s.do(http.MethodGet, "/api/appointments?view=later", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBusinessHoursAndAgenda(t *testing.T) {
	s := newServer(t)
	doctor := token(t, "dr-house", "provider")
	other := token(t, "dr-wilson", "provider")
	alice := token(t, "alice", "patient")

	// 2099-01-10 is a Saturday
	hours := gin.H{"days": []gin.H{
		{"weekday": 6, "active": true, "start": "08:00 AM", "end": "12:00 PM", "breakStart": "10:00 AM", "breakEnd": "11:00 AM"},
		{"weekday": 0, "active": false},
	}}

	w := s.do(http.MethodPut, "/api/providers/dr-house/business-hours", other, hours)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/api/providers/dr-house/business-hours", alice, hours)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/api/providers/dr-house/business-hours", doctor, hours)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/providers/dr-house/business-hours", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total"])

	w = s.do(http.MethodGet, "/api/providers/dr-house/availability?date=2099-01-10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		[]any{"08:00 AM", "08:30 AM", "09:00 AM", "09:30 AM", "11:00 AM", "11:30 AM"},
		decode(t, w)["availableSlots"],
	)

	w = s.do(http.MethodGet, "/api/providers/dr-house/availability?date=2099-01-11", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["availableSlots"])

	w = s.do(http.MethodPost, "/api/appointments", alice, bookBody("08:30 AM"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/providers/dr-house/appointments?date=2099-01-10", doctor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = s.do(http.MethodGet, "/api/providers/dr-house/appointments?date=2099-01-10", other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/repository"
	"github.com/joeyave/club-admin/service"
	"github.com/joeyave/club-admin/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fixture struct {
	router *gin.Engine
	repo   *servicetest.ParticipationRepository
	users  servicetest.UserRepository
	events servicetest.EventRepository
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	f := &fixture{
		repo:   servicetest.NewParticipationRepository(),
		users:  servicetest.UserRepository{},
		events: servicetest.EventRepository{},
	}

	reportService := service.NewReportService(f.repo, service.ReportConfig{
		RegistrationsPageSize: 10,
		VolunteersPageSize:    50,
		MaxPageSize:           200,
		DateLocale:            "en_US",
	})

	f.router = gin.New()
	Register(f.router, Controllers{
		Report:     &ReportController{ReportService: reportService},
		Moderation: &ModerationController{ModerationService: service.NewModerationService(f.repo)},
		Intake:     &IntakeController{IntakeService: service.NewIntakeService(f.repo, f.users, f.events)},
		Health:     &HealthController{Pinger: f.repo},
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func ptr[T any](v T) *T {
	return &v
}

func TestReport_Page(t *testing.T) {
	f := newFixture()
	f.repo.Items = []*entity.Participation{{ID: bson.NewObjectID()}}
	f.repo.Counted = entity.SummaryCounts{Total: 25, Approved: 5, Rejected: 10, Pending: 10, CheckedIn: ptr(int64(2))}

	w := f.do(t, http.MethodGet, "/api/admin/registrations?page=3&ageRange=56%2B&approved=false", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Len(t, body["items"], 1)
	assert.Equal(t, map[string]any{"total": 25.0, "page": 3.0, "limit": 10.0, "pageCount": 3.0}, body["pagination"])
	assert.Equal(t, 10.0, body["stats"].(map[string]any)["rejected"])
	assert.Equal(t, map[string]any{"status": "rejected", "ageRange": map[string]any{"min": 56.0}}, body["filter"])
	assert.Equal(t, entity.Window{Skip: 20, Limit: 10}, f.repo.LastWindow)
}

func TestReport_VolunteersUseOwnPageSize(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/admin/volunteers?limit=1000", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(200), f.repo.LastWindow.Limit)

	w = f.do(t, http.MethodGet, "/api/admin/volunteers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(50), f.repo.LastWindow.Limit)
}

func TestReport_Counts(t *testing.T) {
	f := newFixture()
	for _, status := range []entity.Bucket{entity.BucketApproved, entity.BucketRejected, entity.BucketPending} {
		f.repo.Add(entity.KindVolunteer, entity.Participation{Status: status})
	}
	f.repo.Add(entity.KindRegistration, entity.Participation{})

	w := f.do(t, http.MethodGet, "/api/admin/volunteers?countOnly=true&emailsOnly=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, map[string]any{"total": 3.0, "approved": 1.0, "rejected": 1.0, "pending": 1.0}, body["counts"])
	assert.NotContains(t, body, "emails")
}

func TestReport_Emails(t *testing.T) {
	f := newFixture()
	f.repo.Emails = []string{"a@example.com", "b@example.com", "a@example.com"}

	w := f.do(t, http.MethodGet, "/api/admin/registrations?emailsOnly=true&format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, []any{"a@example.com", "b@example.com", "a@example.com"}, body["emails"])
	assert.Equal(t, 3.0, body["count"])
}

func TestReport_CSV(t *testing.T) {
	f := newFixture()
	f.repo.Items = []*entity.Participation{{
		ID:   bson.NewObjectID(),
		User: &entity.User{Name: `O"Brien, Jr.`, Email: "ob@example.com"},
	}}

	w := f.do(t, http.MethodGet, "/api/admin/registrations?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="registrations-`)

	lines := strings.Split(strings.TrimSuffix(w.Body.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"Name","Email",`))
	assert.True(t, strings.HasPrefix(lines[1], `"O""Brien, Jr.","ob@example.com",`))
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target string
		code   int
	}{
		{"unavailable page", fmt.Errorf("%w: timeout", repository.ErrUnavailable), "/api/admin/registrations", http.StatusServiceUnavailable},
		{"unavailable csv", fmt.Errorf("%w: timeout", repository.ErrUnavailable), "/api/admin/registrations?format=csv", http.StatusServiceUnavailable},
		{"failed counts", errors.New("bad pipeline"), "/api/admin/volunteers?countOnly=true", http.StatusInternalServerError},
		{"failed emails", errors.New("bad pipeline"), "/api/admin/volunteers?emailsOnly=true", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.Err = tt.err

			w := f.do(t, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.err.Error(), decode(t, w)["error"])
		})
	}
}

func TestModeration_SetApproval(t *testing.T) {
	f := newFixture()
	eventID := bson.NewObjectID()
	ID := f.repo.Add(entity.KindRegistration, entity.Participation{EventID: &eventID})
	f.repo.Add(entity.KindRegistration, entity.Participation{EventID: &eventID, Approved: ptr(false)})

	target := "/api/admin/registrations/" + ID.Hex() + "/approval"
	for range 2 {
		w := f.do(t, http.MethodPatch, target, `{"approved": true}`)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.Equal(t, true, body["item"].(map[string]any)["approved"])
		stats := body["stats"].(map[string]any)
		assert.Equal(t, 2.0, stats["total"])
		assert.Equal(t, 1.0, stats["approved"])
		assert.Equal(t, 1.0, stats["rejected"])
		assert.Equal(t, 0.0, stats["pending"])
	}

	w := f.do(t, http.MethodPatch, target, `{"approved": null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["stats"].(map[string]any)["pending"])
}

func TestModeration_BadInput(t *testing.T) {
	f := newFixture()
	ID := f.repo.Add(entity.KindRegistration, entity.Participation{})
	volunteerID := f.repo.Add(entity.KindVolunteer, entity.Participation{Status: entity.BucketPending})

	tests := []struct {
		name   string
		method string
		target string
		body   string
		code   int
	}{
		{"bad id", http.MethodPatch, "/api/admin/registrations/nope/approval", `{"approved": true}`, http.StatusBadRequest},
		{"missing approved", http.MethodPatch, "/api/admin/registrations/" + ID.Hex() + "/approval", `{}`, http.StatusBadRequest},
		{"wrong approved type", http.MethodPatch, "/api/admin/registrations/" + ID.Hex() + "/approval", `{"approved": "yes"}`, http.StatusBadRequest},
		{"unknown status", http.MethodPatch, "/api/admin/volunteers/" + volunteerID.Hex() + "/status", `{"status": "maybe"}`, http.StatusBadRequest},
		{"unknown registration", http.MethodGet, "/api/admin/registrations/" + bson.NewObjectID().Hex(), "", http.StatusNotFound},
		{"volunteer is not a registration", http.MethodGet, "/api/admin/registrations/" + volunteerID.Hex(), "", http.StatusNotFound},
		{"check in pending", http.MethodPost, "/api/admin/registrations/" + ID.Hex() + "/check-in", "", http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestModeration_CheckInAndUndo(t *testing.T) {
	f := newFixture()
	ID := f.repo.Add(entity.KindRegistration, entity.Participation{Approved: ptr(true)})

	w := f.do(t, http.MethodPost, "/api/admin/registrations/"+ID.Hex()+"/check-in", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	item := body["item"].(map[string]any)
	assert.Equal(t, true, item["checkedIn"])
	assert.NotNil(t, item["checkedInAt"])
	assert.Equal(t, 1.0, body["stats"].(map[string]any)["checkedIn"])

	w = f.do(t, http.MethodDelete, "/api/admin/registrations/"+ID.Hex()+"/check-in", "")
	require.Equal(t, http.StatusOK, w.Code)

	item = decode(t, w)["item"].(map[string]any)
	assert.Equal(t, false, item["checkedIn"])
	assert.Nil(t, item["checkedInAt"])
}

func TestModeration_SetStatus(t *testing.T) {
	f := newFixture()
	ID := f.repo.Add(entity.KindVolunteer, entity.Participation{Status: entity.BucketPending})

	w := f.do(t, http.MethodPatch, "/api/admin/volunteers/"+ID.Hex()+"/status", `{"status": "rejected"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "rejected", body["item"].(map[string]any)["status"])
	assert.Equal(t, 1.0, body["stats"].(map[string]any)["rejected"])

	w = f.do(t, http.MethodGet, "/api/admin/volunteers/"+ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rejected", decode(t, w)["item"].(map[string]any)["status"])
}

func TestIntake_CreateRegistration(t *testing.T) {
	f := newFixture()
	userID, eventID := bson.NewObjectID(), bson.NewObjectID()
	f.users[userID] = &entity.User{Name: "Ann"}
	f.events[eventID] = &entity.Event{Title: "Sunday run"}

	w := f.do(t, http.MethodPost, "/api/registrations", fmt.Sprintf(`{"userId": %q, "eventId": %q}`, userID.Hex(), eventID.Hex()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	item := decode(t, w)["item"].(map[string]any)
	assert.Equal(t, eventID.Hex(), item["eventId"])
	assert.NotContains(t, item, "approved")

	w = f.do(t, http.MethodPost, "/api/registrations", fmt.Sprintf(`{"userId": %q, "eventId": %q}`, userID.Hex(), bson.NewObjectID().Hex()))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/registrations", `{"userId": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntake_CreateVolunteer(t *testing.T) {
	f := newFixture()
	userID := bson.NewObjectID()
	f.users[userID] = &entity.User{Name: "Ann"}

	w := f.do(t, http.MethodPost, "/api/volunteers", fmt.Sprintf(`{"userId": %q, "interests": ["water station"], "motivation": "fun"}`, userID.Hex()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	item := decode(t, w)["item"].(map[string]any)
	assert.Equal(t, "pending", item["status"])
	assert.Equal(t, []any{"water station"}, item["interests"])

	w = f.do(t, http.MethodPost, "/api/volunteers", fmt.Sprintf(`{"userId": %q, "motivation": %q}`, userID.Hex(), strings.Repeat("a", 2001)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	f.repo.Err = repository.ErrUnavailable
	w = f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

package workout

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newTestRouter(t *testing.T, svc *Service) *mux.Router {
	t.Helper()
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(utils.AuthMiddleware(testSecret))
	NewWorkoutHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(api)
	return router
}

func do(t *testing.T, router http.Handler, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		token, err := utils.IssueToken(testSecret, userID, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWorkoutRoutes(t *testing.T) {
	svc, store := newTestService(t)
	router := newTestRouter(t, svc)

	rec := do(t, router, http.MethodPost, "/api/v1/workouts", "alice", map[string]interface{}{
		"body_part":     "chest",
		"exercise_name": "Bench Press",
		"sets":          3,
		"reps":          10,
		"weight":        0,
		"workout_date":  "2024-03-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.WorkoutView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Weight)
	assert.Equal(t, "alice", created.User.Username)

	path := "/api/v1/workouts/" + created.ID

	rec = do(t, router, http.MethodGet, path, "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	require.NoError(t, store.LinkFriends(t.Context(), "alice", "bob"))

	rec = do(t, router, http.MethodGet, path, "bob", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPatch, path, "bob", map[string]string{"memo": "mine now"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPatch, path, "alice", map[string]interface{}{"sets": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPatch, path, "alice", map[string]string{"memo": "deload"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.WorkoutView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "deload", *updated.Memo)
	assert.Equal(t, 3, updated.Sets)

	rec = do(t, router, http.MethodGet, "/api/v1/workouts", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []models.WorkoutView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Len(t, feed, 1)

	rec = do(t, router, http.MethodGet, "/api/v1/workouts/calendar?year=2024&month=3", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cal models.CalendarMonth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cal))
	require.Len(t, cal.Days, 1)
	assert.Equal(t, "2024-03-15", cal.Days[0].Date)

	rec = do(t, router, http.MethodGet, "/api/v1/workouts/exercises", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"exercise_name":"Bench Press","body_part":"chest","count":1}]`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/workouts/by-exercise?name=Bench%20Press", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, path, "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodDelete, path, "alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, path, "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkoutRoutesRejectBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	router := newTestRouter(t, svc)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
		status int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/v1/workouts", status: http.StatusUnauthorized},
		{name: "calendar without month", method: http.MethodGet, path: "/api/v1/workouts/calendar?year=2024", user: "alice", status: http.StatusBadRequest},
		{name: "calendar month out of range", method: http.MethodGet, path: "/api/v1/workouts/calendar?year=2024&month=13", user: "alice", status: http.StatusBadRequest},
		{name: "by exercise without name", method: http.MethodGet, path: "/api/v1/workouts/by-exercise", user: "alice", status: http.StatusBadRequest},
		{name: "create with zero reps", method: http.MethodPost, path: "/api/v1/workouts", user: "alice", body: map[string]interface{}{
			"body_part": "back", "exercise_name": "Row", "sets": 3, "reps": 0, "workout_date": "2024-03-15",
		}, status: http.StatusBadRequest},
		{name: "unknown workout", method: http.MethodGet, path: "/api/v1/workouts/missing", user: "alice", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateWorkoutRejectsMalformedJSON(t *testing.T) {
	svc, _ := newTestService(t)
	router := newTestRouter(t, svc)

	token, err := utils.IssueToken(testSecret, "alice", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

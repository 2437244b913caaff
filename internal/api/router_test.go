package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/voice-reminder/internal/reminder"
)

func setupRouter(t *testing.T) (*gin.Engine, *reminder.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := reminder.OpenDB(filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRouter(db), db
}

func perform(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func storedReminder(t *testing.T, db *reminder.DB, id int64) reminder.Reminder {
	t.Helper()
	list, err := db.List(context.Background())
	require.NoError(t, err)
	for _, r := range list {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("reminder %d not stored", id)
	return reminder.Reminder{}
}

func TestCreateAndListReminders(t *testing.T) {
	router, _ := setupRouter(t)

	w := perform(router, http.MethodPost, "/api/reminders", `{"text":"Выпить воды"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created createResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Positive(t, created.ID)

	w = perform(router, http.MethodGet, "/api/reminders", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []reminder.Reminder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Выпить воды", list[0].Text)
	assert.False(t, list[0].Done)
	assert.Contains(t, w.Body.String(), `"createdAt"`)
}

func TestListEmptyIsArray(t *testing.T) {
	router, _ := setupRouter(t)

	w := perform(router, http.MethodGet, "/api/reminders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateRejectsBlankText(t *testing.T) {
	router, db := setupRouter(t)

	for _, body := range []string{`{"text":"   "}`, `{}`, `not json`} {
		w := perform(router, http.MethodPost, "/api/reminders", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	}

	list, err := db.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSetDone(t *testing.T) {
	router, db := setupRouter(t)
	id, err := db.Create(context.Background(), "Размяться")
	require.NoError(t, err)

	w := perform(router, http.MethodPut, "/api/reminders/"+itoa(id), `{"done":true}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.True(t, storedReminder(t, db, id).Done)

	w = perform(router, http.MethodPut, "/api/reminders/"+itoa(id), `{"done":false}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, storedReminder(t, db, id).Done)
}

func TestSetDoneErrors(t *testing.T) {
	router, db := setupRouter(t)
	id, err := db.Create(context.Background(), "Размяться")
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown id", "/api/reminders/999", `{"done":true}`, http.StatusNotFound},
		{"bad id", "/api/reminders/abc", `{"done":true}`, http.StatusBadRequest},
		{"missing done", "/api/reminders/" + itoa(id), `{}`, http.StatusBadRequest},
		{"wrong type", "/api/reminders/" + itoa(id), `{"done":"yes"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDeleteReminder(t *testing.T) {
	router, db := setupRouter(t)
	id, err := db.Create(context.Background(), "Позвонить маме")
	require.NoError(t, err)

	w := perform(router, http.MethodDelete, "/api/reminders/"+itoa(id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(router, http.MethodDelete, "/api/reminders/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "reminder not found", w.Body.String())
}

type brokenStore struct{}

func (brokenStore) Create(context.Context, string) (int64, error) { return 0, errors.New("disk full") }
func (brokenStore) List(context.Context) ([]reminder.Reminder, error) {
	return nil, errors.New("disk full")
}
func (brokenStore) SetDone(context.Context, int64, bool) error { return errors.New("disk full") }
func (brokenStore) Delete(context.Context, int64) error        { return errors.New("disk full") }

func TestStorageFailureIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(brokenStore{})

	w := perform(router, http.MethodGet, "/api/reminders", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestRequestIDAndCORS(t *testing.T) {
	router, _ := setupRouter(t)

	w := perform(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	w = perform(router, http.MethodOptions, "/api/reminders", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupRouter(t)
	perform(router, http.MethodGet, "/api/reminders", "")

	w := perform(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reminder_operations_total")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

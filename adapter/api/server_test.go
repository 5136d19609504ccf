package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklane/internal/app"
	identityQueries "github.com/felixgeelhaar/tasklane/internal/identity/application/queries"
	"github.com/felixgeelhaar/tasklane/internal/productivity/application/queries"
	"github.com/felixgeelhaar/tasklane/pkg/config"
	"github.com/felixgeelhaar/tasklane/pkg/observability"
)

func newTestContainer(t *testing.T, logOut io.Writer) *app.Container {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                  "development",
		DataDir:                 filepath.Join(t.TempDir(), "data"),
		OutboxBatchSize:         10,
		OutboxMaxRetries:        3,
		BreakerFailureThreshold: 5,
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	c, err := app.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewServer(DefaultServerConfig(), newTestContainer(t, io.Discard)).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createUser(t *testing.T, h http.Handler, name, email string) identityQueries.UserDTO {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/users", UserRequest{Name: name, Email: email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[identityQueries.UserDTO](t, rec)
}

func createTask(t *testing.T, h http.Handler, body TaskRequest) queries.TaskDTO {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/tasks", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[queries.TaskDTO](t, rec)
}

func TestAPI_ExampleFlow(t *testing.T) {
	h := newTestHandler(t)

	user := createUser(t, h, "Ann", "ann@x.com")
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Ann", user.Name)

	task := createTask(t, h, TaskRequest{Title: "T1", UserID: OwnerID(user.ID)})
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "medium", task.Priority)
	assert.Equal(t, "Ann", task.UserName)
	assert.Equal(t, "ann@x.com", task.UserEmail)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)

	rec := do(t, h, http.MethodGet, "/tasks?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[[]queries.TaskDTO](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, task.ID, pending[0].ID)

	rec = do(t, h, http.MethodDelete, "/users/"+strconv.FormatInt(user.ID, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[DeleteResponse](t, rec)
	assert.Equal(t, "User deleted successfully", deleted.Message)
	assert.Equal(t, user.ID, deleted.DeletedID)

	rec = do(t, h, http.MethodGet, "/tasks/"+strconv.FormatInt(task.ID, 10), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decode[ErrorResponse](t, rec).Error)

	rec = do(t, h, http.MethodGet, "/tasks?userId="+strconv.FormatInt(user.ID, 10), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestAPI_Users(t *testing.T) {
	h := newTestHandler(t)

	t.Run("create then get", func(t *testing.T) {
		created := createUser(t, h, "Bob", "bob@x.com")

		rec := do(t, h, http.MethodGet, "/users/"+strconv.FormatInt(created.ID, 10), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[identityQueries.UserDTO](t, rec)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Bob", got.Name)
		assert.Equal(t, "bob@x.com", got.Email)
	})

	t.Run("duplicate email conflicts regardless of name", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/users", UserRequest{Name: "Other", Email: "bob@x.com"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email already exists", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/users", UserRequest{Name: "  ", Email: "x@x.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name and email are required", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/users", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON body", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("trailing data after body", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/users", `{"name":"B","email":"b@x.com"} trailing`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON body", decode[ErrorResponse](t, rec).Error)

		rec = do(t, h, http.MethodPost, "/users", `{"name":"B","email":"b@x.com"}{"name":"C","email":"c@x.com"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/users/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update validates before lookup", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/users/999", UserRequest{Name: "", Email: ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, h, http.MethodPut, "/users/999", UserRequest{Name: "N", Email: "n@x.com"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("update email taken by another user", func(t *testing.T) {
		carol := createUser(t, h, "Carol", "carol@x.com")
		rec := do(t, h, http.MethodPut, "/users/"+strconv.FormatInt(carol.ID, 10), UserRequest{Name: "Carol", Email: "bob@x.com"})
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = do(t, h, http.MethodPut, "/users/"+strconv.FormatInt(carol.ID, 10), UserRequest{Name: "Caroline", Email: "carol@x.com"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Caroline", decode[identityQueries.UserDTO](t, rec).Name)
	})

	t.Run("delete missing user", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/users/999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list under /api prefix", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		users := decode[[]identityQueries.UserDTO](t, rec)
		assert.Len(t, users, 2)
	})
}

func TestAPI_Tasks(t *testing.T) {
	h := newTestHandler(t)
	owner := createUser(t, h, "Ann", "ann@x.com")

	t.Run("invalid status persists nothing", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/tasks", TaskRequest{Title: "T", UserID: OwnerID(owner.ID), Status: "done"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid status value", decode[ErrorResponse](t, rec).Error)

		rec = do(t, h, http.MethodGet, "/tasks", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]queries.TaskDTO](t, rec))
	})

	t.Run("unknown owner", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/tasks", TaskRequest{Title: "T", UserID: 999})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("missing title", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/tasks", TaskRequest{UserID: OwnerID(owner.ID)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Title and user_id are required", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("user_id sent as a string", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/tasks", `{"title":"From form","user_id":"`+strconv.FormatInt(owner.ID, 10)+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[queries.TaskDTO](t, rec)
		assert.Equal(t, owner.ID, created.UserID)

		rec = do(t, h, http.MethodPut, "/tasks/"+strconv.FormatInt(created.ID, 10), `{"title":"From form","user_id":"`+strconv.FormatInt(owner.ID, 10)+`"}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, h, http.MethodDelete, "/tasks/"+strconv.FormatInt(created.ID, 10), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty user_id is missing", func(t *testing.T) {
		for _, body := range []string{
			`{"title":"T","user_id":""}`,
			`{"title":"T","user_id":null}`,
			`{"title":"T"}`,
		} {
			rec := do(t, h, http.MethodPost, "/tasks", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Equal(t, "Title and user_id are required", decode[ErrorResponse](t, rec).Error, body)
		}
	})

	t.Run("non-numeric user_id", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/tasks", `{"title":"T","user_id":"abc"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON body", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("update is idempotent", func(t *testing.T) {
		task := createTask(t, h, TaskRequest{Title: "Write", UserID: OwnerID(owner.ID)})
		desc := "draft"
		due := "2030-01-31"
		body := TaskRequest{
			Title:       "Write report",
			Description: &desc,
			Status:      "in_progress",
			Priority:    "high",
			UserID:      OwnerID(owner.ID),
			DueDate:     &due,
		}
		path := "/tasks/" + strconv.FormatInt(task.ID, 10)

		first := do(t, h, http.MethodPut, path, body)
		require.Equal(t, http.StatusOK, first.Code, first.Body.String())
		second := do(t, h, http.MethodPut, path, body)
		require.Equal(t, http.StatusOK, second.Code)

		a := decode[queries.TaskDTO](t, first)
		b := decode[queries.TaskDTO](t, second)
		assert.Equal(t, a.Title, b.Title)
		assert.Equal(t, a.Description, b.Description)
		assert.Equal(t, a.Status, b.Status)
		assert.Equal(t, a.Priority, b.Priority)
		assert.Equal(t, a.DueDate, b.DueDate)
		assert.Equal(t, "in_progress", b.Status)
		assert.Equal(t, "2030-01-31", *b.DueDate)
	})

	t.Run("update missing task", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/tasks/999", TaskRequest{Title: "T", UserID: OwnerID(owner.ID)})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decode[ErrorResponse](t, rec).Error)
	})

	t.Run("invalid filters", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/tasks?priority=urgent", nil).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/tasks?userId=abc", nil).Code)
	})

	t.Run("export csv", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/tasks/export?format=csv&priority=high", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "tasks.csv")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "Write report")
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/tasks/export?format=xml", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		task := createTask(t, h, TaskRequest{Title: "Temp", UserID: OwnerID(owner.ID)})
		rec := do(t, h, http.MethodDelete, "/tasks/"+strconv.FormatInt(task.ID, 10), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, DeleteResponse{Message: "Task deleted successfully", DeletedID: task.ID}, decode[DeleteResponse](t, rec))

		rec = do(t, h, http.MethodDelete, "/tasks/"+strconv.FormatInt(task.ID, 10), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPI_StorageFailure(t *testing.T) {
	var logs bytes.Buffer
	c := newTestContainer(t, &logs)
	h := NewServer(DefaultServerConfig(), c).Handler()

	require.NoError(t, c.DBConn.Close())

	rec := do(t, h, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch users"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "closed")

	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "operation=\"fetch users\"")
	assert.Contains(t, logs.String(), "database is closed")

	rec = do(t, h, http.MethodGet, "/tasks/1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch task"}`, rec.Body.String())
}

func TestOwnerID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want OwnerID
	}{
		{`7`, 7},
		{`"7"`, 7},
		{`" 7 "`, 7},
		{`""`, 0},
		{`null`, 0},
		{`"-2"`, -2},
	}
	for _, tt := range tests {
		var id OwnerID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id), tt.in)
		assert.Equal(t, tt.want, id, tt.in)
	}

	var id OwnerID
	assert.Error(t, json.Unmarshal([]byte(`"seven"`), &id))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &id))
}

func TestAPI_RequestID(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/users", nil)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]any](t, rec)
	assert.Equal(t, string(observability.HealthStatusHealthy), health["status"])

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), observability.MetricHTTPRequests)
	assert.Contains(t, rec.Body.String(), observability.MetricOperationDuration)
	assert.Contains(t, rec.Body.String(), "GET /health")
}

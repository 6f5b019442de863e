package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/api"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// stubTaskService returns canned results and records the arguments it saw.
type stubTaskService struct {
	task   *domain.Task
	tasks  []*domain.Task
	groups *service.TaskGroups
	err    error

	gotUserID     uuid.UUID
	gotTaskID     uuid.UUID
	gotSearchTerm string
	gotStatus     domain.TaskStatus
}

var _ service.TaskService = (*stubTaskService)(nil)

func (s *stubTaskService) CreateTask(
	_ context.Context,
	userID uuid.UUID,
	_, _ string,
) (*domain.Task, error) {
	s.gotUserID = userID
	return s.task, s.err
}

func (s *stubTaskService) ListTasks(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	s.gotUserID = userID
	return s.tasks, s.err
}

func (s *stubTaskService) EditTask(
	_ context.Context,
	userID, taskID uuid.UUID,
	_, _ string,
) (*domain.Task, error) {
	s.gotUserID = userID
	s.gotTaskID = taskID
	return s.task, s.err
}

func (s *stubTaskService) UpdateTaskStatus(
	_ context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	s.gotUserID = userID
	s.gotTaskID = taskID
	s.gotStatus = status
	return s.task, s.err
}

func (s *stubTaskService) DeleteTask(_ context.Context, userID, taskID uuid.UUID) error {
	s.gotUserID = userID
	s.gotTaskID = taskID
	return s.err
}

func (s *stubTaskService) TasksByStatus(
	_ context.Context,
	userID uuid.UUID,
	searchTerm string,
) (*service.TaskGroups, error) {
	s.gotUserID = userID
	s.gotSearchTerm = searchTerm
	return s.groups, s.err
}

// newTaskRouter mounts the handler behind a middleware that injects the
// given user id, standing in for the auth middleware.
func newTaskRouter(svc service.TaskService, userID uuid.UUID) http.Handler {
	handler := api.NewTaskHandler(svc, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/api/tasks", handler.CreateTask)
	r.Get("/api/tasks", handler.ListTasks)
	r.Get("/api/tasks/search", handler.SearchTasks)
	r.Put("/api/tasks/{id}", handler.EditTask)
	r.Patch("/api/tasks/{id}/status", handler.UpdateTaskStatus)
	r.Delete("/api/tasks/{id}", handler.DeleteTask)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func newStoredTask(t *testing.T, userID uuid.UUID, title string, status domain.TaskStatus) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title, "a description")
	require.NoError(t, err)
	task.Status = status
	return task
}

func TestCreateTaskHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid request returns 201 with the task", func(t *testing.T) {
		t.Parallel()

		task := newStoredTask(t, userID, "Buy milk", domain.TaskStatusCreated)
		svc := &stubTaskService{task: task}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodPost, "/api/tasks", map[string]string{
			"title":       "Buy milk",
			"description": "Two liters",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, userID, svc.gotUserID)

		envelope := decodeEnvelope(t, rr)
		data, ok := envelope["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Buy milk", data["title"])
		assert.Equal(t, "CREATED", data["status"])
	})

	t.Run("missing title is a 400", func(t *testing.T) {
		t.Parallel()

		router := newTaskRouter(&stubTaskService{}, userID)

		rr := doJSON(t, router, http.MethodPost, "/api/tasks", map[string]string{
			"description": "no title",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing description is a 400", func(t *testing.T) {
		t.Parallel()

		router := newTaskRouter(&stubTaskService{}, userID)

		rr := doJSON(t, router, http.MethodPost, "/api/tasks", map[string]string{
			"title": "no description",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListTasksHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &stubTaskService{tasks: []*domain.Task{
		newStoredTask(t, userID, "First", domain.TaskStatusCreated),
		newStoredTask(t, userID, "Second", domain.TaskStatusCompleted),
	}}
	router := newTaskRouter(svc, userID)

	rr := doJSON(t, router, http.MethodGet, "/api/tasks", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, userID, svc.gotUserID)

	envelope := decodeEnvelope(t, rr)
	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestEditTaskHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid edit returns the updated task", func(t *testing.T) {
		t.Parallel()

		task := newStoredTask(t, userID, "Updated", domain.TaskStatusCreated)
		svc := &stubTaskService{task: task}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodPut, "/api/tasks/"+task.ID.String(), map[string]string{
			"title":       "Updated",
			"description": "new text",
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, task.ID, svc.gotTaskID)
	})

	t.Run("unknown or foreign task is a 404", func(t *testing.T) {
		t.Parallel()

		svc := &stubTaskService{err: store.ErrTaskNotFound}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodPut, "/api/tasks/"+uuid.NewString(), map[string]string{
			"title":       "Updated",
			"description": "new text",
		})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		t.Parallel()

		router := newTaskRouter(&stubTaskService{}, userID)

		rr := doJSON(t, router, http.MethodPut, "/api/tasks/not-a-uuid", map[string]string{
			"title":       "Updated",
			"description": "new text",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateTaskStatusHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid status change", func(t *testing.T) {
		t.Parallel()

		task := newStoredTask(t, userID, "Buy milk", domain.TaskStatusCompleted)
		svc := &stubTaskService{task: task}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodPatch, "/api/tasks/"+task.ID.String()+"/status", map[string]string{
			"status": "COMPLETED",
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.TaskStatusCompleted, svc.gotStatus)
	})

	t.Run("unknown status is a 400 before the service is involved", func(t *testing.T) {
		t.Parallel()

		svc := &stubTaskService{}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodPatch, "/api/tasks/"+uuid.NewString()+"/status", map[string]string{
			"status": "ARCHIVED",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, uuid.Nil, svc.gotUserID)
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("successful delete is a 204 with no body", func(t *testing.T) {
		t.Parallel()

		svc := &stubTaskService{}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodDelete, "/api/tasks/"+uuid.NewString(), nil)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("missing task is a 404", func(t *testing.T) {
		t.Parallel()

		svc := &stubTaskService{err: store.ErrTaskNotFound}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodDelete, "/api/tasks/"+uuid.NewString(), nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSearchTasksHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("search term is forwarded and groups are returned", func(t *testing.T) {
		t.Parallel()

		groups := &service.TaskGroups{
			Created:    []*domain.Task{newStoredTask(t, userID, "Buy milk", domain.TaskStatusCreated)},
			InProgress: []*domain.Task{},
			Completed:  []*domain.Task{},
		}
		svc := &stubTaskService{groups: groups}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodGet, "/api/tasks/search?searchString=milk", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "milk", svc.gotSearchTerm)

		envelope := decodeEnvelope(t, rr)
		data, ok := envelope["data"].(map[string]any)
		require.True(t, ok)

		created, ok := data["created"].([]any)
		require.True(t, ok)
		assert.Len(t, created, 1)

		// Empty buckets serialize as [], not null
		inprogress, ok := data["inprogress"].([]any)
		require.True(t, ok)
		assert.Empty(t, inprogress)

		completed, ok := data["completed"].([]any)
		require.True(t, ok)
		assert.Empty(t, completed)
	})

	t.Run("missing searchString means no filter", func(t *testing.T) {
		t.Parallel()

		svc := &stubTaskService{groups: &service.TaskGroups{
			Created:    []*domain.Task{},
			InProgress: []*domain.Task{},
			Completed:  []*domain.Task{},
		}}
		router := newTaskRouter(svc, userID)

		rr := doJSON(t, router, http.MethodGet, "/api/tasks/search", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, svc.gotSearchTerm)
	})
}

func TestTaskHandler_RequiresAuthContext(t *testing.T) {
	t.Parallel()

	// Mounted without the user-injecting middleware the handler refuses.
	handler := api.NewTaskHandler(&stubTaskService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rr := httptest.NewRecorder()
	handler.ListTasks(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTaskResponseTimestamps(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	task := newStoredTask(t, userID, "Buy milk", domain.TaskStatusCreated)
	task.CreatedAt = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	task.UpdatedAt = task.CreatedAt

	svc := &stubTaskService{task: task}
	router := newTaskRouter(svc, userID)

	rr := doJSON(t, router, http.MethodPost, "/api/tasks", map[string]string{
		"title":       "Buy milk",
		"description": "Two liters",
	})

	envelope := decodeEnvelope(t, rr)
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2026-01-15T12:00:00Z", data["created_at"])
}

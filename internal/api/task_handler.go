package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
)

// TaskHandler handles task-related requests. Every route it serves sits
// behind the auth middleware; the acting user comes from the request context
// and the service layer scopes each operation to that user.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      log.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles task creation requests.
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Title and description are required", err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusCreated, "task created successfully", taskToResponse(task))
}

// ListTasks returns all of the caller's tasks, newest first.
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "tasks retrieved successfully", tasksToResponses(tasks))
}

// EditTask replaces a task's title and description.
// PUT /api/tasks/{id}
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Title and description are required", err)
		return
	}

	task, err := h.taskService.EditTask(r.Context(), userID, taskID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "task updated successfully", taskToResponse(task))
}

// UpdateTaskStatus changes a task's status.
// PATCH /api/tasks/{id}/status
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid task status", err)
		return
	}

	task, err := h.taskService.UpdateTaskStatus(r.Context(), userID, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "task status updated successfully", taskToResponse(task))
}

// DeleteTask removes a task.
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	taskID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchTasks returns the caller's tasks grouped by status, optionally
// filtered by the searchString query parameter.
// GET /api/tasks/search?searchString=term
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	searchTerm := r.URL.Query().Get("searchString")

	groups, err := h.taskService.TasksByStatus(r.Context(), userID, searchTerm)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "tasks retrieved successfully", groupsToResponse(groups))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskGroups is the result of a grouped task query: the caller's candidate
// tasks partitioned by status. Every candidate appears in exactly one bucket;
// each bucket is ordered by updated time descending.
type TaskGroups struct {
	Created    []*domain.Task `json:"created"`
	InProgress []*domain.Task `json:"inprogress"`
	Completed  []*domain.Task `json:"completed"`
}

// TaskService provides ownership-checked task operations.
//
// Every operation is scoped to the acting user: reads only ever see the
// user's own tasks, and mutations on records that are absent or owned by
// someone else fail with store.ErrTaskNotFound without revealing which.
type TaskService interface {
	// CreateTask creates a new task owned by userID with status CREATED.
	CreateTask(ctx context.Context, userID uuid.UUID, title, description string) (*domain.Task, error)

	// ListTasks returns all of the user's tasks, newest first.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// EditTask replaces the task's title and description.
	// Returns store.ErrTaskNotFound if the task is absent or not owned by userID.
	EditTask(ctx context.Context, userID, taskID uuid.UUID, title, description string) (*domain.Task, error)

	// UpdateTaskStatus changes the task's status.
	// Returns domain.ErrInvalidStatus for an unknown status and
	// store.ErrTaskNotFound if the task is absent or not owned by userID.
	UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// DeleteTask removes the task with a single atomic id+owner delete.
	// Returns store.ErrTaskNotFound if the task is absent or not owned by userID.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// TasksByStatus returns the user's tasks partitioned by status. When
	// searchTerm is non-empty only tasks whose title or description
	// contains it (case-insensitively) are included. Read-only.
	TasksByStatus(ctx context.Context, userID uuid.UUID, searchTerm string) (*TaskGroups, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, log *slog.Logger) *TaskServiceImpl {
	if log == nil {
		log = slog.Default()
	}

	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    log.With(slog.String("component", "task_service")),
	}
}

// CreateTask implements TaskService.CreateTask
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, title, description)
	if err != nil {
		log.Debug("task validation failed", "error", err)
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created", "task_id", task.ID, "user_id", userID)
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.ListByOwner(ctx, userID)
	if err != nil {
		log.Error("failed to list tasks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// EditTask implements TaskService.EditTask
// The final write is a single statement keyed on id AND owner, so a
// concurrent owner change can never be raced into mutating a foreign record.
func (s *TaskServiceImpl) EditTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	title, description string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetForOwner(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	if err := task.Edit(title, description); err != nil {
		log.Debug("task edit validation failed", "error", err, "task_id", taskID)
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to update task", "error", err, "task_id", taskID)
		}
		return nil, err
	}

	log.Info("task edited", "task_id", taskID, "user_id", userID)
	return task, nil
}

// UpdateTaskStatus implements TaskService.UpdateTaskStatus
func (s *TaskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.IsValidTaskStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	task, err := s.taskStore.GetForOwner(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	if err := task.UpdateStatus(status); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to update task status", "error", err, "task_id", taskID)
		}
		return nil, err
	}

	log.Info("task status updated",
		"task_id", taskID,
		"user_id", userID,
		"status", string(status))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, taskID, userID); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to delete task", "error", err, "task_id", taskID)
		}
		return err
	}

	log.Info("task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

// TasksByStatus implements TaskService.TasksByStatus
// Candidates arrive from the store already ordered by updated time
// descending with a deterministic tie-break; the partition below is
// order-preserving, so each bucket inherits that ordering.
func (s *TaskServiceImpl) TasksByStatus(
	ctx context.Context,
	userID uuid.UUID,
	searchTerm string,
) (*TaskGroups, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.ListByOwnerUpdatedDesc(ctx, userID)
	if err != nil {
		log.Error("failed to list tasks for grouping", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	groups := &TaskGroups{
		Created:    []*domain.Task{},
		InProgress: []*domain.Task{},
		Completed:  []*domain.Task{},
	}

	for _, task := range tasks {
		if !matchesSearch(task, searchTerm) {
			continue
		}

		switch task.Status {
		case domain.TaskStatusCreated:
			groups.Created = append(groups.Created, task)
		case domain.TaskStatusInProgress:
			groups.InProgress = append(groups.InProgress, task)
		case domain.TaskStatusCompleted:
			groups.Completed = append(groups.Completed, task)
		default:
			// The store only ever holds the three statuses; treat anything
			// else as corruption rather than silently dropping the task.
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, task.Status)
		}
	}

	log.Debug("tasks grouped by status",
		"user_id", userID,
		"created", len(groups.Created),
		"inprogress", len(groups.InProgress),
		"completed", len(groups.Completed))

	return groups, nil
}

// matchesSearch reports whether the task matches the search term: an empty
// term matches everything, otherwise the term must be a case-insensitive
// substring of the title OR the description.
func matchesSearch(task *domain.Task, term string) bool {
	if term == "" {
		return true
	}

	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}

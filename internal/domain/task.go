package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusInProgress TaskStatus = "INPROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid task status")
)

// Task represents a single to-do item owned by a user. The owner is
// immutable after creation; edits and status changes touch UpdatedAt.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// It generates a new UUID for the task ID, sets the status to CREATED,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      TaskStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidStatus
	}

	return nil
}

// Edit replaces the task's title and description and updates the
// UpdatedAt timestamp. Both fields are required together; partial
// edits are not supported.
func (t *Task) Edit(title, description string) error {
	if title == "" {
		return ErrEmptyTaskTitle
	}

	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStatus changes the task's status and updates the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (t *Task) UpdateStatus(status TaskStatus) error {
	if !IsValidTaskStatus(status) {
		return ErrInvalidStatus
	}

	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusCreated, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every read is scoped to an owner and every mutation is keyed on both the
// task id and the owner id in a single statement, so a record belonging to
// another user can never be observed or modified. A mutation that matches
// zero rows reports ErrTaskNotFound regardless of whether the record is
// absent or owned by someone else.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by id, constrained to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or is not owned
	// by ownerID.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// ListByOwner retrieves all tasks owned by ownerID,
	// ordered by creation time descending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// ListByOwnerUpdatedDesc retrieves all tasks owned by ownerID, ordered by
	// updated time descending with the task id as a deterministic tie-break.
	ListByOwnerUpdatedDesc(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// Update persists the task's title, description, status and updated
	// timestamp in one statement keyed on id AND owner.
	// Returns ErrTaskNotFound if zero rows were affected.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task in one statement keyed on id AND owner.
	// Returns ErrTaskNotFound if zero rows were affected.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/domain"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid task starts in CREATED", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask(userID, "Buy milk", "Two liters, whole")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, domain.TaskStatusCreated, task.Status)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "Two liters, whole", task.Description)
	})

	t.Run("empty title fails", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask(userID, "", "desc")
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
		assert.Nil(t, task)
	})

	t.Run("nil owner fails", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask(uuid.Nil, "Buy milk", "desc")
		assert.ErrorIs(t, err, domain.ErrEmptyTaskUserID)
		assert.Nil(t, task)
	})
}

func TestTaskEdit(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(uuid.New(), "Old title", "Old description")
	require.NoError(t, err)

	before := task.UpdatedAt

	require.NoError(t, task.Edit("New title", "New description"))
	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, "New description", task.Description)
	assert.True(t, !task.UpdatedAt.Before(before))

	// Empty title rejects the edit and leaves the task untouched
	err = task.Edit("", "anything")
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	assert.Equal(t, "New title", task.Title)
}

func TestTaskUpdateStatus(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(uuid.New(), "Buy milk", "")
	require.NoError(t, err)

	require.NoError(t, task.UpdateStatus(domain.TaskStatusInProgress))
	assert.Equal(t, domain.TaskStatusInProgress, task.Status)

	require.NoError(t, task.UpdateStatus(domain.TaskStatusCompleted))
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)

	err = task.UpdateStatus(domain.TaskStatus("DONE"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
}

func TestIsValidTaskStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.IsValidTaskStatus(domain.TaskStatusCreated))
	assert.True(t, domain.IsValidTaskStatus(domain.TaskStatusInProgress))
	assert.True(t, domain.IsValidTaskStatus(domain.TaskStatusCompleted))
	assert.False(t, domain.IsValidTaskStatus(domain.TaskStatus("created")))
	assert.False(t, domain.IsValidTaskStatus(domain.TaskStatus("")))
}

package service_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// fakeTaskStore is an in-memory TaskStore with the same owner-scoping
// semantics as the postgres implementation.
type fakeTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*fakeTaskStore)(nil)

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *fakeTaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *fakeTaskStore) GetForOwner(_ context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *fakeTaskStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	owned := s.ownedBy(ownerID)
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned, nil
}

func (s *fakeTaskStore) ListByOwnerUpdatedDesc(_ context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	owned := s.ownedBy(ownerID)
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].UpdatedAt.Equal(owned[j].UpdatedAt) {
			return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
		}
		return owned[i].ID.String() < owned[j].ID.String()
	})
	return owned, nil
}

func (s *fakeTaskStore) Update(_ context.Context, task *domain.Task) error {
	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	existing, ok := s.tasks[id]
	if !ok || existing.UserID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) ownedBy(ownerID uuid.UUID) []*domain.Task {
	owned := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == ownerID {
			copied := *task
			owned = append(owned, &copied)
		}
	}
	return owned
}

// seedTask inserts a task with explicit status and updated time.
func seedTask(
	t *testing.T,
	s *fakeTaskStore,
	ownerID uuid.UUID,
	title, description string,
	status domain.TaskStatus,
	updatedAt time.Time,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, description)
	require.NoError(t, err)
	task.Status = status
	task.UpdatedAt = updatedAt

	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	userID := uuid.New()

	task, err := svc.CreateTask(context.Background(), userID, "Buy milk", "Two liters")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCreated, task.Status)
	assert.Equal(t, userID, task.UserID)

	_, err = svc.CreateTask(context.Background(), userID, "", "no title")
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
}

func TestEditTask_OwnerScoping(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	owner := uuid.New()
	stranger := uuid.New()
	task := seedTask(t, taskStore, owner, "Original", "desc", domain.TaskStatusCreated, time.Now().UTC())

	// A different user gets not-found, not forbidden
	_, err := svc.EditTask(context.Background(), stranger, task.ID, "Hijacked", "nope")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	// Untouched
	got, err := taskStore.GetForOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	// The owner succeeds
	edited, err := svc.EditTask(context.Background(), owner, task.ID, "Updated", "new desc")
	require.NoError(t, err)
	assert.Equal(t, "Updated", edited.Title)
	assert.Equal(t, "new desc", edited.Description)
}

func TestUpdateTaskStatus(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	owner := uuid.New()
	task := seedTask(t, taskStore, owner, "Buy milk", "", domain.TaskStatusCreated, time.Now().UTC())

	updated, err := svc.UpdateTaskStatus(context.Background(), owner, task.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)

	_, err = svc.UpdateTaskStatus(context.Background(), owner, task.ID, domain.TaskStatus("ARCHIVED"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateTaskStatus(context.Background(), uuid.New(), task.ID, domain.TaskStatusCreated)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	owner := uuid.New()
	task := seedTask(t, taskStore, owner, "Buy milk", "", domain.TaskStatusCreated, time.Now().UTC())

	// Cross-owner delete reports not-found and removes nothing
	err := svc.DeleteTask(context.Background(), uuid.New(), task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = taskStore.GetForOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(context.Background(), owner, task.ID))

	_, err = taskStore.GetForOwner(context.Background(), task.ID, owner)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	// Deleting again is not-found
	err = svc.DeleteTask(context.Background(), owner, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTasksByStatus_Partition(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	owner := uuid.New()

	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	// Most recently updated first within each bucket
	t1 := seedTask(t, taskStore, owner, "Groceries", "milk and eggs", domain.TaskStatusCreated, base.Add(4*time.Hour))
	t2 := seedTask(t, taskStore, owner, "Taxes", "file returns", domain.TaskStatusInProgress, base.Add(3*time.Hour))
	t3 := seedTask(t, taskStore, owner, "Laundry", "whites", domain.TaskStatusCompleted, base.Add(2*time.Hour))
	t4 := seedTask(t, taskStore, owner, "Dentist", "book appointment", domain.TaskStatusCreated, base.Add(1*time.Hour))

	groups, err := svc.TasksByStatus(context.Background(), owner, "")
	require.NoError(t, err)

	require.Len(t, groups.Created, 2)
	assert.Equal(t, t1.ID, groups.Created[0].ID)
	assert.Equal(t, t4.ID, groups.Created[1].ID)

	require.Len(t, groups.InProgress, 1)
	assert.Equal(t, t2.ID, groups.InProgress[0].ID)

	require.Len(t, groups.Completed, 1)
	assert.Equal(t, t3.ID, groups.Completed[0].ID)
}

func TestTasksByStatus_EqualUpdatedAtOrdersByID(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	owner := uuid.New()

	// All tasks share one updated time, so ordering within the bucket falls
	// back to the id tie-break
	when := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	seeded := []*domain.Task{
		seedTask(t, taskStore, owner, "Alpha", "", domain.TaskStatusCreated, when),
		seedTask(t, taskStore, owner, "Beta", "", domain.TaskStatusCreated, when),
		seedTask(t, taskStore, owner, "Gamma", "", domain.TaskStatusCreated, when),
	}
	sort.Slice(seeded, func(i, j int) bool {
		return seeded[i].ID.String() < seeded[j].ID.String()
	})

	groups, err := svc.TasksByStatus(context.Background(), owner, "")
	require.NoError(t, err)

	require.Len(t, groups.Created, 3)
	for i, want := range seeded {
		assert.Equal(t, want.ID, groups.Created[i].ID)
	}
}

func TestTasksByStatus_Search(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	owner := uuid.New()

	now := time.Now().UTC()
	seedTask(t, taskStore, owner, "Buy MILK", "from the corner shop", domain.TaskStatusCreated, now)
	seedTask(t, taskStore, owner, "Clean kitchen", "wipe down the milk spill", domain.TaskStatusInProgress, now)
	seedTask(t, taskStore, owner, "Walk dog", "around the block", domain.TaskStatusCompleted, now)

	t.Run("case-insensitive match on title or description", func(t *testing.T) {
		groups, err := svc.TasksByStatus(context.Background(), owner, "milk")
		require.NoError(t, err)

		assert.Len(t, groups.Created, 1)    // title match, case folded
		assert.Len(t, groups.InProgress, 1) // description match
		assert.Len(t, groups.Completed, 0)
	})

	t.Run("no matches yields empty buckets, not nil", func(t *testing.T) {
		groups, err := svc.TasksByStatus(context.Background(), owner, "zzz-no-such-term")
		require.NoError(t, err)

		assert.NotNil(t, groups.Created)
		assert.NotNil(t, groups.InProgress)
		assert.NotNil(t, groups.Completed)
		assert.Empty(t, groups.Created)
		assert.Empty(t, groups.InProgress)
		assert.Empty(t, groups.Completed)
	})

	t.Run("empty term matches everything", func(t *testing.T) {
		groups, err := svc.TasksByStatus(context.Background(), owner, "")
		require.NoError(t, err)

		total := len(groups.Created) + len(groups.InProgress) + len(groups.Completed)
		assert.Equal(t, 3, total)
	})
}

func TestTasksByStatus_OwnerIsolation(t *testing.T) {
	t.Parallel()

	taskStore := newFakeTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	alice := uuid.New()
	bob := uuid.New()

	now := time.Now().UTC()
	seedTask(t, taskStore, alice, "Alice task", "", domain.TaskStatusCreated, now)
	seedTask(t, taskStore, bob, "Bob task", "", domain.TaskStatusCreated, now)

	groups, err := svc.TasksByStatus(context.Background(), alice, "")
	require.NoError(t, err)

	require.Len(t, groups.Created, 1)
	assert.Equal(t, "Alice task", groups.Created[0].Title)
}

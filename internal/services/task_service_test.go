package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/tempo-cli/internal/adapters/storage"
	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// 2024-03-10 is a Sunday.
var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func setupTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err, "failed to create test storage")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type stubGit struct {
	branch string
	err    error
}

func (s stubGit) Detect(context.Context, string) (*ports.GitInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.GitInfo{Branch: s.branch}, nil
}

func newTaskService(t *testing.T, git ports.GitDetector) *TaskService {
	t.Helper()
	svc := NewTaskService(setupTestStorage(t), git)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }

func TestTaskService_AddTask(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc := newTaskService(t, nil)

		task, err := svc.AddTask(ctx, AddTaskRequest{Title: "Test Task", Tags: []string{"test", "example"}})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", task.DueDate)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.Len(t, task.Tags, 2)
		assert.Empty(t, task.GitBranch)
	})

	t.Run("explicit fields and git branch", func(t *testing.T) {
		svc := newTaskService(t, stubGit{branch: "feature/login"})

		task, err := svc.AddTask(ctx, AddTaskRequest{
			Title:    "Ship it",
			DueDate:  "2024-03-12",
			Priority: "high",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-12", task.DueDate)
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		assert.Equal(t, "feature/login", task.GitBranch)

		stored, err := svc.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "feature/login", stored.GitBranch)
	})

	t.Run("git failure is ignored", func(t *testing.T) {
		svc := newTaskService(t, stubGit{err: errors.New("not a repo")})

		task, err := svc.AddTask(ctx, AddTaskRequest{Title: "Outside"})
		require.NoError(t, err)
		assert.Empty(t, task.GitBranch)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newTaskService(t, nil)

		_, err := svc.AddTask(ctx, AddTaskRequest{Title: ""})
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)

		_, err = svc.AddTask(ctx, AddTaskRequest{Title: "x", Priority: "urgent"})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)

		_, err = svc.AddTask(ctx, AddTaskRequest{Title: "x", DueDate: "tomorrow"})
		assert.ErrorIs(t, err, domain.ErrInvalidDueDate)
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t, nil)

	task, err := svc.AddTask(ctx, AddTaskRequest{Title: "Draft", Description: "old"})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, task.ID, UpdateTaskRequest{
		Title:    strPtr("Final"),
		Priority: strPtr("Low"),
		Tags:     strPtr("a, b"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "old", updated.Description, "nil fields are kept")
	assert.Equal(t, domain.PriorityLow, updated.Priority)
	assert.Equal(t, []string{"a", "b"}, updated.Tags)

	_, err = svc.UpdateTask(ctx, task.ID, UpdateTaskRequest{Title: strPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = svc.UpdateTask(ctx, "missing", UpdateTaskRequest{})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t, nil)

	mustAdd := func(title, due, priority string) *domain.Task {
		task, err := svc.AddTask(ctx, AddTaskRequest{Title: title, DueDate: due, Priority: priority})
		require.NoError(t, err)
		return task
	}
	mustAdd("later-high", "2024-03-15", "High")
	mustAdd("today-low", "2024-03-10", "Low")
	done := mustAdd("done-med", "2024-03-10", "Medium")
	_, err := svc.CompleteTask(ctx, done.ID)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  ListTasksRequest
		want []string
	}{
		{"all by due date", ListTasksRequest{Filter: domain.FilterAll, Sort: domain.SortDueDate}, []string{"today-low", "done-med", "later-high"}},
		{"all by priority", ListTasksRequest{Filter: domain.FilterAll, Sort: domain.SortPriority}, []string{"later-high", "done-med", "today-low"}},
		{"today", ListTasksRequest{Filter: domain.FilterToday}, []string{"today-low"}},
		{"completed", ListTasksRequest{Filter: domain.FilterCompleted}, []string{"done-med"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := svc.ListTasks(ctx, tt.req)
			require.NoError(t, err)

			var got []string
			for _, task := range tasks {
				got = append(got, task.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskService_GroupTasks(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t, nil)

	_, _ = svc.AddTask(ctx, AddTaskRequest{Title: "today"})
	_, _ = svc.AddTask(ctx, AddTaskRequest{Title: "upcoming", DueDate: "2024-03-11"})
	_, _ = svc.AddTask(ctx, AddTaskRequest{Title: "overdue", DueDate: "2024-03-01"})

	groups, err := svc.GroupTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, groups.Today, 1)
	assert.Len(t, groups.Upcoming, 1)
	assert.Empty(t, groups.Completed)
}

func TestTaskService_CompleteAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(t, nil)

	task, _ := svc.AddTask(ctx, AddTaskRequest{Title: "Finish"})

	completed, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted())

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	_, err = svc.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = svc.CompleteTask(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

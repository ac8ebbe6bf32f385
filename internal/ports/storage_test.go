package ports

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/tempo-cli/internal/domain"
)

// Mock implementations for testing interfaces.

type mockTaskRepository struct {
	tasks map[string]*domain.Task
}

var _ TaskRepository = (*mockTaskRepository)(nil)

func (m *mockTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (m *mockTaskRepository) FindAll(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error) {
	var result []*domain.Task
	for _, task := range m.tasks {
		if status == nil || task.Status == *status {
			result = append(result, task)
		}
	}
	return result, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

func TestMockTaskRepository(t *testing.T) {
	repo := &mockTaskRepository{tasks: make(map[string]*domain.Task)}
	ctx := context.Background()

	t.Run("save and find task", func(t *testing.T) {
		task, _ := domain.NewTask("Test task")
		if err := repo.Save(ctx, task); err != nil {
			t.Errorf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != task.Title {
			t.Errorf("Found task title = %v, want %v", found.Title, task.Title)
		}
	})

	t.Run("find non-existent task", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "non-existent")
		if !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		status := domain.StatusCompleted
		tasks, err := repo.FindAll(ctx, &status)
		if err != nil {
			t.Errorf("FindAll() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("FindAll(completed) returned %d tasks, want 0", len(tasks))
		}
	})
}

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

func newTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewMemory(t *testing.T) {
	storage := newTestStorage(t)

	if err := storage.Migrate(); err != nil {
		t.Errorf("Migrate() should be re-runnable, got %v", err)
	}
}

func TestTaskRepository_SaveAndFind(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	t.Run("round trip", func(t *testing.T) {
		task, _ := domain.NewTask("Find Me")
		task.Description = "details"
		task.DueDate = "2024-03-10"
		task.Priority = domain.PriorityHigh
		task.GitBranch = "feature/x"
		task.AddTag("work")

		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != task.Title || found.Description != "details" {
			t.Errorf("found = %+v", found)
		}
		if found.DueDate != "2024-03-10" || found.Priority != domain.PriorityHigh {
			t.Errorf("due/priority = %v/%v", found.DueDate, found.Priority)
		}
		if found.GitBranch != "feature/x" {
			t.Errorf("GitBranch = %v", found.GitBranch)
		}
		if len(found.Tags) != 1 || found.Tags[0] != "work" {
			t.Errorf("Tags = %v", found.Tags)
		}
		if found.CompletedAt != nil {
			t.Error("CompletedAt should be nil")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		task, _ := domain.NewTask("Twice")
		_ = repo.Save(ctx, task)
		if err := repo.Save(ctx, task); !errors.Is(err, domain.ErrDuplicateID) {
			t.Errorf("Save() duplicate error = %v", err)
		}
	})

	t.Run("find non-existent", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "non-existent-id")
		if err != domain.ErrTaskNotFound {
			t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskRepository_FindAll(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task1, _ := domain.NewTask("Task 1")
	task2, _ := domain.NewTask("Task 2")
	task3, _ := domain.NewTask("Task 3")
	task3.Complete()

	for _, task := range []*domain.Task{task1, task2, task3} {
		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	all, err := repo.FindAll(ctx, nil)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("FindAll() returned %d tasks, want 3", len(all))
	}

	completed := domain.StatusCompleted
	done, err := repo.FindAll(ctx, &completed)
	if err != nil {
		t.Fatalf("FindAll(completed) error = %v", err)
	}
	if len(done) != 1 || done[0].ID != task3.ID {
		t.Errorf("FindAll(completed) = %v", done)
	}
	if done[0].CompletedAt == nil {
		t.Error("completed task should keep CompletedAt")
	}
}

func TestTaskRepository_UpdateDelete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task, _ := domain.NewTask("Original")
	_ = repo.Save(ctx, task)

	task.Title = "Renamed"
	task.Complete()
	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := repo.FindByID(ctx, task.ID)
	if found.Title != "Renamed" || !found.IsCompleted() {
		t.Errorf("after update = %+v", found)
	}

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, task.ID); err != domain.ErrTaskNotFound {
		t.Errorf("second Delete() error = %v", err)
	}

	ghost, _ := domain.NewTask("Ghost")
	if err := repo.Update(ctx, ghost); err != domain.ErrTaskNotFound {
		t.Errorf("Update() unknown error = %v", err)
	}
}

func TestHabitRepository(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Habits()
	today := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	habit, _ := domain.NewHabit("Gym", domain.FrequencyCustom, []time.Weekday{time.Friday, time.Saturday})
	_ = habit.ToggleDay("2024-03-08", today)

	if err := repo.Save(ctx, habit); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, habit.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Frequency != domain.FrequencyCustom || len(found.Days) != 2 {
			t.Errorf("schedule = %v %v", found.Frequency, found.Days)
		}
		if found.Days[0] != time.Friday || found.Days[1] != time.Saturday {
			t.Errorf("Days = %v", found.Days)
		}
		if !found.CompletedOn("2024-03-08") || found.Streak != 1 {
			t.Errorf("checks = %v streak = %d", found.Checks, found.Streak)
		}
	})

	t.Run("update replaces checks", func(t *testing.T) {
		_ = habit.ToggleDay("2024-03-08", today)
		_ = habit.ToggleDay("2024-03-09", today)
		if err := repo.Update(ctx, habit); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		all, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("FindAll() = %d habits", len(all))
		}
		if all[0].CompletedOn("2024-03-08") || !all[0].CompletedOn("2024-03-09") {
			t.Errorf("checks = %v", all[0].Checks)
		}
	})

	t.Run("delete cascades", func(t *testing.T) {
		if err := repo.Delete(ctx, habit.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.FindByID(ctx, habit.ID); err != domain.ErrHabitNotFound {
			t.Errorf("FindByID() after delete error = %v", err)
		}
		if err := repo.Update(ctx, habit); err != domain.ErrHabitNotFound {
			t.Errorf("Update() after delete error = %v", err)
		}
	})
}

func TestNoteRepository(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Notes()

	older, _ := domain.NewNote("Older", "a", "x")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer, _ := domain.NewNote("Newer", "b", "")
	newer.Favorite = true

	for _, n := range []*domain.Note{older, newer} {
		if err := repo.Save(ctx, n); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 2 || all[0].Title != "Newer" {
		t.Fatalf("FindAll() order wrong: %v", all)
	}
	if !all[0].Favorite || all[1].Favorite {
		t.Errorf("favorite flags = %v %v", all[0].Favorite, all[1].Favorite)
	}
	if len(all[0].Tags) != 0 || len(all[1].Tags) != 1 {
		t.Errorf("tags = %v %v", all[0].Tags, all[1].Tags)
	}

	older.Content = "changed"
	if err := repo.Update(ctx, older); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	found, _ := repo.FindByID(ctx, older.ID)
	if found.Content != "changed" {
		t.Errorf("Content = %q", found.Content)
	}

	if err := repo.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, older.ID); err != domain.ErrNoteNotFound {
		t.Errorf("FindByID() after delete error = %v", err)
	}
}

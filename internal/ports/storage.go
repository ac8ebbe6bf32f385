// Package ports defines the interfaces (driven and driving ports)
// for the Tempo application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/tempo-cli/internal/domain"
)

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// Save persists a new task.
	Save(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll retrieves all tasks, optionally filtered by status.
	FindAll(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from storage.
	Delete(ctx context.Context, id string) error
}

// HabitRepository defines the interface for habit persistence, including
// the per-day check marks.
type HabitRepository interface {
	Save(ctx context.Context, habit *domain.Habit) error
	FindByID(ctx context.Context, id string) (*domain.Habit, error)
	FindAll(ctx context.Context) ([]*domain.Habit, error)
	Update(ctx context.Context, habit *domain.Habit) error
	Delete(ctx context.Context, id string) error
}

// NoteRepository defines the interface for note persistence.
type NoteRepository interface {
	Save(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	FindAll(ctx context.Context) ([]*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// Habits provides access to habit operations.
	Habits() HabitRepository

	// Notes provides access to note operations.
	Notes() NoteRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}

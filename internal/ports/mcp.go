package ports

import (
	"context"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider gives the MCP server access to the application.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// Dashboard returns the overview for the given day.
	Dashboard(ctx context.Context, today time.Time) (*domain.Dashboard, error)

	// ListTasks returns tasks matching filter.
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)

	// CreateTask adds a task. Empty dueDate and priority keep the defaults.
	CreateTask(ctx context.Context, title, description, dueDate, priority string) (*domain.Task, error)

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, id string) (*domain.Task, error)

	// ListHabits returns all habits.
	ListHabits(ctx context.Context) ([]*domain.Habit, error)

	// CheckHabit toggles a habit on date.
	CheckHabit(ctx context.Context, id, date string) (*domain.Habit, error)

	// CreateNote adds a note.
	CreateNote(ctx context.Context, title, content, tags string) (*domain.Note, error)

	// SearchNotes fuzzy-searches notes.
	SearchNotes(ctx context.Context, query string) ([]*domain.Note, error)
}

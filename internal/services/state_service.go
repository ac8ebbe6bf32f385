package services

import (
	"context"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// StateService implements the MCPStateProvider interface on top of the
// other services.
type StateService struct {
	tasks     *TaskService
	habits    *HabitService
	notes     *NoteService
	dashboard *DashboardService
}

// Ensure StateService implements ports.MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)

// NewStateService creates a new state service.
func NewStateService(tasks *TaskService, habits *HabitService, notes *NoteService, dashboard *DashboardService) *StateService {
	return &StateService{tasks: tasks, habits: habits, notes: notes, dashboard: dashboard}
}

// Dashboard implements ports.MCPStateProvider.
func (s *StateService) Dashboard(ctx context.Context, today time.Time) (*domain.Dashboard, error) {
	return s.dashboard.Summary(ctx, today)
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.ListTasks(ctx, ListTasksRequest{Filter: filter, Sort: domain.SortDueDate})
}

// CreateTask implements ports.MCPStateProvider.
func (s *StateService) CreateTask(ctx context.Context, title, description, dueDate, priority string) (*domain.Task, error) {
	return s.tasks.AddTask(ctx, AddTaskRequest{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
	})
}

// CompleteTask implements ports.MCPStateProvider.
func (s *StateService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.CompleteTask(ctx, id)
}

// ListHabits implements ports.MCPStateProvider.
func (s *StateService) ListHabits(ctx context.Context) ([]*domain.Habit, error) {
	return s.habits.ListHabits(ctx)
}

// CheckHabit implements ports.MCPStateProvider.
func (s *StateService) CheckHabit(ctx context.Context, id, date string) (*domain.Habit, error) {
	return s.habits.CheckHabit(ctx, id, date)
}

// CreateNote implements ports.MCPStateProvider.
func (s *StateService) CreateNote(ctx context.Context, title, content, tags string) (*domain.Note, error) {
	return s.notes.AddNote(ctx, title, content, tags)
}

// SearchNotes implements ports.MCPStateProvider.
func (s *StateService) SearchNotes(ctx context.Context, query string) ([]*domain.Note, error) {
	return s.notes.SearchNotes(ctx, query)
}

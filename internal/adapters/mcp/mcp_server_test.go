package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xvierd/tempo-cli/internal/domain"
)

var mcpToday = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	dashboard   *domain.Dashboard
	tasks       []*domain.Task
	habits      []*domain.Habit
	notes       []*domain.Note
	lastFilter  domain.TaskFilter
	lastCreated []string
	lastDate    string
	err         error
}

func (m *mockStateProvider) Dashboard(ctx context.Context, today time.Time) (*domain.Dashboard, error) {
	return m.dashboard, m.err
}

func (m *mockStateProvider) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	m.lastFilter = filter
	return m.tasks, m.err
}

func (m *mockStateProvider) CreateTask(ctx context.Context, title, description, dueDate, priority string) (*domain.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastCreated = []string{title, description, dueDate, priority}
	return domain.NewTask(title)
}

func (m *mockStateProvider) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			t.Complete()
			return t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockStateProvider) ListHabits(ctx context.Context) ([]*domain.Habit, error) {
	return m.habits, m.err
}

func (m *mockStateProvider) CheckHabit(ctx context.Context, id, date string) (*domain.Habit, error) {
	m.lastDate = date
	for _, h := range m.habits {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, domain.ErrHabitNotFound
}

func (m *mockStateProvider) CreateNote(ctx context.Context, title, content, tags string) (*domain.Note, error) {
	return domain.NewNote(title, content, tags)
}

func (m *mockStateProvider) SearchNotes(ctx context.Context, query string) ([]*domain.Note, error) {
	return m.notes, m.err
}

func newTestServer(mock *mockStateProvider) *Server {
	s := NewServer(mock, nil)
	s.now = func() time.Time { return mcpToday }
	return s
}

func withArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestNewServer(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, nil)

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}

	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider correctly")
	}

	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}

	if server.logger == nil {
		t.Error("NewServer() should default to a no-op logger")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(&mockStateProvider{}, nil)

	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_Stop(t *testing.T) {
	server := NewServer(&mockStateProvider{}, nil)

	// Stop before Start should not panic
	if err := server.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestServer_handleGetDashboard(t *testing.T) {
	task, _ := domain.NewTask("Write report")
	mock := &mockStateProvider{
		dashboard: &domain.Dashboard{
			Date:                 "2024-03-10",
			HabitsTotal:          2,
			HabitsCompletedToday: []string{"Read"},
			WeeklyProgress: []domain.HabitProgress{
				{HabitID: "h1", Title: "Read", Done: 3, Total: 7, Streak: 2},
			},
			TasksDueToday:  []*domain.Task{task},
			TasksTotal:     4,
			TasksCompleted: 1,
			NotesTotal:     5,
			NotesFavorite:  2,
		},
	}

	result, err := newTestServer(mock).handleGetDashboard(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetDashboard() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if got["completion_rate"] != float64(25) {
		t.Errorf("completion_rate = %v, want 25", got["completion_rate"])
	}
	if got["notes_favorite"] != float64(2) {
		t.Errorf("notes_favorite = %v, want 2", got["notes_favorite"])
	}
	due, _ := got["tasks_due_today"].([]interface{})
	if len(due) != 1 {
		t.Errorf("tasks_due_today has %d entries, want 1", len(due))
	}
}

func TestServer_handleGetDashboard_ProviderError(t *testing.T) {
	mock := &mockStateProvider{err: errors.New("boom")}

	if _, err := newTestServer(mock).handleGetDashboard(context.Background(), mcp.CallToolRequest{}); err == nil {
		t.Error("handleGetDashboard() should surface provider errors")
	}
}

func TestServer_handleListTasks(t *testing.T) {
	task1, _ := domain.NewTask("Task 1")
	task2, _ := domain.NewTask("Task 2")
	task2.Complete()

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantFilter domain.TaskFilter
	}{
		{name: "default filter", args: nil, wantFilter: domain.FilterAll},
		{name: "today", args: map[string]interface{}{"filter": "today"}, wantFilter: domain.FilterToday},
		{name: "completed", args: map[string]interface{}{"filter": "completed"}, wantFilter: domain.FilterCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockStateProvider{tasks: []*domain.Task{task1, task2}}

			result, err := newTestServer(mock).handleListTasks(context.Background(), withArgs(tt.args))
			if err != nil {
				t.Fatalf("handleListTasks() error = %v", err)
			}
			if mock.lastFilter != tt.wantFilter {
				t.Errorf("filter = %q, want %q", mock.lastFilter, tt.wantFilter)
			}

			var got []map[string]interface{}
			if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d tasks, want 2", len(got))
			}
			if got[1]["status"] != string(domain.StatusCompleted) {
				t.Errorf("second task status = %v, want completed", got[1]["status"])
			}
		})
	}
}

func TestServer_handleCreateTask(t *testing.T) {
	mock := &mockStateProvider{}
	request := withArgs(map[string]interface{}{
		"title":    "Ship release",
		"due_date": "2024-03-12",
		"priority": "High",
	})

	result, err := newTestServer(mock).handleCreateTask(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCreateTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleCreateTask() returned error result: %s", resultText(t, result))
	}

	want := []string{"Ship release", "", "2024-03-12", "High"}
	for i := range want {
		if mock.lastCreated[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, mock.lastCreated[i], want[i])
		}
	}
}

func TestServer_handleCreateTask_ProviderError(t *testing.T) {
	mock := &mockStateProvider{err: domain.ErrInvalidPriority}

	result, err := newTestServer(mock).handleCreateTask(context.Background(), withArgs(map[string]interface{}{"title": "x"}))
	if err != nil {
		t.Fatalf("handleCreateTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleCreateTask() should return error result when the provider fails")
	}
}

func TestServer_handleCompleteTask(t *testing.T) {
	task, _ := domain.NewTask("Finish")
	mock := &mockStateProvider{tasks: []*domain.Task{task}}
	server := newTestServer(mock)

	result, err := server.handleCompleteTask(context.Background(), withArgs(map[string]interface{}{"task_id": task.ID}))
	if err != nil {
		t.Fatalf("handleCompleteTask() error = %v", err)
	}
	if result.IsError {
		t.Errorf("handleCompleteTask() returned error result")
	}
	if !task.IsCompleted() {
		t.Error("task should be completed")
	}

	result, err = server.handleCompleteTask(context.Background(), withArgs(map[string]interface{}{"task_id": "missing"}))
	if err != nil {
		t.Fatalf("handleCompleteTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleCompleteTask() should return error result for unknown task")
	}
}

func TestServer_RequiredArguments(t *testing.T) {
	server := newTestServer(&mockStateProvider{})
	empty := withArgs(map[string]interface{}{})

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"create_task":   server.handleCreateTask,
		"complete_task": server.handleCompleteTask,
		"check_habit":   server.handleCheckHabit,
		"create_note":   server.handleCreateNote,
		"search_notes":  server.handleSearchNotes,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), empty)
			if err != nil {
				t.Fatalf("%s returned protocol error %v", name, err)
			}
			if !result.IsError {
				t.Errorf("%s should return error result for missing argument", name)
			}
		})
	}
}

func TestServer_handleListHabits(t *testing.T) {
	habit, _ := domain.NewHabit("Stretch", domain.FrequencyCustom, []time.Weekday{time.Sunday, time.Wednesday})
	mock := &mockStateProvider{habits: []*domain.Habit{habit}}

	result, err := newTestServer(mock).handleListHabits(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListHabits() error = %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d habits, want 1", len(got))
	}

	week, _ := got[0]["week"].([]interface{})
	if len(week) != domain.WindowDays {
		t.Fatalf("week has %d cells, want %d", len(week), domain.WindowDays)
	}
	last := week[len(week)-1].(map[string]interface{})
	if last["date"] != "2024-03-10" {
		t.Errorf("last cell date = %v, want 2024-03-10", last["date"])
	}
	// Monday is not scheduled for this habit.
	monday := week[0].(map[string]interface{})
	if monday["done"] != nil {
		t.Errorf("unscheduled cell done = %v, want null", monday["done"])
	}
	if got[0]["progress"] != "0/2" {
		t.Errorf("progress = %v, want 0/2", got[0]["progress"])
	}
}

func TestServer_handleCheckHabit(t *testing.T) {
	habit, _ := domain.NewHabit("Read", domain.FrequencyDaily, nil)
	mock := &mockStateProvider{habits: []*domain.Habit{habit}}

	request := withArgs(map[string]interface{}{"habit_id": habit.ID, "date": "2024-03-09"})
	result, err := newTestServer(mock).handleCheckHabit(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCheckHabit() error = %v", err)
	}
	if result.IsError {
		t.Errorf("handleCheckHabit() returned error result")
	}
	if mock.lastDate != "2024-03-09" {
		t.Errorf("date = %q, want 2024-03-09", mock.lastDate)
	}
}

func TestServer_handleCreateNote(t *testing.T) {
	request := withArgs(map[string]interface{}{
		"title":   "Idea",
		"content": "Use a cache",
		"tags":    "work, perf",
	})

	result, err := newTestServer(&mockStateProvider{}).handleCreateNote(context.Background(), request)
	if err != nil {
		t.Fatalf("handleCreateNote() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	tags, _ := got["tags"].([]interface{})
	if len(tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", got["tags"])
	}
}

func TestServer_handleSearchNotes(t *testing.T) {
	note, _ := domain.NewNote("Groceries", "milk, eggs", "")
	mock := &mockStateProvider{notes: []*domain.Note{note}}

	result, err := newTestServer(mock).handleSearchNotes(context.Background(), withArgs(map[string]interface{}{"query": "milk"}))
	if err != nil {
		t.Fatalf("handleSearchNotes() error = %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0]["title"] != "Groceries" {
		t.Errorf("unexpected search result %v", got)
	}
}

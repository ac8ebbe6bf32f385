// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	logger        *zap.Logger
	now           func() time.Time
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		stateProvider: stateProvider,
		logger:        logger,
		now:           time.Now,
	}

	s.server = server.NewMCPServer(
		"tempo",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_dashboard",
			mcp.WithDescription("Get today's overview: habits done, weekly habit progress, tasks due today, task completion rate and note counts"),
		),
		s.handleGetDashboard,
	)

	listTasksTool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List tasks, optionally filtered"),
		mcp.WithString(
			"filter",
			mcp.Description("all (default), today (pending and due today) or completed"),
			mcp.Enum("all", "today", "completed"),
		),
	)
	s.server.AddTool(listTasksTool, s.handleListTasks)

	createTaskTool := mcp.NewTool(
		"create_task",
		mcp.WithDescription("Create a new task"),
		mcp.WithString(
			"title",
			mcp.Required(),
			mcp.Description("The title of the task"),
		),
		mcp.WithString(
			"description",
			mcp.Description("Optional description of the task"),
		),
		mcp.WithString(
			"due_date",
			mcp.Description("Due date as YYYY-MM-DD (default: today)"),
		),
		mcp.WithString(
			"priority",
			mcp.Description("Task priority (default: Medium)"),
			mcp.Enum("Low", "Medium", "High"),
		),
	)
	s.server.AddTool(createTaskTool, s.handleCreateTask)

	completeTaskTool := mcp.NewTool(
		"complete_task",
		mcp.WithDescription("Mark a task as completed"),
		mcp.WithString(
			"task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to complete"),
		),
	)
	s.server.AddTool(completeTaskTool, s.handleCompleteTask)

	s.server.AddTool(
		mcp.NewTool(
			"list_habits",
			mcp.WithDescription("List habits with their last-7-day grid and streak"),
		),
		s.handleListHabits,
	)

	checkHabitTool := mcp.NewTool(
		"check_habit",
		mcp.WithDescription("Toggle a habit as done or not done for a day within the last 7 days"),
		mcp.WithString(
			"habit_id",
			mcp.Required(),
			mcp.Description("The ID of the habit"),
		),
		mcp.WithString(
			"date",
			mcp.Description("Day as YYYY-MM-DD (default: today)"),
		),
	)
	s.server.AddTool(checkHabitTool, s.handleCheckHabit)

	createNoteTool := mcp.NewTool(
		"create_note",
		mcp.WithDescription("Create a new note"),
		mcp.WithString(
			"title",
			mcp.Required(),
			mcp.Description("The title of the note"),
		),
		mcp.WithString(
			"content",
			mcp.Description("The body of the note"),
		),
		mcp.WithString(
			"tags",
			mcp.Description("Comma-separated tags"),
		),
	)
	s.server.AddTool(createNoteTool, s.handleCreateNote)

	searchNotesTool := mcp.NewTool(
		"search_notes",
		mcp.WithDescription("Fuzzy search notes by title, content and tags"),
		mcp.WithString(
			"query",
			mcp.Required(),
			mcp.Description("Search text"),
		),
	)
	s.server.AddTool(searchNotesTool, s.handleSearchNotes)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("mcp server starting")

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.stateProvider.Dashboard(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}

	progress := make([]map[string]interface{}, 0, len(d.WeeklyProgress))
	for _, p := range d.WeeklyProgress {
		progress = append(progress, map[string]interface{}{
			"habit_id": p.HabitID,
			"title":    p.Title,
			"done":     p.Done,
			"total":    p.Total,
			"streak":   p.Streak,
		})
	}

	due := make([]map[string]interface{}, 0, len(d.TasksDueToday))
	for _, t := range d.TasksDueToday {
		due = append(due, taskMap(t))
	}

	result := map[string]interface{}{
		"date":                   d.Date,
		"habits_total":           d.HabitsTotal,
		"habits_completed_today": d.HabitsCompletedToday,
		"weekly_progress":        progress,
		"tasks_due_today":        due,
		"tasks_total":            d.TasksTotal,
		"tasks_completed":        d.TasksCompleted,
		"completion_rate":        d.CompletionRate(),
		"notes_total":            d.NotesTotal,
		"notes_favorite":         d.NotesFavorite,
	}

	return jsonResult(result)
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := domain.TaskFilter(request.GetString("filter", string(domain.FilterAll)))

	tasks, err := s.stateProvider.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, taskMap(task))
	}

	return jsonResult(result)
}

func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	task, err := s.stateProvider.CreateTask(ctx,
		title,
		request.GetString("description", ""),
		request.GetString("due_date", ""),
		request.GetString("priority", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create task: %v", err)), nil
	}

	s.logger.Debug("task created via mcp", zap.String("task_id", task.ID))
	return jsonResult(taskMap(task))
}

func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	task, err := s.stateProvider.CompleteTask(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}

	return jsonResult(taskMap(task))
}

func (s *Server) handleListHabits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	habits, err := s.stateProvider.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	today := s.now()
	result := make([]map[string]interface{}, 0, len(habits))
	for _, h := range habits {
		result = append(result, habitMap(h, today))
	}

	return jsonResult(result)
}

func (s *Server) handleCheckHabit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	habitID, err := request.RequireString("habit_id")
	if err != nil {
		return mcp.NewToolResultError("habit_id is required: " + err.Error()), nil
	}

	habit, err := s.stateProvider.CheckHabit(ctx, habitID, request.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to check habit: %v", err)), nil
	}

	return jsonResult(habitMap(habit, s.now()))
}

func (s *Server) handleCreateNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	note, err := s.stateProvider.CreateNote(ctx,
		title,
		request.GetString("content", ""),
		request.GetString("tags", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
	}

	return jsonResult(noteMap(note))
}

func (s *Server) handleSearchNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required: " + err.Error()), nil
	}

	notes, err := s.stateProvider.SearchNotes(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}

	result := make([]map[string]interface{}, 0, len(notes))
	for _, n := range notes {
		result = append(result, noteMap(n))
	}

	return jsonResult(result)
}

func taskMap(task *domain.Task) map[string]interface{} {
	m := map[string]interface{}{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"due_date":    task.DueDate,
		"priority":    string(task.Priority),
		"status":      string(task.Status),
		"tags":        task.Tags,
	}
	if task.GitBranch != "" {
		m["git_branch"] = task.GitBranch
	}
	return m
}

func habitMap(h *domain.Habit, today time.Time) map[string]interface{} {
	days := make([]string, len(h.Days))
	for i, d := range h.Days {
		days[i] = d.String()
	}

	grid := make([]map[string]interface{}, 0, domain.WindowDays)
	for _, cell := range h.WeekGrid(today) {
		entry := map[string]interface{}{
			"date":    cell.Date,
			"weekday": cell.Weekday.String(),
			"done":    nil,
		}
		if cell.Scheduled {
			entry["done"] = cell.Done
		}
		grid = append(grid, entry)
	}

	done, total := h.WeeklyProgress(today)
	return map[string]interface{}{
		"id":        h.ID,
		"title":     h.Title,
		"frequency": string(h.Frequency),
		"days":      days,
		"streak":    h.Streak,
		"week":      grid,
		"progress":  fmt.Sprintf("%d/%d", done, total),
	}
}

func noteMap(n *domain.Note) map[string]interface{} {
	return map[string]interface{}{
		"id":         n.ID,
		"title":      n.Title,
		"content":    n.Content,
		"tags":       n.Tags,
		"favorite":   n.Favorite,
		"created_at": n.CreatedAt.Format("2006-01-02T15:04:05"),
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

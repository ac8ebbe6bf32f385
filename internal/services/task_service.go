// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// TaskService handles task-related use cases.
type TaskService struct {
	storage     ports.Storage
	gitDetector ports.GitDetector
	now         func() time.Time
}

// NewTaskService creates a new task service. gitDetector may be nil.
func NewTaskService(storage ports.Storage, gitDetector ports.GitDetector) *TaskService {
	return &TaskService{storage: storage, gitDetector: gitDetector, now: time.Now}
}

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Tags        []string
	WorkingDir  string
}

// AddTask creates a new task. Empty DueDate means today and empty Priority
// means Medium. The git branch of WorkingDir is recorded when there is one.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(req.Title)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	task.Description = strings.TrimSpace(req.Description)
	task.DueDate = domain.Today(s.now())
	if req.DueDate != "" {
		if err := task.SetDueDate(req.DueDate); err != nil {
			return nil, fmt.Errorf("invalid task: %w", err)
		}
	}
	if req.Priority != "" {
		p, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return nil, fmt.Errorf("invalid task: %w", err)
		}
		task.Priority = p
	}
	for _, tag := range req.Tags {
		task.AddTag(tag)
	}

	if s.gitDetector != nil {
		if info, err := s.gitDetector.Detect(ctx, req.WorkingDir); err == nil && info != nil {
			task.GitBranch = info.Branch
		}
	}

	if err := s.storage.Tasks().Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// UpdateTaskRequest holds the fields to change. Nil fields are left alone.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Tags        *string
}

// UpdateTask edits an existing task.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.storage.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if req.Title != nil {
		if err := task.Rename(*req.Title); err != nil {
			return nil, fmt.Errorf("invalid task: %w", err)
		}
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.DueDate != nil {
		if err := task.SetDueDate(*req.DueDate); err != nil {
			return nil, fmt.Errorf("invalid task: %w", err)
		}
	}
	if req.Priority != nil {
		p, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return nil, fmt.Errorf("invalid task: %w", err)
		}
		task.Priority = p
	}
	if req.Tags != nil {
		task.Tags = domain.ParseTags(*req.Tags)
	}

	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	Filter domain.TaskFilter
	Sort   domain.TaskSort
}

// ListTasks retrieves tasks based on filters.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	tasks, err := s.storage.Tasks().FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks = domain.FilterTasks(tasks, req.Filter, domain.Today(s.now()))
	domain.SortTasks(tasks, req.Sort)
	return tasks, nil
}

// GroupTasks buckets every task into Today, Upcoming and Completed.
func (s *TaskService) GroupTasks(ctx context.Context) (domain.TaskGroups, error) {
	tasks, err := s.storage.Tasks().FindAll(ctx, nil)
	if err != nil {
		return domain.TaskGroups{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return domain.GroupTasks(tasks, domain.Today(s.now())), nil
}

// GetTask retrieves a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.storage.Tasks().FindByID(ctx, id)
}

// CompleteTask marks a task as completed.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.storage.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Complete()
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.storage.Tasks().Delete(ctx, id)
}

// Package domain contains the core entities for Tempo: tasks, habits, notes
// and the interval timer state. Nothing here depends on storage or UI.
package domain

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for due dates and habit checks.
const DateLayout = "2006-01-02"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority validates a priority name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

// Rank returns the index of p in Priorities, or -1.
func (p Priority) Rank() int {
	for i, candidate := range Priorities {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Task represents a unit of work with a due date.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Priority    Priority
	Status      TaskStatus
	Tags        []string
	GitBranch   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewTask creates a pending, medium-priority task due today.
func NewTask(title string) (*Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Task{
		ID:        generateID(),
		Title:     strings.TrimSpace(title),
		DueDate:   Today(now),
		Priority:  PriorityMedium,
		Status:    StatusPending,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// SetDueDate validates and stores a YYYY-MM-DD due date.
func (t *Task) SetDueDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDueDate
	}
	t.DueDate = date
	t.UpdatedAt = time.Now()
	return nil
}

// Rename changes the title.
func (t *Task) Rename(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	t.Title = strings.TrimSpace(title)
	t.UpdatedAt = time.Now()
	return nil
}

// Complete marks the task as completed.
func (t *Task) Complete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Reopen moves a completed task back to pending.
func (t *Task) Reopen() {
	t.Status = StatusPending
	t.CompletedAt = nil
	t.UpdatedAt = time.Now()
}

// AddTag adds a tag to the task.
func (t *Task) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, existing := range t.Tags {
		if existing == tag {
			return
		}
	}
	t.Tags = append(t.Tags, tag)
	t.UpdatedAt = time.Now()
}

// IsCompleted returns true once the task is done.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsDueOn reports whether the task is due on the given day.
func (t *Task) IsDueOn(day string) bool {
	return t.DueDate == day
}

// TaskFilter selects which tasks a listing shows.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterToday     TaskFilter = "today"
	FilterCompleted TaskFilter = "completed"
)

// TaskSort orders a listing.
type TaskSort string

const (
	SortDueDate  TaskSort = "dueDate"
	SortPriority TaskSort = "priority"
)

// FilterTasks returns the tasks matching f. Unknown filters behave like FilterAll.
func FilterTasks(tasks []*Task, f TaskFilter, today string) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterToday:
			if t.IsDueOn(today) && !t.IsCompleted() {
				out = append(out, t)
			}
		case FilterCompleted:
			if t.IsCompleted() {
				out = append(out, t)
			}
		default:
			out = append(out, t)
		}
	}
	return out
}

// SortTasks orders tasks in place. Due dates sort ascending, priorities High first.
func SortTasks(tasks []*Task, s TaskSort) {
	switch s {
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	case SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].DueDate < tasks[j].DueDate
		})
	}
}

// TaskGroups buckets tasks for the dashboard.
type TaskGroups struct {
	Today     []*Task
	Upcoming  []*Task
	Completed []*Task
}

// GroupTasks buckets tasks relative to today. Overdue pending tasks belong to no group.
func GroupTasks(tasks []*Task, today string) TaskGroups {
	var g TaskGroups
	for _, t := range tasks {
		switch {
		case t.IsCompleted():
			g.Completed = append(g.Completed, t)
		case t.DueDate == today:
			g.Today = append(g.Today, t)
		case t.DueDate > today:
			g.Upcoming = append(g.Upcoming, t)
		}
	}
	return g
}

// Today returns the calendar day of now in DateLayout.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ParseTags splits comma-separated input, trimming and dropping empties.
func ParseTags(input string) []string {
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

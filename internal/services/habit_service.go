package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// HabitService handles habit tracking use cases.
type HabitService struct {
	storage ports.Storage
	now     func() time.Time
}

// NewHabitService creates a new habit service.
func NewHabitService(storage ports.Storage) *HabitService {
	return &HabitService{storage: storage, now: time.Now}
}

// HabitRequest describes a habit's title and schedule.
type HabitRequest struct {
	Title     string
	Frequency domain.Frequency
	Days      []time.Weekday
}

// AddHabit creates a new habit.
func (s *HabitService) AddHabit(ctx context.Context, req HabitRequest) (*domain.Habit, error) {
	habit, err := domain.NewHabit(req.Title, req.Frequency, req.Days)
	if err != nil {
		return nil, fmt.Errorf("invalid habit: %w", err)
	}

	if err := s.storage.Habits().Save(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to save habit: %w", err)
	}
	return habit, nil
}

// UpdateHabit replaces a habit's title and schedule, keeping its checks.
func (s *HabitService) UpdateHabit(ctx context.Context, id string, req HabitRequest) (*domain.Habit, error) {
	habit, err := s.storage.Habits().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}

	if err := habit.Update(req.Title, req.Frequency, req.Days); err != nil {
		return nil, fmt.Errorf("invalid habit: %w", err)
	}

	if err := s.storage.Habits().Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// DeleteHabit removes a habit and its history.
func (s *HabitService) DeleteHabit(ctx context.Context, id string) error {
	return s.storage.Habits().Delete(ctx, id)
}

// GetHabit retrieves a single habit by ID.
func (s *HabitService) GetHabit(ctx context.Context, id string) (*domain.Habit, error) {
	return s.storage.Habits().FindByID(ctx, id)
}

// ListHabits returns all habits, oldest first.
func (s *HabitService) ListHabits(ctx context.Context) ([]*domain.Habit, error) {
	habits, err := s.storage.Habits().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

// CheckHabit toggles the habit on date (YYYY-MM-DD, empty for today).
func (s *HabitService) CheckHabit(ctx context.Context, id, date string) (*domain.Habit, error) {
	habit, err := s.storage.Habits().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}

	now := s.now()
	if date == "" {
		date = domain.Today(now)
	}
	if err := habit.ToggleDay(date, now); err != nil {
		return nil, fmt.Errorf("cannot check habit on %s: %w", date, err)
	}

	if err := s.storage.Habits().Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// Today returns the service's current time, for rendering week grids.
func (s *HabitService) Today() time.Time {
	return s.now()
}

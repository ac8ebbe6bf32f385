package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// DashboardService aggregates tasks, habits and notes into one overview.
type DashboardService struct {
	storage ports.Storage
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(storage ports.Storage) *DashboardService {
	return &DashboardService{storage: storage}
}

// Summary loads all three collections concurrently and summarizes them for today.
func (s *DashboardService) Summary(ctx context.Context, today time.Time) (*domain.Dashboard, error) {
	var (
		tasks  []*domain.Task
		habits []*domain.Habit
		notes  []*domain.Note
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.storage.Tasks().FindAll(gctx, nil)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		habits, err = s.storage.Habits().FindAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load habits: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		notes, err = s.storage.Notes().FindAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load notes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	date := domain.Today(today)
	d := &domain.Dashboard{
		Date:                 date,
		HabitsTotal:          len(habits),
		HabitsCompletedToday: []string{},
		WeeklyProgress:       make([]domain.HabitProgress, 0, len(habits)),
		TasksDueToday:        []*domain.Task{},
		TasksTotal:           len(tasks),
		NotesTotal:           len(notes),
	}

	for _, h := range habits {
		if h.CompletedOn(date) {
			d.HabitsCompletedToday = append(d.HabitsCompletedToday, h.Title)
		}
		done, total := h.WeeklyProgress(today)
		d.WeeklyProgress = append(d.WeeklyProgress, domain.HabitProgress{
			HabitID: h.ID,
			Title:   h.Title,
			Done:    done,
			Total:   total,
			Streak:  h.Streak,
		})
	}

	for _, t := range tasks {
		if t.IsCompleted() {
			d.TasksCompleted++
			continue
		}
		if t.IsDueOn(date) {
			d.TasksDueToday = append(d.TasksDueToday, t)
		}
	}

	for _, n := range notes {
		if n.Favorite {
			d.NotesFavorite++
		}
	}

	return d, nil
}

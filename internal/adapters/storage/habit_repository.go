package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// habitRepository implements ports.HabitRepository using SQLite. Check marks
// live in habit_checks, one row per done day.
type habitRepository struct {
	db *sql.DB
}

func newHabitRepository(db *sql.DB) ports.HabitRepository {
	return &habitRepository{db: db}
}

// Save persists a habit and its checks.
func (r *habitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO habits (id, title, frequency, days, streak, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, habit.ID, habit.Title, string(habit.Frequency), encodeDays(habit.Days), habit.Streak, habit.CreatedAt)
	if isUniqueConstraintError(err) {
		return domain.ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}

	if err := writeChecks(ctx, tx, habit); err != nil {
		return err
	}

	return tx.Commit()
}

// FindByID retrieves a habit with its checks.
func (r *habitRepository) FindByID(ctx context.Context, id string) (*domain.Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, frequency, days, streak, created_at FROM habits WHERE id = ?
	`, id)

	habit, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrHabitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}

	if err := r.loadChecks(ctx, map[string]*domain.Habit{habit.ID: habit}); err != nil {
		return nil, err
	}

	return habit, nil
}

// FindAll retrieves every habit, oldest first.
func (r *habitRepository) FindAll(ctx context.Context) ([]*domain.Habit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, frequency, days, streak, created_at FROM habits ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}

	habits := []*domain.Habit{}
	byID := make(map[string]*domain.Habit)
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
		byID[habit.ID] = habit
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}

	if err := r.loadChecks(ctx, byID); err != nil {
		return nil, err
	}

	return habits, nil
}

// Update rewrites the habit row and replaces its checks.
func (r *habitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE habits SET title = ?, frequency = ?, days = ?, streak = ? WHERE id = ?
	`, habit.Title, string(habit.Frequency), encodeDays(habit.Days), habit.Streak, habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrHabitNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_checks WHERE habit_id = ?`, habit.ID); err != nil {
		return fmt.Errorf("failed to clear habit checks: %w", err)
	}
	if err := writeChecks(ctx, tx, habit); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a habit. Its checks cascade.
func (r *habitRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrHabitNotFound
	}

	return nil
}

func (r *habitRepository) loadChecks(ctx context.Context, byID map[string]*domain.Habit) error {
	if len(byID) == 0 {
		return nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT habit_id, day, done FROM habit_checks`)
	if err != nil {
		return fmt.Errorf("failed to query habit checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var habitID, day string
		var done bool
		if err := rows.Scan(&habitID, &day, &done); err != nil {
			return fmt.Errorf("failed to scan habit check: %w", err)
		}
		if habit, ok := byID[habitID]; ok && done {
			habit.Checks[day] = true
		}
	}

	return rows.Err()
}

func writeChecks(ctx context.Context, tx *sql.Tx, habit *domain.Habit) error {
	for day, done := range habit.Checks {
		if !done {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO habit_checks (habit_id, day, done) VALUES (?, ?, 1)
		`, habit.ID, day); err != nil {
			return fmt.Errorf("failed to save habit check: %w", err)
		}
	}
	return nil
}

func scanHabit(row rowScanner) (*domain.Habit, error) {
	var habit domain.Habit
	var days string
	var createdAt time.Time

	if err := row.Scan(&habit.ID, &habit.Title, &habit.Frequency, &days, &habit.Streak, &createdAt); err != nil {
		return nil, err
	}

	habit.CreatedAt = createdAt
	habit.Days = decodeDays(days)
	habit.Checks = make(map[string]bool)
	return &habit, nil
}

func encodeDays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeDays(s string) []time.Weekday {
	var days []time.Weekday
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

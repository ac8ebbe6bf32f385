package domain

import "errors"

// Common domain errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrTaskNotFound      = errors.New("task not found")
	ErrHabitNotFound     = errors.New("habit not found")
	ErrNoteNotFound      = errors.New("note not found")
	ErrHabitTitleTooLong = errors.New("habit title must be 30 characters or fewer")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidDueDate    = errors.New("invalid due date")
	ErrNoHabitDays       = errors.New("custom habit needs at least one day")
	ErrDayNotScheduled   = errors.New("habit is not scheduled on that day")
	ErrDayOutOfWindow    = errors.New("day is outside the 7-day window")
	ErrDuplicateID       = errors.New("an entry with this id already exists")
)

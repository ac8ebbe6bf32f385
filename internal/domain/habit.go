package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxHabitTitleLength is the longest accepted habit title, in runes.
const MaxHabitTitleLength = 30

// WindowDays is the size of the habit tracking window.
const WindowDays = 7

// Frequency describes when a habit is scheduled.
type Frequency string

const (
	FrequencyDaily  Frequency = "Daily"
	FrequencyCustom Frequency = "Custom"
)

// ParseFrequency validates a frequency name, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return FrequencyDaily, nil
	case "custom":
		return FrequencyCustom, nil
	}
	return "", ErrInvalidFrequency
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeekdays parses a comma-separated list such as "mon,wed,fri".
// Full day names and 0-6 indices (Sunday first) are accepted too.
func ParseWeekdays(input string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range ParseTags(input) {
		part = strings.ToLower(part)
		var (
			day time.Weekday
			ok  bool
		)
		if len(part) == 1 && part[0] >= '0' && part[0] <= '6' {
			day, ok = time.Weekday(part[0]-'0'), true
		} else if len(part) >= 3 {
			day, ok = weekdayNames[part[:3]]
		}
		if !ok {
			return nil, ErrInvalidFrequency
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, nil
}

// Habit is a recurring activity tracked over the last seven days.
type Habit struct {
	ID        string
	Title     string
	Frequency Frequency
	Days      []time.Weekday
	Streak    int
	Checks    map[string]bool
	CreatedAt time.Time
}

// DayCell is one column of the habit week grid.
type DayCell struct {
	Date      string
	Weekday   time.Weekday
	Scheduled bool
	Done      bool
}

// NewHabit validates and creates a habit. Days are ignored for daily habits.
func NewHabit(title string, freq Frequency, days []time.Weekday) (*Habit, error) {
	h := &Habit{
		ID:        generateID(),
		Checks:    make(map[string]bool),
		CreatedAt: time.Now(),
	}
	if err := h.Update(title, freq, days); err != nil {
		return nil, err
	}
	return h, nil
}

// Update replaces the title and schedule. Existing checks are kept.
func (h *Habit) Update(title string, freq Frequency, days []time.Weekday) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxHabitTitleLength {
		return ErrHabitTitleTooLong
	}

	switch freq {
	case FrequencyDaily:
		days = nil
	case FrequencyCustom:
		if len(days) == 0 {
			return ErrNoHabitDays
		}
	default:
		return ErrInvalidFrequency
	}

	h.Title = title
	h.Frequency = freq
	h.Days = append([]time.Weekday(nil), days...)
	return nil
}

// ScheduledOn reports whether the habit is due on the given weekday.
func (h *Habit) ScheduledOn(day time.Weekday) bool {
	if h.Frequency == FrequencyDaily {
		return true
	}
	for _, d := range h.Days {
		if d == day {
			return true
		}
	}
	return false
}

// CompletedOn reports whether the habit was checked on date.
func (h *Habit) CompletedOn(date string) bool {
	return h.Checks[date]
}

// WeekGrid returns the last seven days ending today, oldest first.
func (h *Habit) WeekGrid(today time.Time) []DayCell {
	cells := make([]DayCell, WindowDays)
	for i := range cells {
		day := today.AddDate(0, 0, i-(WindowDays-1))
		date := day.Format(DateLayout)
		scheduled := h.ScheduledOn(day.Weekday())
		cells[i] = DayCell{
			Date:      date,
			Weekday:   day.Weekday(),
			Scheduled: scheduled,
			Done:      scheduled && h.Checks[date],
		}
	}
	return cells
}

// ToggleDay flips the check for date and recomputes the streak from that day back.
func (h *Habit) ToggleDay(date string, today time.Time) error {
	grid := h.WeekGrid(today)

	idx := -1
	for i, cell := range grid {
		if cell.Date == date {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrDayOutOfWindow
	}
	if !grid[idx].Scheduled {
		return ErrDayNotScheduled
	}

	if h.Checks == nil {
		h.Checks = make(map[string]bool)
	}
	done := !h.Checks[date]
	if done {
		h.Checks[date] = true
	} else {
		delete(h.Checks, date)
	}
	grid[idx].Done = done

	h.Streak = 0
	for i := idx; i >= 0 && grid[i].Done; i-- {
		h.Streak++
	}
	return nil
}

// WeeklyProgress returns checks done inside the window and the number possible.
func (h *Habit) WeeklyProgress(today time.Time) (done, total int) {
	for _, cell := range h.WeekGrid(today) {
		if cell.Done {
			done++
		}
	}
	if h.Frequency == FrequencyDaily {
		return done, WindowDays
	}
	return done, len(h.Days)
}

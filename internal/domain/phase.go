package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Phase is the mode of the interval timer.
type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

// Timing constants for the interval timer.
const (
	TickInterval        = time.Second
	CompletedFlashDelay = 1000 * time.Millisecond
	PhaseSwitchDelay    = 1200 * time.Millisecond
)

// Default durations in minutes.
const (
	DefaultFocusMinutes = 1
	DefaultBreakMinutes = 1
	MinDurationMinutes  = 1
)

// Label returns a human-readable label.
func (p Phase) Label() string {
	switch p {
	case PhaseFocus:
		return "Focus"
	case PhaseBreak:
		return "Break"
	default:
		return "Unknown"
	}
}

// Other returns the phase that follows p.
func (p Phase) Other() Phase {
	if p == PhaseFocus {
		return PhaseBreak
	}
	return PhaseFocus
}

// ParsePhase maps user input to a phase.
func ParsePhase(s string) (Phase, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focus", "work":
		return PhaseFocus, true
	case "break", "rest":
		return PhaseBreak, true
	}
	return "", false
}

// DurationSettings holds the configured length of each phase, in seconds.
type DurationSettings struct {
	FocusSeconds int
	BreakSeconds int
}

// DefaultDurationSettings returns the out-of-the-box durations.
func DefaultDurationSettings() DurationSettings {
	return NewDurationSettings(DefaultFocusMinutes, DefaultBreakMinutes)
}

// NewDurationSettings builds settings from minutes, clamping each to the minimum.
func NewDurationSettings(focusMinutes, breakMinutes int) DurationSettings {
	return DurationSettings{
		FocusSeconds: ClampMinutes(focusMinutes) * 60,
		BreakSeconds: ClampMinutes(breakMinutes) * 60,
	}
}

// For returns the duration in seconds for the given phase.
func (d DurationSettings) For(p Phase) int {
	if p == PhaseBreak {
		return d.BreakSeconds
	}
	return d.FocusSeconds
}

// With returns a copy with the phase set to minutes (clamped).
func (d DurationSettings) With(p Phase, minutes int) DurationSettings {
	secs := ClampMinutes(minutes) * 60
	if p == PhaseBreak {
		d.BreakSeconds = secs
	} else {
		d.FocusSeconds = secs
	}
	return d
}

// Minutes returns the whole-minute value for the phase.
func (d DurationSettings) Minutes(p Phase) int {
	return d.For(p) / 60
}

// ClampMinutes keeps a duration between one minute and math.MaxInt32 minutes.
func ClampMinutes(minutes int) int {
	if minutes < MinDurationMinutes {
		return MinDurationMinutes
	}
	if minutes > math.MaxInt32 {
		return math.MaxInt32
	}
	return minutes
}

// ParseMinutes coerces raw user input into a valid minute count.
// Anything that is not a finite number of at least one minute becomes 1.
// Fractions are floored.
func ParseMinutes(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return MinDurationMinutes
	}
	if v < MinDurationMinutes {
		return MinDurationMinutes
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(v))
}

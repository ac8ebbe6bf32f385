package domain

import "fmt"

// IntervalState is a point-in-time view of the interval timer.
type IntervalState struct {
	Phase            Phase
	SecondsRemaining int
	Running          bool
	Cycles           int
	Completed        bool
	Durations        DurationSettings
}

// PhaseSeconds returns the configured duration of the active phase.
func (s IntervalState) PhaseSeconds() int {
	return s.Durations.For(s.Phase)
}

// Progress returns the remaining fraction of the active phase (1.0 to 0.0).
func (s IntervalState) Progress() float64 {
	total := s.PhaseSeconds()
	if total <= 0 {
		return 0
	}
	p := float64(s.SecondsRemaining) / float64(total)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Transitioning reports whether the countdown hit zero and the phase switch is pending.
func (s IntervalState) Transitioning() bool {
	return s.SecondsRemaining == 0 && !s.Running
}

// Clock formats the remaining time as MM:SS.
func (s IntervalState) Clock() string {
	return FormatClock(s.SecondsRemaining)
}

// FormatClock formats seconds as zero-padded MM:SS. Minutes may exceed two digits.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

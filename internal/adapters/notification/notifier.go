// Package notification provides the desktop completion cue.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/tempo-cli/internal/config"
	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// Notifier beeps and shows a desktop notification when a phase finishes.
type Notifier struct {
	cfg    config.NotificationConfig
	beep   func() error
	notify func(title, message string) error
}

// Ensure Notifier implements ports.CompletionCue.
var _ ports.CompletionCue = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg: cfg,
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// IsEnabled returns true if any cue is configured.
func (n *Notifier) IsEnabled() bool {
	return n.cfg.Enabled || n.cfg.Sound
}

// Play implements ports.CompletionCue. It gives up once ctx is done or the
// configured timeout passes; the platform call keeps running in the background.
func (n *Notifier) Play(ctx context.Context, phase domain.Phase) error {
	if !n.IsEnabled() {
		return nil
	}

	if timeout := time.Duration(n.cfg.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- n.play(phase)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("completion cue interrupted: %w", ctx.Err())
	}
}

func (n *Notifier) play(phase domain.Phase) error {
	var errs []error
	if n.cfg.Sound {
		if err := n.beep(); err != nil {
			errs = append(errs, fmt.Errorf("failed to beep: %w", err))
		}
	}
	if n.cfg.Enabled {
		title, message := Message(phase)
		if err := n.notify(title, message); err != nil {
			errs = append(errs, fmt.Errorf("failed to notify: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Message returns the notification text for a finished phase.
func Message(phase domain.Phase) (title, message string) {
	if phase == domain.PhaseBreak {
		return "☕ Break Over!", "Your break is complete. Ready to focus?"
	}
	return "⏱ Focus Complete!", "Great job! Time for a break."
}

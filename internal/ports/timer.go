package ports

import (
	"context"
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
)

// Clock schedules deferred callbacks. The focus controller never touches the
// time package directly so tests can drive it with a manual clock.
// This is a driven port (implemented by adapters).
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a callback scheduled with Clock.AfterFunc.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was stopped.
	Stop() bool
}

// CompletionCue signals the end of an interval phase to the user.
// This is a driven port (implemented by adapters).
type CompletionCue interface {
	// Play announces that phase has just finished.
	Play(ctx context.Context, phase domain.Phase) error
}

// Package clock provides implementations of ports.Clock: the wall clock
// used at runtime and a manual clock for deterministic tests.
package clock

import (
	"time"

	"github.com/xvierd/tempo-cli/internal/ports"
)

type systemClock struct{}

// System returns a clock backed by the time package.
func System() ports.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

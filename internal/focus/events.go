package focus

import (
	"time"

	"github.com/xvierd/tempo-cli/internal/domain"
)

// EventType identifies what changed in the controller.
type EventType string

const (
	EventTick         EventType = "tick"
	EventStateChange  EventType = "state_change"
	EventCompleted    EventType = "completed"
	EventPhaseSwitch  EventType = "phase_switch"
	EventFlashCleared EventType = "flash_cleared"
)

// Event is sent to subscribers after every state mutation.
type Event struct {
	Type  EventType
	State domain.IntervalState
	At    time.Time
}

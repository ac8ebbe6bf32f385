package focus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xvierd/tempo-cli/internal/adapters/clock"
	"github.com/xvierd/tempo-cli/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingCue struct {
	mu     sync.Mutex
	played []domain.Phase
	err    error
}

func (r *recordingCue) Play(_ context.Context, phase domain.Phase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, phase)
	return r.err
}

func (r *recordingCue) phases() []domain.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Phase(nil), r.played...)
}

var epoch = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestController(t *testing.T, focusMin, breakMin int, opts ...Option) (*Controller, *clock.Fake, *recordingCue) {
	t.Helper()
	fc := clock.NewFake(epoch)
	cue := &recordingCue{}
	opts = append([]Option{WithClock(fc), WithCue(cue)}, opts...)
	c := New(domain.NewDurationSettings(focusMin, breakMin), opts...)
	t.Cleanup(c.Close)
	return c, fc, cue
}

// finishFocus runs a one-minute focus phase down to zero.
func finishFocus(t *testing.T, c *Controller, fc *clock.Fake) {
	t.Helper()
	c.Start()
	fc.Advance(60 * time.Second)
	require.Equal(t, 0, c.Snapshot().SecondsRemaining)
}

func TestNew(t *testing.T) {
	t.Run("initial state", func(t *testing.T) {
		c, _, _ := newTestController(t, 25, 5)
		s := c.Snapshot()

		assert.Equal(t, domain.PhaseFocus, s.Phase)
		assert.Equal(t, 25*60, s.SecondsRemaining)
		assert.Equal(t, 5*60, s.Durations.BreakSeconds)
		assert.False(t, s.Running)
		assert.False(t, s.Completed)
		assert.Zero(t, s.Cycles)
	})

	t.Run("durations below one minute are raised", func(t *testing.T) {
		c := New(domain.DurationSettings{FocusSeconds: 0, BreakSeconds: -5}, WithClock(clock.NewFake(epoch)))
		defer c.Close()

		s := c.Snapshot()
		assert.Equal(t, 60, s.Durations.FocusSeconds)
		assert.Equal(t, 60, s.Durations.BreakSeconds)
		assert.Equal(t, 60, s.SecondsRemaining)
	})

	t.Run("defaults", func(t *testing.T) {
		c := New(domain.DefaultDurationSettings(), WithClock(clock.NewFake(epoch)))
		defer c.Close()

		assert.Equal(t, 60, c.Snapshot().SecondsRemaining)
	})
}

func TestController_StartTicks(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)

	c.Start()
	assert.True(t, c.Snapshot().Running)

	fc.Advance(time.Second)
	assert.Equal(t, 59, c.Snapshot().SecondsRemaining)

	fc.Advance(10 * time.Second)
	assert.Equal(t, 49, c.Snapshot().SecondsRemaining)

	c.Start()
	fc.Advance(time.Second)
	assert.Equal(t, 48, c.Snapshot().SecondsRemaining, "second Start must not add a tick")
}

func TestController_Pause(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)

	c.Start()
	fc.Advance(5 * time.Second)
	c.Pause()

	s := c.Snapshot()
	assert.False(t, s.Running)
	assert.Equal(t, 55, s.SecondsRemaining)

	fc.Advance(10 * time.Second)
	assert.Equal(t, 55, c.Snapshot().SecondsRemaining)
	assert.Zero(t, fc.Pending())

	c.Pause()
	assert.False(t, c.Snapshot().Running)
}

func TestController_StaleTickIgnored(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)

	c.Start()
	fc.Advance(500 * time.Millisecond)
	c.Pause()
	c.Start()
	fc.Advance(500 * time.Millisecond)
	assert.Equal(t, 60, c.Snapshot().SecondsRemaining)

	fc.Advance(500 * time.Millisecond)
	assert.Equal(t, 59, c.Snapshot().SecondsRemaining)
}

func TestController_FocusCompletion(t *testing.T) {
	c, fc, cue := newTestController(t, 1, 2)

	c.Start()
	fc.Advance(59 * time.Second)
	s := c.Snapshot()
	require.True(t, s.Running)
	require.Equal(t, 1, s.SecondsRemaining)

	fc.Advance(time.Second)
	s = c.Snapshot()
	assert.Equal(t, 0, s.SecondsRemaining)
	assert.False(t, s.Running)
	assert.True(t, s.Completed)
	assert.Equal(t, 1, s.Cycles, "cycle counts as soon as focus ends")
	assert.Equal(t, domain.PhaseFocus, s.Phase)
	assert.Equal(t, []domain.Phase{domain.PhaseFocus}, cue.phases())

	fc.Advance(time.Second)
	s = c.Snapshot()
	assert.False(t, s.Completed, "flash clears after one second")
	assert.Equal(t, domain.PhaseFocus, s.Phase)

	fc.Advance(200 * time.Millisecond)
	s = c.Snapshot()
	assert.Equal(t, domain.PhaseBreak, s.Phase)
	assert.Equal(t, 120, s.SecondsRemaining)
	assert.False(t, s.Running, "break does not start on its own")
	assert.Zero(t, fc.Pending())
}

func TestController_BreakCompletion(t *testing.T) {
	c, fc, cue := newTestController(t, 1, 1)

	finishFocus(t, c, fc)
	fc.Advance(1200 * time.Millisecond)
	require.Equal(t, domain.PhaseBreak, c.Snapshot().Phase)

	c.Start()
	fc.Advance(60 * time.Second)
	s := c.Snapshot()
	assert.Equal(t, 1, s.Cycles, "break does not count a cycle")
	assert.True(t, s.Completed)

	fc.Advance(1200 * time.Millisecond)
	s = c.Snapshot()
	assert.Equal(t, domain.PhaseFocus, s.Phase)
	assert.Equal(t, 60, s.SecondsRemaining)
	assert.False(t, s.Running)
	assert.Equal(t, []domain.Phase{domain.PhaseFocus, domain.PhaseBreak}, cue.phases())
}

func TestController_StartDuringTransitionIsNoop(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)

	finishFocus(t, c, fc)
	c.Start()
	assert.False(t, c.Snapshot().Running)

	fc.Advance(1200 * time.Millisecond)
	assert.Equal(t, domain.PhaseBreak, c.Snapshot().Phase)
}

func TestController_Reset(t *testing.T) {
	t.Run("restores current phase duration", func(t *testing.T) {
		c, fc, _ := newTestController(t, 3, 1)

		c.Start()
		fc.Advance(30 * time.Second)
		c.Reset()

		s := c.Snapshot()
		assert.False(t, s.Running)
		assert.Equal(t, 180, s.SecondsRemaining)
		assert.Zero(t, fc.Pending())
	})

	t.Run("cancels pending switch and flash", func(t *testing.T) {
		c, fc, _ := newTestController(t, 1, 1)

		finishFocus(t, c, fc)
		c.Reset()

		s := c.Snapshot()
		assert.Equal(t, domain.PhaseFocus, s.Phase)
		assert.Equal(t, 60, s.SecondsRemaining)
		assert.False(t, s.Completed)
		assert.Equal(t, 1, s.Cycles, "reset keeps the cycle count")

		fc.Advance(5 * time.Second)
		assert.Equal(t, domain.PhaseFocus, c.Snapshot().Phase)
		assert.Zero(t, fc.Pending())
	})
}

func TestController_SetDuration(t *testing.T) {
	t.Run("inactive phase still resets active countdown", func(t *testing.T) {
		c, fc, _ := newTestController(t, 2, 1)

		c.Start()
		fc.Advance(10 * time.Second)
		c.SetDuration(domain.PhaseBreak, 5)

		s := c.Snapshot()
		assert.False(t, s.Running)
		assert.Equal(t, 120, s.SecondsRemaining)
		assert.Equal(t, 300, s.Durations.BreakSeconds)

		fc.Advance(5 * time.Second)
		assert.Equal(t, 120, c.Snapshot().SecondsRemaining)
	})

	t.Run("unchanged value does nothing", func(t *testing.T) {
		c, fc, _ := newTestController(t, 1, 1)

		c.Start()
		fc.Advance(5 * time.Second)
		c.SetDuration(domain.PhaseFocus, 1)
		c.SetDuration(domain.PhaseFocus, 0)

		s := c.Snapshot()
		assert.True(t, s.Running)
		assert.Equal(t, 55, s.SecondsRemaining)
	})

	t.Run("pending switch survives a duration change", func(t *testing.T) {
		c, fc, _ := newTestController(t, 1, 1)

		finishFocus(t, c, fc)
		c.SetDuration(domain.PhaseBreak, 3)
		assert.Equal(t, 60, c.Snapshot().SecondsRemaining)

		fc.Advance(1200 * time.Millisecond)
		s := c.Snapshot()
		assert.Equal(t, domain.PhaseBreak, s.Phase)
		assert.Equal(t, 180, s.SecondsRemaining)
	})

	t.Run("start is ignored while a switch is pending after a duration change", func(t *testing.T) {
		c, fc, _ := newTestController(t, 1, 1)

		finishFocus(t, c, fc)
		c.SetDuration(domain.PhaseBreak, 3)
		c.Start()
		assert.False(t, c.Snapshot().Running)

		fc.Advance(1200 * time.Millisecond)
		s := c.Snapshot()
		assert.Equal(t, domain.PhaseBreak, s.Phase)
		assert.False(t, s.Running)
		assert.Equal(t, 180, s.SecondsRemaining)

		fc.Advance(3 * time.Second)
		assert.Equal(t, 180, c.Snapshot().SecondsRemaining)

		c.Start()
		assert.True(t, c.Snapshot().Running)
	})
}

func TestController_SetDurationInput(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"25", 25},
		{"2.7", 2},
		{"0", 1},
		{"-3", 1},
		{"", 1},
		{"abc", 1},
		{"NaN", 1},
		{"Inf", 1},
		{" 45 ", 45},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, _, _ := newTestController(t, 10, 10)

			c.SetDurationInput(domain.PhaseFocus, tt.raw)
			s := c.Snapshot()
			assert.Equal(t, tt.want*60, s.Durations.FocusSeconds)
			assert.Equal(t, tt.want*60, s.SecondsRemaining)
		})
	}
}

func TestController_CueFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c, fc, cue := newTestController(t, 1, 1, WithLogger(zap.New(core)))
	cue.err = errors.New("no audio device")

	finishFocus(t, c, fc)

	s := c.Snapshot()
	assert.True(t, s.Completed)
	assert.Equal(t, 1, s.Cycles)

	entries := logs.FilterMessage("completion cue failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "no audio device", entries[0].ContextMap()["error"])

	fc.Advance(1200 * time.Millisecond)
	assert.Equal(t, domain.PhaseBreak, c.Snapshot().Phase)
}

func TestController_Events(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)
	events := c.Subscribe(200)

	finishFocus(t, c, fc)
	fc.Advance(1200 * time.Millisecond)

	var types []EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}

	require.Len(t, types, 1+59+1+1+1)
	assert.Equal(t, EventStateChange, types[0])
	assert.Equal(t, EventTick, types[1])
	assert.Equal(t, EventCompleted, types[60])
	assert.Equal(t, EventFlashCleared, types[61])
	assert.Equal(t, EventPhaseSwitch, types[62])
}

func TestController_SlowSubscriberDoesNotBlock(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)
	events := c.Subscribe(1)

	c.Start()
	fc.Advance(10 * time.Second)

	assert.Len(t, events, 1)
	assert.Equal(t, 50, c.Snapshot().SecondsRemaining)
}

func TestController_Close(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)
	events := c.Subscribe(100)

	finishFocus(t, c, fc)
	c.Close()
	c.Close()

	assert.Zero(t, fc.Pending())

	for range events {
	}

	before := c.Snapshot()
	c.Start()
	c.Reset()
	c.SetDuration(domain.PhaseFocus, 9)
	fc.Advance(5 * time.Second)
	assert.Equal(t, before, c.Snapshot())

	late := c.Subscribe(1)
	_, open := <-late
	assert.False(t, open)
}

func TestController_CloseWithSystemClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(domain.DefaultDurationSettings(), WithCue(&recordingCue{}))
	events := c.Subscribe(10)
	c.Start()
	c.Close()

	for range events {
	}
	assert.False(t, c.Snapshot().Running)
}

func TestController_InvariantHoldsThroughCycles(t *testing.T) {
	c, fc, _ := newTestController(t, 1, 1)

	for i := 0; i < 4*62; i++ {
		s := c.Snapshot()
		if !s.Running && s.SecondsRemaining > 0 {
			c.Start()
		}
		fc.Advance(500 * time.Millisecond)

		s = c.Snapshot()
		require.GreaterOrEqual(t, s.SecondsRemaining, 0)
		require.LessOrEqual(t, s.SecondsRemaining, s.PhaseSeconds())
		if s.SecondsRemaining == 0 {
			require.False(t, s.Running)
		}
	}
	assert.GreaterOrEqual(t, c.Snapshot().Cycles, 1)
}

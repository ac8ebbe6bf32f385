// Package focus implements the Focus/Break interval timer. A Controller owns
// all timer state; hosts drive it with commands and render Snapshot.
package focus

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/xvierd/tempo-cli/internal/adapters/clock"
	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/ports"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for ticks and delayed callbacks.
func WithClock(c ports.Clock) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.clock = c
		}
	}
}

// WithCue sets what plays when a phase finishes.
func WithCue(cue ports.CompletionCue) Option {
	return func(ctrl *Controller) {
		ctrl.cue = cue
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(ctrl *Controller) {
		if logger != nil {
			ctrl.logger = logger
		}
	}
}

// scheduled is a cancellable deferred callback. gen is bumped on every
// cancel so a callback that already left the clock can tell it is stale.
type scheduled struct {
	timer ports.Timer
	gen   uint64
}

func (s *scheduled) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Controller is the interval timer state machine. It is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	clock  ports.Clock
	cue    ports.CompletionCue
	logger *zap.Logger

	state domain.IntervalState

	tick        scheduled
	flash       scheduled
	phaseSwitch scheduled

	subs     []chan Event
	closed   bool
	inflight sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates an idle controller in the Focus phase with the full focus
// duration remaining.
func New(settings domain.DurationSettings, opts ...Option) *Controller {
	settings = domain.DurationSettings{
		FocusSeconds: max(settings.FocusSeconds, domain.MinDurationMinutes*60),
		BreakSeconds: max(settings.BreakSeconds, domain.MinDurationMinutes*60),
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		clock:  clock.System(),
		logger: zap.NewNop(),
		ctx:    ctx,
		cancel: cancel,
		state: domain.IntervalState{
			Phase:            domain.PhaseFocus,
			SecondsRemaining: settings.FocusSeconds,
			Durations:        settings,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() domain.IntervalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that receives an Event after each change.
// Sends never block: events are dropped when the buffer is full.
// The channel is closed by Close.
func (c *Controller) Subscribe(buffer int) <-chan Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event, max(buffer, 0))
	if c.closed {
		close(ch)
		return ch
	}
	c.subs = append(c.subs, ch)
	return ch
}

// Start begins counting down. It does nothing while running or while a
// finished phase is waiting to switch.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Running || c.state.SecondsRemaining == 0 || c.phaseSwitch.timer != nil {
		return
	}

	c.state.Running = true
	c.armTick()
	c.logger.Debug("timer started",
		zap.String("phase", string(c.state.Phase)),
		zap.Int("remaining", c.state.SecondsRemaining))
	c.emit(EventStateChange)
}

// Pause stops the countdown, keeping the remaining time.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.state.Running {
		return
	}

	c.tick.cancel()
	c.state.Running = false
	c.logger.Debug("timer paused", zap.Int("remaining", c.state.SecondsRemaining))
	c.emit(EventStateChange)
}

// Reset stops the timer and restores the full duration of the current phase.
// A pending phase switch and completed flash are cancelled.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.tick.cancel()
	c.flash.cancel()
	c.phaseSwitch.cancel()

	c.state.Running = false
	c.state.Completed = false
	c.state.SecondsRemaining = c.state.PhaseSeconds()
	c.logger.Debug("timer reset", zap.String("phase", string(c.state.Phase)))
	c.emit(EventStateChange)
}

// SetDuration sets the length of phase in whole minutes, clamped to at least one.
// Any change stops the timer and reloads the active phase's duration.
func (c *Controller) SetDuration(phase domain.Phase, minutes int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	next := c.state.Durations.With(phase, minutes)
	if next == c.state.Durations {
		return
	}
	c.state.Durations = next

	c.tick.cancel()
	c.state.Running = false
	c.state.SecondsRemaining = c.state.PhaseSeconds()
	c.logger.Debug("duration changed",
		zap.String("phase", string(phase)),
		zap.Int("minutes", next.Minutes(phase)))
	c.emit(EventStateChange)
}

// SetDurationInput is SetDuration for raw user input. Invalid values become one minute.
func (c *Controller) SetDurationInput(phase domain.Phase, raw string) {
	c.SetDuration(phase, domain.ParseMinutes(raw))
}

// Close stops every pending callback and closes subscriber channels.
// It waits for a completion cue that is already playing. Safe to call twice.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.tick.cancel()
	c.flash.cancel()
	c.phaseSwitch.cancel()
	c.state.Running = false
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
	c.mu.Unlock()

	c.cancel()
	c.inflight.Wait()
}

func (c *Controller) armTick() {
	c.tick.cancel()
	gen := c.tick.gen
	c.tick.timer = c.clock.AfterFunc(domain.TickInterval, func() { c.onTick(gen) })
}

func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.tick.gen || !c.state.Running {
		c.mu.Unlock()
		return
	}
	c.tick.timer = nil

	if c.state.SecondsRemaining > 1 {
		c.state.SecondsRemaining--
		c.armTick()
		c.emit(EventTick)
		c.mu.Unlock()
		return
	}

	finished := c.complete()
	c.inflight.Add(1)
	c.mu.Unlock()

	defer c.inflight.Done()
	c.playCue(finished)
}

// complete handles the countdown reaching zero. Called with mu held.
func (c *Controller) complete() domain.Phase {
	finished := c.state.Phase

	c.tick.cancel()
	c.state.Running = false
	c.state.SecondsRemaining = 0
	c.state.Completed = true

	c.flash.cancel()
	flashGen := c.flash.gen
	c.flash.timer = c.clock.AfterFunc(domain.CompletedFlashDelay, func() { c.onFlashClear(flashGen) })

	if finished == domain.PhaseFocus {
		c.state.Cycles++
	}

	c.phaseSwitch.cancel()
	switchGen := c.phaseSwitch.gen
	next := finished.Other()
	c.phaseSwitch.timer = c.clock.AfterFunc(domain.PhaseSwitchDelay, func() { c.onSwitch(switchGen, next) })

	c.logger.Info("phase completed",
		zap.String("phase", string(finished)),
		zap.Int("cycles", c.state.Cycles))
	c.emit(EventCompleted)
	return finished
}

func (c *Controller) onFlashClear(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.flash.gen {
		return
	}
	c.flash.timer = nil
	c.state.Completed = false
	c.emit(EventFlashCleared)
}

func (c *Controller) onSwitch(gen uint64, next domain.Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.phaseSwitch.gen {
		return
	}
	c.phaseSwitch.timer = nil
	c.state.Phase = next
	c.state.SecondsRemaining = c.state.PhaseSeconds()
	c.logger.Debug("phase switched", zap.String("phase", string(next)))
	c.emit(EventPhaseSwitch)
}

func (c *Controller) playCue(phase domain.Phase) {
	if c.cue == nil {
		return
	}
	if err := c.cue.Play(c.ctx, phase); err != nil {
		c.logger.Warn("completion cue failed", zap.String("phase", string(phase)), zap.Error(err))
	}
}

// emit delivers an event to every subscriber without blocking. Called with mu held.
func (c *Controller) emit(t EventType) {
	ev := Event{Type: t, State: c.state, At: c.clock.Now()}
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

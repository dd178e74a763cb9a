// Package engine implements the focus/break timer state machine.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adibhanna/focuscup/internal/alert"
	"github.com/adibhanna/focuscup/internal/models"
)

// Options contains runtime dependencies for the Engine.
type Options struct {
	TotalSessions int
	Sink          alert.Sink
	Clock         Clock
	Logger        *slog.Logger
	TickInterval  time.Duration
	NewID         func() string
}

// schedule is the cancellable token for one run of the tick loop.
// A tick is applied only while its schedule is the engine's current one.
type schedule struct {
	ticker Ticker
	stop   chan struct{}
}

// Engine owns the timer state and drives the once-per-second countdown.
// All methods are safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	state    models.TimerState
	sched    *schedule
	clock    Clock
	sink     alert.Sink
	logger   *slog.Logger
	interval time.Duration
	newID    func() string
	total    int
	events   []chan Event
	closed   bool
	alerts   sync.WaitGroup
}

// New creates an Engine in the initial Focus state.
func New(options Options) *Engine {
	if options.TotalSessions <= 0 {
		options.TotalSessions = models.DefaultTotalSessions
	}
	if options.Sink == nil {
		options.Sink = alert.Nop
	}
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.NewID == nil {
		options.NewID = func() string { return uuid.New().String() }
	}

	return &Engine{
		state:    models.InitialState(options.TotalSessions),
		clock:    options.Clock,
		sink:     options.Sink,
		logger:   options.Logger,
		interval: options.TickInterval,
		newID:    options.NewID,
		total:    options.TotalSessions,
	}
}

// State returns a snapshot of the timer.
func (e *Engine) State() models.TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers a new observer channel. Events are dropped for
// observers that fall behind.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.events = append(e.events, ch)
	return ch
}

// Unsubscribe removes and closes an observer channel returned by Subscribe.
func (e *Engine) Unsubscribe(events <-chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, ch := range e.events {
		if ch == events {
			e.events = append(e.events[:i], e.events[i+1:]...)
			close(ch)
			return
		}
	}
}

// Start begins counting down the current phase.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.state.IsRunning {
		return
	}

	e.state.IsRunning = true
	s := &schedule{
		ticker: e.clock.NewTicker(e.interval),
		stop:   make(chan struct{}),
	}
	e.sched = s
	go e.run(s)

	e.logger.Debug("timer started", "phase", e.state.Phase, "remaining", e.state.SecondsRemaining)
	e.emitCommandLocked(CommandStart)
}

// Pause stops the countdown, keeping the remaining time.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.IsRunning {
		return
	}

	e.cancelLocked()
	e.state.IsRunning = false

	e.logger.Debug("timer paused", "phase", e.state.Phase, "remaining", e.state.SecondsRemaining)
	e.emitCommandLocked(CommandPause)
}

// Reset stops the countdown and refills the current phase.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelLocked()
	e.state.IsRunning = false
	e.state.SecondsRemaining = e.state.Phase.Duration()

	e.logger.Debug("timer reset", "phase", e.state.Phase)
	e.emitCommandLocked(CommandReset)
}

// ResetAll returns to the initial Focus state and clears the session count.
func (e *Engine) ResetAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelLocked()
	e.state = models.InitialState(e.total)

	e.logger.Debug("timer reset all")
	e.emitCommandLocked(CommandResetAll)
}

// SetTotalSessions changes the tracker size. Until the next ResetAll it
// never drops below the sessions already completed.
func (e *Engine) SetTotalSessions(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n <= 0 {
		n = models.DefaultTotalSessions
	}
	e.total = n
	e.state.TotalSessions = max(n, e.state.CompletedSessions)
}

// Tick advances the countdown by one second. It is a no-op while paused.
// The tick that brings the countdown to zero switches phase instead.
func (e *Engine) Tick() {
	e.mu.Lock()
	transition := e.tickLocked()
	if transition != nil {
		e.alerts.Add(1)
	}
	e.mu.Unlock()

	if transition != nil {
		e.dispatch(*transition)
	}
}

// Close cancels the schedule, closes observer channels and waits for
// in-flight alerts.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancelLocked()
	e.state.IsRunning = false
	events := e.events
	e.events = nil
	e.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	e.alerts.Wait()
}

func (e *Engine) run(s *schedule) {
	for {
		select {
		case <-s.stop:
			return
		case <-s.ticker.C():
			e.scheduledTick(s)
		}
	}
}

func (e *Engine) scheduledTick(s *schedule) {
	e.mu.Lock()
	if e.sched != s {
		e.mu.Unlock()
		return
	}
	transition := e.tickLocked()
	if transition != nil {
		e.alerts.Add(1)
	}
	e.mu.Unlock()

	if transition != nil {
		e.dispatch(*transition)
	}
}

func (e *Engine) tickLocked() *models.Transition {
	if !e.state.IsRunning {
		return nil
	}
	if e.state.SecondsRemaining > 1 {
		e.state.SecondsRemaining--
		e.emitLocked(Event{Type: EventTick, State: e.state, At: e.clock.Now()})
		return nil
	}
	return e.transitionLocked()
}

func (e *Engine) transitionLocked() *models.Transition {
	from := e.state.Phase
	if from == models.PhaseFocus {
		e.state.CompletedSessions = min(e.state.CompletedSessions+1, e.state.TotalSessions)
	}
	e.state.Phase = from.Next()
	e.state.SecondsRemaining = e.state.Phase.Duration()
	e.state.IsRunning = false
	e.cancelLocked()

	transition := models.NewTransition(e.newID(), from, e.state.CompletedSessions, e.clock.Now())
	e.logger.Info("phase complete",
		"id", transition.ID,
		"from", transition.From,
		"to", transition.To,
		"completed_sessions", transition.CompletedSessions,
	)
	e.emitLocked(Event{
		Type:       EventTransition,
		State:      e.state,
		Transition: &transition,
		At:         transition.At,
	})
	return &transition
}

func (e *Engine) cancelLocked() {
	if e.sched == nil {
		return
	}
	e.sched.ticker.Stop()
	close(e.sched.stop)
	e.sched = nil
}

// dispatch delivers the alert without blocking the caller. Failures and
// panics in the sink are logged and dropped. The caller has already
// registered the alert with e.alerts.
func (e *Engine) dispatch(transition models.Transition) {
	go func() {
		defer e.alerts.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Warn("alert sink panicked", "id", transition.ID, "error", fmt.Sprint(r))
			}
		}()
		if err := e.sink.Notify(transition.Message); err != nil {
			e.logger.Warn("alert delivery failed", "id", transition.ID, "error", err)
		}
	}()
}

func (e *Engine) emitCommandLocked(command string) {
	e.emitLocked(Event{
		Type:    EventCommand,
		State:   e.state,
		Command: command,
		At:      e.clock.Now(),
	})
}

func (e *Engine) emitLocked(event Event) {
	for _, ch := range e.events {
		select {
		case ch <- event:
		default:
		}
	}
}

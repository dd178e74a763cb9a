// Package alert delivers phase-boundary notifications to the user.
//
// The engine only sees the Sink interface. Delivery is best-effort: a sink
// may fail (no audio device, notification permission denied) and callers are
// expected to log and drop the error.
package alert

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

// ErrUnsupported indicates the platform has no way to deliver the alert.
var ErrUnsupported = errors.New("alert delivery unsupported")

// Sink receives a human-readable message at each phase transition.
type Sink interface {
	Notify(message string) error
}

// Func adapts a plain function to a Sink.
type Func func(message string) error

func (f Func) Notify(message string) error {
	return f(message)
}

// Nop discards every alert.
var Nop Sink = Func(func(string) error { return nil })

// Multi fans out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Notify(message string) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Notify(message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Toggle forwards to its sink only while enabled. Preferences edited at
// runtime flip it without rebuilding the engine.
type Toggle struct {
	sink    Sink
	enabled atomic.Bool
}

func NewToggle(sink Sink, enabled bool) *Toggle {
	t := &Toggle{sink: sink}
	t.enabled.Store(enabled)
	return t
}

func (t *Toggle) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

func (t *Toggle) Enabled() bool {
	return t.enabled.Load()
}

func (t *Toggle) Notify(message string) error {
	if !t.enabled.Load() {
		return nil
	}
	return t.sink.Notify(message)
}

// Tone of the phase-boundary beep.
const (
	BeepFrequency = 440.0 // Hz
	BeepDuration  = 200   // ms
)

// Beeper plays a tone of freq Hz for ms milliseconds.
type Beeper func(freq float64, ms int) error

// Bell plays a short tone through the speaker and falls back to the
// terminal bell when no tone device is available.
type Bell struct {
	mu   sync.Mutex
	w    io.Writer
	Beep Beeper
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w, Beep: beeep.Beep}
}

func (b *Bell) Notify(string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Beep != nil && b.Beep(BeepFrequency, BeepDuration) == nil {
		return nil
	}
	if _, err := io.WriteString(b.w, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

// Logger records alerts in the structured log.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) Logger {
	return Logger{logger: logger}
}

func (l Logger) Notify(message string) error {
	l.logger.Info("alert", "message", message)
	return nil
}

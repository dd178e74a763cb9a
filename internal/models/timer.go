package models

import (
	"fmt"
	"time"
)

// Phase is the interval currently counting down.
type Phase int

const (
	PhaseFocus Phase = iota
	PhaseBreak
)

const (
	FocusDuration        = 25 * 60 // in seconds
	BreakDuration        = 5 * 60  // in seconds
	DefaultTotalSessions = 4
)

const (
	FocusCompleteMessage = "Focus session complete! Time for a break."
	BreakCompleteMessage = "Break is over! Time to focus."
)

func (p Phase) String() string {
	switch p {
	case PhaseFocus:
		return "focus"
	case PhaseBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Duration returns the full length of the phase in seconds.
func (p Phase) Duration() int {
	if p == PhaseBreak {
		return BreakDuration
	}
	return FocusDuration
}

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	if p == PhaseFocus {
		return PhaseBreak
	}
	return PhaseFocus
}

// TimerState is a read-only snapshot of the engine.
type TimerState struct {
	Phase             Phase `json:"phase" yaml:"phase"`
	SecondsRemaining  int   `json:"seconds_remaining" yaml:"seconds_remaining"`
	IsRunning         bool  `json:"is_running" yaml:"is_running"`
	CompletedSessions int   `json:"completed_sessions" yaml:"completed_sessions"`
	TotalSessions     int   `json:"total_sessions" yaml:"total_sessions"`
}

// InitialState is the state at process start and after a full reset.
func InitialState(totalSessions int) TimerState {
	return TimerState{
		Phase:             PhaseFocus,
		SecondsRemaining:  FocusDuration,
		IsRunning:         false,
		CompletedSessions: 0,
		TotalSessions:     totalSessions,
	}
}

// FillPercentage is the cup level in [0, 100]. Focus fills the cup as time
// elapses, Break drains it.
func (s TimerState) FillPercentage() float64 {
	duration := float64(s.Phase.Duration())
	if s.Phase == PhaseBreak {
		return float64(s.SecondsRemaining) / duration * 100
	}
	return (duration - float64(s.SecondsRemaining)) / duration * 100
}

// Remaining returns SecondsRemaining as a time.Duration.
func (s TimerState) Remaining() time.Duration {
	return time.Duration(s.SecondsRemaining) * time.Second
}

// Clock formats the countdown as MM:SS.
func (s TimerState) Clock() string {
	return fmt.Sprintf("%02d:%02d", s.SecondsRemaining/60, s.SecondsRemaining%60)
}

// Transition describes one phase boundary.
type Transition struct {
	ID                string    `json:"id"`
	From              Phase     `json:"from"`
	To                Phase     `json:"to"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	CompletedSessions int       `json:"completed_sessions"`
	At                time.Time `json:"at"`
}

// NewTransition builds the transition leaving phase from.
func NewTransition(id string, from Phase, completedSessions int, at time.Time) Transition {
	t := Transition{
		ID:                id,
		From:              from,
		To:                from.Next(),
		CompletedSessions: completedSessions,
		At:                at,
	}
	if from == PhaseFocus {
		t.Title = "Coffee's ready!"
		t.Message = FocusCompleteMessage
	} else {
		t.Title = "Break's over"
		t.Message = BreakCompleteMessage
	}
	return t
}

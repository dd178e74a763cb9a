package engine

import (
	"time"

	"github.com/adibhanna/focuscup/internal/models"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventTick       EventType = "tick"
	EventTransition EventType = "transition"
	EventCommand    EventType = "command"
)

// Command names carried by EventCommand.
const (
	CommandStart    = "start"
	CommandPause    = "pause"
	CommandReset    = "reset"
	CommandResetAll = "reset_all"
)

// Event represents an engine update for observers.
type Event struct {
	Type       EventType
	State      models.TimerState
	Command    string
	Transition *models.Transition
	At         time.Time
}

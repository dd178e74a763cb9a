package models

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when preferences fail validation.
var ErrInvalidConfig = errors.New("invalid config")

const (
	MinTotalSessions = 1
	MaxTotalSessions = 12
)

type Config struct {
	TotalSessions        int  `yaml:"total_sessions"`        // Focus sessions per cycle shown in the tracker
	Sound                bool `yaml:"sound"`                 // Ring the terminal bell at phase boundaries
	DesktopNotifications bool `yaml:"desktop_notifications"` // Raise a system notification at phase boundaries
}

func DefaultConfig() Config {
	return Config{
		TotalSessions:        DefaultTotalSessions,
		Sound:                true,
		DesktopNotifications: true,
	}
}

// Validate reports whether the preferences are usable.
func (c Config) Validate() error {
	if c.TotalSessions < MinTotalSessions || c.TotalSessions > MaxTotalSessions {
		return fmt.Errorf("%w: total sessions must be between %d-%d", ErrInvalidConfig, MinTotalSessions, MaxTotalSessions)
	}
	return nil
}

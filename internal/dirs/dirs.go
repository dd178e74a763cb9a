// Package dirs locates focuscup's config and state directories following
// the XDG base directory layout.
package dirs

import (
	"os"
	"path/filepath"
)

const appName = "focuscup"

// Environment variables that pin a directory regardless of XDG settings.
const (
	EnvConfigDir = "FOCUSCUP_CONFIG_DIR"
	EnvStateDir  = "FOCUSCUP_STATE_DIR"
)

// location describes where one kind of directory may live, most specific
// source first.
type location struct {
	override string   // app-specific variable, used verbatim
	xdg      string   // XDG base variable, joined with appName
	fallback []string // path under the home directory
}

var (
	configLocation = location{
		override: EnvConfigDir,
		xdg:      "XDG_CONFIG_HOME",
		fallback: []string{".config"},
	}
	stateLocation = location{
		override: EnvStateDir,
		xdg:      "XDG_STATE_HOME",
		fallback: []string{".local", "state"},
	}
)

// resolve ignores relative XDG values; XDG only allows absolute paths.
func (l location) resolve() string {
	if dir := os.Getenv(l.override); dir != "" {
		return dir
	}
	if base := os.Getenv(l.xdg); filepath.IsAbs(base) {
		return filepath.Join(base, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	parts := append([]string{home}, l.fallback...)
	return filepath.Join(append(parts, appName)...)
}

// ConfigDir holds config.yaml.
func ConfigDir() string {
	return configLocation.resolve()
}

// StateDir holds runtime data such as logs.
func StateDir() string {
	return stateLocation.resolve()
}

func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

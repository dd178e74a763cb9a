package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adibhanna/focuscup/internal/dirs"
	"github.com/adibhanna/focuscup/internal/engine"
	"github.com/adibhanna/focuscup/internal/models"
	"github.com/adibhanna/focuscup/internal/storage"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntP("sessions", "n", models.DefaultTotalSessions, "")
	fs.Bool("no-sound", false, "")
	fs.Bool("no-notify", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func newStore(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    models.Config
		wantErr bool
	}{
		{
			name: "no flags keeps config",
			args: nil,
			want: models.Config{TotalSessions: 6, Sound: true, DesktopNotifications: true},
		},
		{
			name: "sessions",
			args: []string{"--sessions", "2"},
			want: models.Config{TotalSessions: 2, Sound: true, DesktopNotifications: true},
		},
		{
			name: "short sessions and mute",
			args: []string{"-n", "8", "--no-sound", "--no-notify"},
			want: models.Config{TotalSessions: 8},
		},
		{
			name:    "out of range",
			args:    []string{"--sessions", "40"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := models.Config{TotalSessions: 6, Sound: true, DesktopNotifications: true}
			err := applyFlags(&config, parseFlags(t, tc.args...))
			if tc.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, config)
		})
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveConfig(models.Config{TotalSessions: 5, Sound: true, DesktopNotifications: true}))

	t.Setenv(storage.EnvTotalSessions, "7")
	t.Setenv(storage.EnvSound, "false")

	config, err := loadConfig(store, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Config{TotalSessions: 7, Sound: false, DesktopNotifications: true}, config)

	config, err = loadConfig(store, parseFlags(t, "--sessions", "3", "--no-notify"))
	require.NoError(t, err)
	assert.Equal(t, models.Config{TotalSessions: 3, Sound: false, DesktopNotifications: false}, config)
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv(storage.EnvNotify, "sometimes")
	_, err := loadConfig(newStore(t), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), storage.EnvNotify)
}

func TestShowConfig(t *testing.T) {
	store := newStore(t)

	var buf bytes.Buffer
	require.NoError(t, showConfig(&buf, store))
	assert.Contains(t, buf.String(), "not created yet")
	assert.Contains(t, buf.String(), "total_sessions: 4")

	require.NoError(t, store.SaveConfig(models.Config{TotalSessions: 9, Sound: false, DesktopNotifications: true}))
	buf.Reset()
	require.NoError(t, showConfig(&buf, store))
	assert.NotContains(t, buf.String(), "not created yet")
	assert.Contains(t, buf.String(), store.ConfigPath())
	assert.Contains(t, buf.String(), "total_sessions: 9")
	assert.Contains(t, buf.String(), "sound: false")
}

func TestResetConfig(t *testing.T) {
	store := newStore(t)

	var buf bytes.Buffer
	require.NoError(t, resetConfig(&buf, store))
	assert.Equal(t, "Nothing to reset\n", buf.String())

	require.NoError(t, store.SaveConfig(models.DefaultConfig()))
	buf.Reset()
	require.NoError(t, resetConfig(&buf, store))
	assert.Contains(t, buf.String(), "Removed")
	assert.True(t, store.IsFirstTime())
}

type fakeResult struct {
	changed bool
	reset   bool
	config  models.Config
}

func (f fakeResult) Changed() bool         { return f.changed }
func (f fakeResult) Reset() bool           { return f.reset }
func (f fakeResult) Config() models.Config { return f.config }

func TestApplySettings(t *testing.T) {
	eng := engine.New(engine.Options{TickInterval: time.Hour})
	t.Cleanup(eng.Close)
	sinks := newAlerts(&bytes.Buffer{}, models.DefaultConfig())

	// unchanged settings leave everything alone
	applySettings(fakeResult{config: models.Config{TotalSessions: 2}}, eng, sinks)
	assert.Equal(t, models.DefaultTotalSessions, eng.State().TotalSessions)
	assert.True(t, sinks.sound.Enabled())

	applySettings(fakeResult{
		changed: true,
		config:  models.Config{TotalSessions: 6, Sound: false, DesktopNotifications: true},
	}, eng, sinks)
	assert.Equal(t, 6, eng.State().TotalSessions)
	assert.False(t, sinks.sound.Enabled())
	assert.True(t, sinks.notify.Enabled())

	eng.Start()
	for i := 0; i < models.FocusDuration; i++ {
		eng.Tick()
	}
	require.Equal(t, 1, eng.State().CompletedSessions)

	applySettings(fakeResult{changed: true, reset: true, config: models.DefaultConfig()}, eng, sinks)
	assert.Equal(t, models.InitialState(models.DefaultTotalSessions), eng.State())
	assert.True(t, sinks.sound.Enabled())
}

// resetRootFlags restores every root flag to its default so later tests
// start from a clean command.
func resetRootFlags(t *testing.T) {
	t.Helper()
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})
}

func TestResetRootFlags(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{"--sessions", "9", "--no-sound", "--headless"}))
	require.True(t, rootCmd.Flags().Changed("sessions"))

	resetRootFlags(t)
	assert.Equal(t, models.DefaultTotalSessions, flagSessions)
	assert.False(t, flagNoSound)
	assert.False(t, flagHeadless)
	assert.False(t, rootCmd.Flags().Changed("sessions"))
	assert.False(t, rootCmd.Flags().Changed("no-sound"))
}

func TestRootHeadless(t *testing.T) {
	configDir := t.TempDir()
	stateDir := t.TempDir()
	t.Setenv(dirs.EnvConfigDir, configDir)
	t.Setenv(dirs.EnvStateDir, stateDir)
	t.Setenv("FOCUSCUP_DEBUG", "1")

	var out, errOut bytes.Buffer
	rootCmd.SetArgs([]string{"--headless", "--sessions", "6"})
	rootCmd.SetIn(strings.NewReader("start\nstatus\nquit\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetRootFlags(t)
	})

	require.NoError(t, Execute())
	assert.Contains(t, out.String(), "[focus 25:00] paused, sessions 0/6, cup 0%")
	assert.Contains(t, out.String(), "running, sessions 0/6")

	logs, err := filepath.Glob(filepath.Join(stateDir, "logs", "focuscup-*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	data, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "focuscup started")
	assert.Contains(t, string(data), "total_sessions=6")
}

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adibhanna/focuscup/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "focuscup"))
	require.NoError(t, err)
	return s
}

func TestGetConfigMissingFileReturnsDefaults(t *testing.T) {
	s := newTestStorage(t)

	assert.True(t, s.IsFirstTime())
	cfg, err := s.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultConfig(), cfg)

	// Reading does not create the file.
	assert.True(t, s.IsFirstTime())
}

func TestSaveAndGetConfig(t *testing.T) {
	s := newTestStorage(t)

	want := models.Config{TotalSessions: 6, Sound: false, DesktopNotifications: true}
	require.NoError(t, s.SaveConfig(want))
	assert.False(t, s.IsFirstTime())

	got, err := s.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(s.ConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "total_sessions: 6")
	assert.Contains(t, string(data), "sound: false")
}

func TestGetConfigPartialFileKeepsDefaults(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, os.WriteFile(s.ConfigPath(), []byte("total_sessions: 8\n"), 0o600))

	cfg, err := s.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.TotalSessions)
	assert.True(t, cfg.Sound)
	assert.True(t, cfg.DesktopNotifications)
}

func TestGetConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad yaml", "total_sessions: [\n", "parse config yaml"},
		{"out of range", "total_sessions: 40\n", "invalid config"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStorage(t)
			require.NoError(t, os.WriteFile(s.ConfigPath(), []byte(tc.content), 0o600))

			_, err := s.GetConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestSaveConfigRejectsInvalid(t *testing.T) {
	s := newTestStorage(t)

	err := s.SaveConfig(models.Config{TotalSessions: 0})
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
	assert.True(t, s.IsFirstTime())
}

func TestResetAllData(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.SaveConfig(models.DefaultConfig()))

	require.NoError(t, s.ResetAllData())
	assert.True(t, s.IsFirstTime())

	// Removing twice is fine.
	require.NoError(t, s.ResetAllData())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvTotalSessions, "3")
	t.Setenv(EnvSound, "false")
	t.Setenv(EnvNotify, "0")

	cfg := models.DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, models.Config{TotalSessions: 3, Sound: false, DesktopNotifications: false}, cfg)
}

func TestApplyEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non-numeric sessions", EnvTotalSessions, "four"},
		{"sessions out of range", EnvTotalSessions, "99"},
		{"bad sound bool", EnvSound, "loud"},
		{"bad notify bool", EnvNotify, "maybe"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvTotalSessions, "")
			t.Setenv(EnvSound, "")
			t.Setenv(EnvNotify, "")
			t.Setenv(tc.key, tc.val)

			cfg := models.DefaultConfig()
			assert.Error(t, ApplyEnv(&cfg))
		})
	}
}

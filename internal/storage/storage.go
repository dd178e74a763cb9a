package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/adibhanna/focuscup/internal/models"
)

const configFileName = "config.yaml"

// Environment overrides applied on top of the config file.
const (
	EnvTotalSessions = "FOCUSCUP_TOTAL_SESSIONS"
	EnvSound         = "FOCUSCUP_SOUND"
	EnvNotify        = "FOCUSCUP_NOTIFY"
)

type Storage struct {
	dataDir string
}

func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// ConfigPath returns the location of the preferences file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.dataDir, configFileName)
}

// GetConfig reads the preferences file. A missing file yields the defaults;
// keys absent from the file keep their default values.
func (s *Storage) GetConfig() (models.Config, error) {
	config := models.DefaultConfig()

	data, err := os.ReadFile(s.ConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return models.Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return models.Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := config.Validate(); err != nil {
		return models.Config{}, fmt.Errorf("%s: %w", s.ConfigPath(), err)
	}

	return config, nil
}

func (s *Storage) SaveConfig(config models.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(s.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ResetAllData removes the stored preferences.
func (s *Storage) ResetAllData() error {
	if err := os.Remove(s.ConfigPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove config file: %w", err)
	}
	return nil
}

func (s *Storage) IsFirstTime() bool {
	_, err := os.Stat(s.ConfigPath())
	return errors.Is(err, os.ErrNotExist)
}

// ApplyEnv overrides config fields from FOCUSCUP_* environment variables.
func ApplyEnv(config *models.Config) error {
	if v := os.Getenv(EnvTotalSessions); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTotalSessions, err)
		}
		config.TotalSessions = n
	}
	if v := os.Getenv(EnvSound); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSound, err)
		}
		config.Sound = b
	}
	if v := os.Getenv(EnvNotify); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNotify, err)
		}
		config.DesktopNotifications = b
	}
	return config.Validate()
}

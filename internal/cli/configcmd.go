package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adibhanna/focuscup/internal/dirs"
	"github.com/adibhanna/focuscup/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective preferences",
	Long: `Show the preferences focuscup would run with, as YAML.

Preferences are resolved with the following precedence:
  1. Built-in defaults
  2. Config file (config.yaml in the config directory)
  3. FOCUSCUP_TOTAL_SESSIONS, FOCUSCUP_SOUND, FOCUSCUP_NOTIFY`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage()
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), store)
	},
}

func showConfig(w io.Writer, store *storage.Storage) error {
	config, err := loadConfig(store, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	source := store.ConfigPath()
	if store.IsFirstTime() {
		source += " (not created yet, showing defaults)"
	}

	fmt.Fprintf(w, "# config file: %s\n", source)
	fmt.Fprintf(w, "# logs:        %s\n", dirs.LogsDir())
	_, err = w.Write(data)
	return err
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored preferences",
	Long: `Delete the config file. The next run starts with the defaults and shows
the first-time setup form.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStorage()
		if err != nil {
			return err
		}
		return resetConfig(cmd.OutOrStdout(), store)
	},
}

func resetConfig(w io.Writer, store *storage.Storage) error {
	if store.IsFirstTime() {
		fmt.Fprintln(w, "Nothing to reset")
		return nil
	}
	if err := store.ResetAllData(); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	fmt.Fprintf(w, "Removed %s\n", store.ConfigPath())
	return nil
}

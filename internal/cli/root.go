// Package cli implements the focuscup command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/adibhanna/focuscup/internal/alert"
	"github.com/adibhanna/focuscup/internal/dirs"
	"github.com/adibhanna/focuscup/internal/engine"
	"github.com/adibhanna/focuscup/internal/headless"
	"github.com/adibhanna/focuscup/internal/logging"
	"github.com/adibhanna/focuscup/internal/models"
	"github.com/adibhanna/focuscup/internal/storage"
)

var (
	flagSessions int
	flagNoSound  bool
	flagNoNotify bool
	flagDebug    bool
	flagHeadless bool
)

var rootCmd = &cobra.Command{
	Use:   "focuscup",
	Short: "A coffee-cup pomodoro timer for the terminal",
	Long: `focuscup alternates 25 minute focus phases with 5 minute breaks.
The cup fills while you focus and drains during the break. The timer stops
at every phase boundary and waits for you to start the next phase.

Preferences are read from the config file, then FOCUSCUP_* environment
variables, then flags. When stdout is not a terminal focuscup reads commands
from stdin instead of drawing the TUI.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().IntVarP(&flagSessions, "sessions", "n", models.DefaultTotalSessions, "Focus sessions per cycle")
	rootCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Do not ring the terminal bell")
	rootCmd.Flags().BoolVar(&flagNoNotify, "no-notify", false, "Do not raise desktop notifications")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Write a debug log to the state directory")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Read commands from stdin instead of drawing the TUI")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)
}

func openStorage() (*storage.Storage, error) {
	store, err := storage.New(dirs.ConfigDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}

// loadConfig resolves preferences: file, then environment, then flags.
func loadConfig(store *storage.Storage, flags *pflag.FlagSet) (models.Config, error) {
	config, err := store.GetConfig()
	if err != nil {
		return models.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := storage.ApplyEnv(&config); err != nil {
		return models.Config{}, fmt.Errorf("failed to apply environment: %w", err)
	}
	if err := applyFlags(&config, flags); err != nil {
		return models.Config{}, err
	}
	return config, nil
}

// applyFlags overrides only the flags the user actually passed.
func applyFlags(config *models.Config, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	if flags.Changed("sessions") {
		n, err := flags.GetInt("sessions")
		if err != nil {
			return err
		}
		config.TotalSessions = n
	}
	if flags.Changed("no-sound") {
		off, err := flags.GetBool("no-sound")
		if err != nil {
			return err
		}
		config.Sound = !off
	}
	if flags.Changed("no-notify") {
		off, err := flags.GetBool("no-notify")
		if err != nil {
			return err
		}
		config.DesktopNotifications = !off
	}
	return config.Validate()
}

// alerts holds the switchable sinks so saved settings apply to a running engine.
type alerts struct {
	sound  *alert.Toggle
	notify *alert.Toggle
}

func newAlerts(bell io.Writer, config models.Config) alerts {
	return alerts{
		sound:  alert.NewToggle(alert.NewBell(bell), config.Sound),
		notify: alert.NewToggle(alert.NewDesktop(), config.DesktopNotifications),
	}
}

func (a alerts) apply(config models.Config) {
	a.sound.SetEnabled(config.Sound)
	a.notify.SetEnabled(config.DesktopNotifications)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	config, err := loadConfig(store, cmd.Flags())
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(dirs.LogsDir(), flagDebug || logging.DebugFromEnv(), time.Now())
	if err != nil {
		return err
	}
	defer closer.Close()

	interactive := !flagHeadless && term.IsTerminal(int(os.Stdout.Fd()))

	// In headless mode stdout carries status lines, so the bell goes to stderr.
	bell := io.Writer(os.Stdout)
	if !interactive {
		bell = cmd.ErrOrStderr()
	}
	sinks := newAlerts(bell, config)

	eng := engine.New(engine.Options{
		TotalSessions: config.TotalSessions,
		Sink:          alert.Multi{sinks.sound, sinks.notify, alert.NewLogger(logger)},
		Logger:        logger,
	})
	defer eng.Close()

	logger.Info("focuscup started",
		"interactive", interactive,
		"total_sessions", config.TotalSessions,
		"sound", config.Sound,
		"desktop_notifications", config.DesktopNotifications,
	)

	if !interactive {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return headless.Run(ctx, eng, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	firstRun := store.IsFirstTime() && !cmd.Flags().Changed("sessions")
	return runApp(store, eng, sinks, firstRun)
}

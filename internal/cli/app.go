package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adibhanna/focuscup/internal/engine"
	"github.com/adibhanna/focuscup/internal/models"
	"github.com/adibhanna/focuscup/internal/storage"
	"github.com/adibhanna/focuscup/internal/ui/settings"
	"github.com/adibhanna/focuscup/internal/ui/timer"
)

func runApp(store *storage.Storage, eng *engine.Engine, sinks alerts, firstRun bool) error {
	// Check if this is first time setup
	if firstRun {
		fmt.Println("*** Welcome to focuscup! ***")
		fmt.Println("Let's set up your preferences...")

		if err := runSettings(store, eng, sinks); err != nil {
			return err
		}
		fmt.Println("[OK] Setup complete! Let's start brewing!")
	}

	// Main app loop
	for {
		timerModel := timer.New(eng)

		p := tea.NewProgram(timerModel, tea.WithAltScreen())
		finalModel, err := p.Run()
		timerModel.Close()
		if err != nil {
			return err
		}

		timerModel = finalModel.(timer.Model)
		if timerModel.ShouldQuit() {
			state := eng.State()
			fmt.Printf(">>> %d of %d sessions completed. See you next cup!\n", state.CompletedSessions, state.TotalSessions)
			return nil
		}

		if timerModel.ShouldOpenSettings() {
			if err := runSettings(store, eng, sinks); err != nil {
				return err
			}
			continue
		}

		return nil
	}
}

// runSettings shows the settings form and applies saved changes to the
// running engine.
func runSettings(store *storage.Storage, eng *engine.Engine, sinks alerts) error {
	settingsModel, err := settings.New(store)
	if err != nil {
		return err
	}

	p := tea.NewProgram(settingsModel, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	settingsModel = finalModel.(settings.Model)
	applySettings(settingsModel, eng, sinks)
	return nil
}

type settingsResult interface {
	Changed() bool
	Reset() bool
	Config() models.Config
}

func applySettings(result settingsResult, eng *engine.Engine, sinks alerts) {
	if !result.Changed() {
		return
	}
	config := result.Config()
	sinks.apply(config)
	eng.SetTotalSessions(config.TotalSessions)
	if result.Reset() {
		eng.ResetAll()
	}
}

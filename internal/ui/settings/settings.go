package settings

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/focuscup/internal/models"
	"github.com/adibhanna/focuscup/internal/storage"
)

const (
	inputSessions = iota
	inputSound
	inputNotify
)

type Model struct {
	storage      *storage.Storage
	config       models.Config
	inputs       []textinput.Model
	focusIndex   int
	saved        bool
	reset        bool
	confirmReset bool
	errorMsg     string
	width        int
	height       int
}

func New(storage *storage.Storage) (Model, error) {
	config, err := storage.GetConfig()
	if err != nil {
		return Model{}, err
	}

	inputs := make([]textinput.Model, 3)

	// Validation function to allow only numeric input
	numericValidation := func(text string) error {
		if text == "" {
			return nil // Allow empty input temporarily
		}
		for _, char := range text {
			if !unicode.IsDigit(char) {
				return fmt.Errorf("only numbers allowed")
			}
		}
		return nil
	}

	yesNoValidation := func(text string) error {
		if text == "" {
			return nil
		}
		if _, ok := parseYesNo(text); !ok {
			return fmt.Errorf("answer y or n")
		}
		return nil
	}

	// Sessions per cycle
	inputs[inputSessions] = textinput.New()
	inputs[inputSessions].Placeholder = strconv.Itoa(models.DefaultTotalSessions)
	inputs[inputSessions].SetValue(strconv.Itoa(config.TotalSessions))
	inputs[inputSessions].Focus()
	inputs[inputSessions].CharLimit = 2
	inputs[inputSessions].Width = 20
	inputs[inputSessions].Validate = numericValidation

	// Terminal bell
	inputs[inputSound] = textinput.New()
	inputs[inputSound].Placeholder = "y"
	inputs[inputSound].SetValue(yesNo(config.Sound))
	inputs[inputSound].CharLimit = 1
	inputs[inputSound].Width = 20
	inputs[inputSound].Validate = yesNoValidation

	// Desktop notifications
	inputs[inputNotify] = textinput.New()
	inputs[inputNotify].Placeholder = "y"
	inputs[inputNotify].SetValue(yesNo(config.DesktopNotifications))
	inputs[inputNotify].CharLimit = 1
	inputs[inputNotify].Width = 20
	inputs[inputNotify].Validate = yesNoValidation

	return Model{
		storage:    storage,
		config:     config,
		inputs:     inputs,
		focusIndex: 0,
	}, nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func parseYesNo(text string) (value bool, ok bool) {
	switch strings.ToLower(text) {
	case "y":
		return true, true
	case "n":
		return false, true
	}
	return false, false
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Down):
			m.focusIndex++
			if m.focusIndex > len(m.inputs)-1 {
				m.focusIndex = 0
			}
			return m.updateFocus(), nil

		case key.Matches(msg, keys.ShiftTab), key.Matches(msg, keys.Up):
			m.focusIndex--
			if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs) - 1
			}
			return m.updateFocus(), nil

		case key.Matches(msg, keys.Save):
			if err := m.saveConfig(); err != nil {
				m.errorMsg = err.Error()
				m.saved = false
				return m, nil
			}
			m.saved = true
			m.errorMsg = ""
			return m, tea.Quit

		case key.Matches(msg, keys.Reset):
			if !m.confirmReset {
				m.confirmReset = true
				return m, nil
			}
			if err := m.resetAllData(); err != nil {
				m.errorMsg = err.Error()
				m.confirmReset = false
				return m, nil
			}
			m.reset = true
			return m, tea.Quit

		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			if m.confirmReset {
				m.confirmReset = false
				return m, nil
			}
			return m, tea.Quit
		}
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m Model) updateFocus() tea.Model {
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		oldValue := m.inputs[i].Value()
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
		// Clear error message when user starts typing
		if m.inputs[i].Value() != oldValue {
			m.errorMsg = ""
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) saveConfig() error {
	sessionsStr := m.inputs[inputSessions].Value()
	if sessionsStr == "" {
		return fmt.Errorf("sessions per cycle is required")
	}
	sessions, err := strconv.Atoi(sessionsStr)
	if err != nil || sessions < models.MinTotalSessions || sessions > models.MaxTotalSessions {
		return fmt.Errorf("sessions per cycle must be between %d-%d", models.MinTotalSessions, models.MaxTotalSessions)
	}

	sound, ok := parseYesNo(m.inputs[inputSound].Value())
	if !ok {
		return fmt.Errorf("sound must be y or n")
	}

	notify, ok := parseYesNo(m.inputs[inputNotify].Value())
	if !ok {
		return fmt.Errorf("desktop notifications must be y or n")
	}

	config := models.Config{
		TotalSessions:        sessions,
		Sound:                sound,
		DesktopNotifications: notify,
	}
	if err := m.storage.SaveConfig(config); err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *Model) resetAllData() error {
	if err := m.storage.ResetAllData(); err != nil {
		return err
	}

	m.config = models.DefaultConfig()

	m.inputs[inputSessions].SetValue(strconv.Itoa(m.config.TotalSessions))
	m.inputs[inputSound].SetValue(yesNo(m.config.Sound))
	m.inputs[inputNotify].SetValue(yesNo(m.config.DesktopNotifications))

	return nil
}

// Config returns the preferences as last loaded, saved or reset.
func (m Model) Config() models.Config {
	return m.config
}

// Changed reports whether the preferences were saved or reset.
func (m Model) Changed() bool {
	return m.saved || m.reset
}

func (m Model) Reset() bool {
	return m.reset
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#C69C6D")).
		MarginBottom(2).
		Align(lipgloss.Center)

	formStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		MarginTop(1).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FDFF8C"))

	inputStyle := lipgloss.NewStyle().
		MarginBottom(1)

	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4CAF50")).
		Bold(true).
		MarginTop(1)

	title := titleStyle.Render("⚙️  Settings")

	labels := []string{
		fmt.Sprintf("Sessions per cycle (%d-%d):", models.MinTotalSessions, models.MaxTotalSessions),
		"Ring terminal bell (y/n):",
		"Desktop notifications (y/n):",
	}

	var form strings.Builder
	for i, label := range labels {
		form.WriteString(labelStyle.Render(label) + "\n")
		form.WriteString(inputStyle.Render(m.inputs[i].View()) + "\n")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		formStyle.Render(form.String()),
		m.renderHelp(),
	)

	if m.saved {
		content += "\n" + successStyle.Render("✅ Settings saved successfully!")
	}

	if m.reset {
		content += "\n" + successStyle.Render("🔄 Settings reset to defaults!")
	}

	if m.confirmReset {
		warningStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			MarginTop(1)
		content += "\n" + warningStyle.Render("⚠️  WARNING: This will reset settings and clear finished sessions!")
	}

	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			MarginTop(1)
		content += "\n" + errorStyle.Render("❌ "+m.errorMsg)
	}

	return containerStyle.Render(content)
}

func (m Model) renderHelp() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(1)

	if m.confirmReset {
		return helpStyle.Render("⚠️  Press 'r' again to confirm RESET • b: cancel")
	}

	return helpStyle.Render("tab/↓: next field • shift+tab/↑: previous • s: save • r: reset • b: back • q: quit")
}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Save     key.Binding
	Reset    key.Binding
	Back     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous field"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next field"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

package help

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/focuscup/internal/models"
)

// Markdown is the help page source.
var Markdown = fmt.Sprintf(`# ☕ focuscup

Brew focus one cup at a time: **%d minutes** of focus fill the cup,
**%d minutes** of break drain it. Every finished focus phase adds a cup to
the tracker.

## Timer

| Key | Action |
|-----|--------|
| s | start the current phase |
| p | pause |
| space | start or pause |
| r | reset the current phase |
| R | reset everything, including finished sessions |
| enter | start the next phase from the "phase complete" banner |
| esc | dismiss the banner |

## App

| Key | Action |
|-----|--------|
| o | settings |
| ? | this page |
| q / ctrl+c | quit |

The timer stops at every phase boundary. Nothing runs until you press
start again, so a missed break never silently turns into more work.
`, models.FocusDuration/60, models.BreakDuration/60)

type Model struct {
	width    int
	height   int
	quit     bool
	rendered string
}

func New() Model {
	return Model{}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rendered = render(m.wrapWidth())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit), key.Matches(msg, keys.Help):
			m.quit = true
			return m, nil
		}
	}

	return m, nil
}

func (m Model) View() string {
	// Use reasonable defaults if dimensions aren't set
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	containerStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		Align(lipgloss.Center)

	body := m.rendered
	if body == "" {
		body = render(m.wrapWidth())
	}

	return containerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		footerStyle.Render("Press 'b/esc' or '?' to go back"),
	))
}

func (m Model) ShouldQuit() bool {
	return m.quit
}

func (m Model) wrapWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(m.width-8, 20)
}

// render falls back to the raw markdown if glamour cannot render it.
func render(width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Markdown
	}
	out, err := renderer.Render(Markdown)
	if err != nil {
		return Markdown
	}
	return out
}

type keyMap struct {
	Back key.Binding
	Quit key.Binding
	Help key.Binding
}

var keys = keyMap{
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b/esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "close help"),
	),
}

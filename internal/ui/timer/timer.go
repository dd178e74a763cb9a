package timer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/focuscup/internal/engine"
	"github.com/adibhanna/focuscup/internal/models"
	"github.com/adibhanna/focuscup/internal/ui/help"
)

// Controller is the part of the engine the view needs.
type Controller interface {
	Start()
	Pause()
	Reset()
	ResetAll()
	State() models.TimerState
	Subscribe(buffer int) <-chan engine.Event
	Unsubscribe(events <-chan engine.Event)
}

type refreshMsg time.Time

type eventMsg engine.Event

type Model struct {
	timer    Controller
	events   <-chan engine.Event
	state    models.TimerState
	banner   *models.Transition
	progress progress.Model
	help     help.Model
	showHelp bool
	width    int
	height   int

	shouldQuit   bool
	openSettings bool
}

func New(timer Controller) Model {
	prog := progress.New(progress.WithScaledGradient("#C69C6D", "#5D3A1A"))
	prog.Width = 40

	return Model{
		timer:    timer,
		events:   timer.Subscribe(16),
		state:    timer.State(),
		progress: prog,
		help:     help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(), waitForEvent(m.events))
}

// refreshCmd polls the engine once per second.
func refreshCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func waitForEvent(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(0, min(msg.Width-20, 40))
		helpModel, _ := m.help.Update(msg)
		m.help = helpModel.(help.Model)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			helpModel, _ := m.help.Update(msg)
			m.help = helpModel.(help.Model)
			if m.help.ShouldQuit() {
				m.showHelp = false
				m.help = help.New()
				if m.width > 0 {
					helpModel, _ = m.help.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					m.help = helpModel.(help.Model)
				}
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.shouldQuit = true
			return m, tea.Quit

		case key.Matches(msg, keys.Next) && m.banner != nil:
			m.banner = nil
			m.timer.Start()

		case key.Matches(msg, keys.Dismiss):
			m.banner = nil

		case key.Matches(msg, keys.Start):
			m.banner = nil
			m.timer.Start()

		case key.Matches(msg, keys.Pause):
			m.timer.Pause()

		case key.Matches(msg, keys.Toggle):
			m.banner = nil
			if m.timer.State().IsRunning {
				m.timer.Pause()
			} else {
				m.timer.Start()
			}

		case key.Matches(msg, keys.ResetAll):
			m.banner = nil
			m.timer.ResetAll()

		case key.Matches(msg, keys.Reset):
			m.banner = nil
			m.timer.Reset()

		case key.Matches(msg, keys.Settings):
			m.openSettings = true
			return m, tea.Quit

		case key.Matches(msg, keys.Help):
			m.showHelp = true
			return m, nil
		}
		m.state = m.timer.State()
		return m, nil

	case refreshMsg:
		m.state = m.timer.State()
		return m, refreshCmd()

	case eventMsg:
		if msg.Type == engine.EventTransition && msg.Transition != nil {
			transition := *msg.Transition
			m.banner = &transition
		}
		// Queued events may be older than the engine; show the live state.
		m.state = m.timer.State()
		return m, waitForEvent(m.events)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.help.View()
	}

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(1)

	sections := []string{
		m.renderPhase(),
		m.renderCup(),
		m.renderTime(),
		m.progress.ViewAs(m.state.FillPercentage() / 100),
		renderTracker(m.state),
		m.renderStatus(),
	}
	if m.banner != nil {
		sections = append(sections, renderBanner(*m.banner))
	}
	sections = append(sections, helpView(m.state.IsRunning, m.banner != nil))

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (m Model) renderPhase() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 2).
		MarginBottom(1)

	if m.state.Phase == models.PhaseBreak {
		return style.
			Foreground(lipgloss.Color("#1B1B1B")).
			Background(lipgloss.Color("#8FD694")).
			Render("BREAK TIME")
	}
	return style.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Render("FOCUS TIME")
}

func (m Model) renderCup() string {
	coffee := lipgloss.Color("#8B5A2B")
	if m.state.Phase == models.PhaseBreak {
		coffee = lipgloss.Color("#8FD694")
	}
	steaming := m.state.IsRunning && m.state.Phase == models.PhaseFocus && m.state.FillPercentage() < 100

	cupStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#DCC8B5"))
	liquidStyle := lipgloss.NewStyle().Foreground(coffee)

	lines := cupLines(m.state.FillPercentage(), steaming)
	for i, line := range lines {
		line = cupStyle.Render(line)
		lines[i] = strings.ReplaceAll(line, "▓", liquidStyle.Render("▓"))
	}

	return lipgloss.NewStyle().MarginBottom(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

const (
	cupRows  = 6
	cupWidth = 12
)

// cupLines draws the cup with the liquid level for fill in [0, 100].
func cupLines(fill float64, steaming bool) []string {
	filled := int(fill/100*cupRows + 0.5)
	filled = max(0, min(filled, cupRows))

	steam := strings.Repeat(" ", cupWidth+4)
	if steaming {
		steam = "   ~   ~   ~    "
	}

	lines := []string{steam, " ╭" + strings.Repeat("─", cupWidth) + "╮  "}
	for row := 0; row < cupRows; row++ {
		content := strings.Repeat(" ", cupWidth)
		if row >= cupRows-filled {
			content = strings.Repeat("▓", cupWidth)
		}

		handle := "   "
		switch row {
		case 1:
			handle = "─╮ "
		case 2, 3:
			handle = " │ "
		case 4:
			handle = "─╯ "
		}
		lines = append(lines, " │"+content+"│"+handle)
	}
	lines = append(lines, " ╰"+strings.Repeat("─", cupWidth)+"╯  ")
	return lines
}

func (m Model) renderTime() string {
	timerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Padding(0, 2).
		MarginBottom(1)

	if m.height > 0 && m.height < 30 {
		return timerStyle.Render(m.state.Clock())
	}
	return timerStyle.Render(renderBigTime(m.state.SecondsRemaining/60, m.state.SecondsRemaining%60))
}

func renderBigTime(minutes, seconds int) string {
	// ASCII art for digits 0-9
	digits := map[int][]string{
		0: {"███", "█ █", "█ █", "█ █", "███"},
		1: {" █ ", "██ ", " █ ", " █ ", "███"},
		2: {"███", "  █", "███", "█  ", "███"},
		3: {"███", "  █", "███", "  █", "███"},
		4: {"█ █", "█ █", "███", "  █", "  █"},
		5: {"███", "█  ", "███", "  █", "███"},
		6: {"███", "█  ", "███", "█ █", "███"},
		7: {"███", "  █", "  █", "  █", "  █"},
		8: {"███", "█ █", "███", "█ █", "███"},
		9: {"███", "█ █", "███", "  █", "███"},
	}

	colon := []string{" ", "█", " ", "█", " "}

	m1 := minutes / 10
	m2 := minutes % 10
	s1 := seconds / 10
	s2 := seconds % 10

	var lines []string
	for row := 0; row < 5; row++ {
		line := digits[m1][row] + " " + digits[m2][row] + " " + colon[row] + " " + digits[s1][row] + " " + digits[s2][row]
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderTracker(s models.TimerState) string {
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#C69C6D"))
	todoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))

	cups := make([]string, 0, s.TotalSessions)
	for i := 0; i < s.TotalSessions; i++ {
		if i < s.CompletedSessions {
			cups = append(cups, doneStyle.Render("■"))
		} else {
			cups = append(cups, todoStyle.Render("□"))
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		strings.Join(cups, " "),
		textStyle.Render(fmt.Sprintf("%d of %d sessions completed", s.CompletedSessions, s.TotalSessions)),
	)
}

func (m Model) renderStatus() string {
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888")).
		MarginTop(1)

	var status string
	switch {
	case m.state.IsRunning && m.state.Phase == models.PhaseFocus:
		status = "Brewing... stay in the zone"
	case m.state.IsRunning:
		status = "Enjoy your break"
	case m.state.SecondsRemaining == m.state.Phase.Duration() && m.state.Phase == models.PhaseBreak:
		status = "Press 's' to start your break"
	case m.state.SecondsRemaining == m.state.Phase.Duration():
		status = "Press 's' to start brewing"
	default:
		status = "PAUSED - Press 's' to resume"
	}
	return statusStyle.Render(status)
}

func renderBanner(t models.Transition) string {
	bannerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFD700")).
		Padding(0, 2).
		MarginTop(1).
		Align(lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFD700"))

	action := "Start Break"
	if t.To == models.PhaseFocus {
		action = "Start Brewing"
	}

	return bannerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render(t.Title),
		t.Message,
		fmt.Sprintf("enter: %s • esc: dismiss", action),
	))
}

func helpView(running, banner bool) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(1)

	var helpText string
	switch {
	case banner:
		helpText = "enter: next phase • esc: dismiss • R: reset all • q: quit"
	case !running:
		helpText = "s: start • r: reset • R: reset all • o: settings • ?: help • q: quit"
	default:
		helpText = "p: pause • r: reset • R: reset all • o: settings • ?: help • q: quit"
	}

	return helpStyle.Render(helpText)
}

// Close stops listening for engine events. Call it once the program exits.
func (m Model) Close() {
	m.timer.Unsubscribe(m.events)
}

func (m Model) ShouldQuit() bool {
	return m.shouldQuit
}

func (m Model) ShouldOpenSettings() bool {
	return m.openSettings
}

type keyMap struct {
	Start    key.Binding
	Pause    key.Binding
	Toggle   key.Binding
	Reset    key.Binding
	ResetAll key.Binding
	Next     key.Binding
	Dismiss  key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "start/pause"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset phase"),
	),
	ResetAll: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset all"),
	),
	Next: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start next phase"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
	Settings: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "settings"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

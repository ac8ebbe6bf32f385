// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/tempo-cli/internal/config"
	"github.com/xvierd/tempo-cli/internal/domain"
	"github.com/xvierd/tempo-cli/internal/focus"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// eventMsg carries a controller event into the update loop.
type eventMsg focus.Event

// closedMsg is sent once the controller's event channel is closed.
type closedMsg struct{}

// waitForEvent blocks on the next controller event.
func waitForEvent(events <-chan focus.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// Model is the focus timer screen.
type Model struct {
	ctrl     *focus.Controller
	events   <-chan focus.Event
	state    domain.IntervalState
	focusBar progress.Model
	breakBar progress.Model
	input    textinput.Model
	editing  domain.Phase
	keys     keyMap
	theme    config.ThemeConfig
	width    int
	height   int
	quitting bool
}

// NewModel creates a model hosting ctrl. The model subscribes to ctrl immediately.
func NewModel(ctrl *focus.Controller, theme *config.ThemeConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "minutes"
	ti.CharLimit = 4
	ti.Width = 8

	resolved := resolveTheme(theme)
	return Model{
		ctrl:     ctrl,
		events:   ctrl.Subscribe(16),
		state:    ctrl.Snapshot(),
		focusBar: progress.New(progress.WithGradient(resolved.FocusGradientStart, resolved.FocusGradientEnd)),
		breakBar: progress.New(progress.WithGradient(resolved.BreakGradientStart, resolved.BreakGradientEnd)),
		input:    ti,
		keys:     defaultKeyMap(),
		theme:    resolved,
	}
}

// Init starts listening for controller events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case eventMsg:
		m.state = m.ctrl.Snapshot()
		return m, waitForEvent(m.events)

	case closedMsg:
		m.state = m.ctrl.Snapshot()
		return m, nil

	case tea.KeyMsg:
		if m.editing != "" {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.ctrl.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.ctrl.Start()
	case key.Matches(msg, m.keys.Pause):
		m.ctrl.Pause()
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Reset()
	case key.Matches(msg, m.keys.FocusUp):
		m.ctrl.SetDuration(domain.PhaseFocus, s.Durations.Minutes(domain.PhaseFocus)+1)
	case key.Matches(msg, m.keys.FocusDown):
		m.ctrl.SetDuration(domain.PhaseFocus, s.Durations.Minutes(domain.PhaseFocus)-1)
	case key.Matches(msg, m.keys.BreakUp):
		m.ctrl.SetDuration(domain.PhaseBreak, s.Durations.Minutes(domain.PhaseBreak)+1)
	case key.Matches(msg, m.keys.BreakDown):
		m.ctrl.SetDuration(domain.PhaseBreak, s.Durations.Minutes(domain.PhaseBreak)-1)
	case key.Matches(msg, m.keys.EditFocus):
		return m.startEditing(domain.PhaseFocus)
	case key.Matches(msg, m.keys.EditBreak):
		return m.startEditing(domain.PhaseBreak)
	default:
		return m, nil
	}

	m.state = m.ctrl.Snapshot()
	return m, nil
}

func (m Model) startEditing(phase domain.Phase) (tea.Model, tea.Cmd) {
	m.editing = phase
	m.input.SetValue(fmt.Sprintf("%d", m.state.Durations.Minutes(phase)))
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		m.ctrl.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.ctrl.SetDurationInput(m.editing, m.input.Value())
		m.stopEditing()
		m.state = m.ctrl.Snapshot()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = ""
	m.input.Blur()
	m.input.SetValue("")
}

// timerColor picks the clock color for the current state.
func (m Model) timerColor() lipgloss.Color {
	switch {
	case m.state.Completed:
		return lipgloss.Color(m.theme.ColorDone)
	case !m.state.Running:
		return lipgloss.Color(m.theme.ColorPaused)
	case m.state.Phase == domain.PhaseBreak:
		return lipgloss.Color(m.theme.ColorBreak)
	default:
		return lipgloss.Color(m.theme.ColorFocus)
	}
}

func (m Model) progressBar() progress.Model {
	pbar := m.focusBar
	if m.state.Phase == domain.PhaseBreak {
		pbar = m.breakBar
	}
	pbar.Width = max(m.width-4, 10)
	return pbar
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	phaseStyle := lipgloss.NewStyle().Foreground(m.timerColor())

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s Tempo", m.theme.IconApp)))

	label := m.state.Phase.Label()
	switch {
	case m.state.Completed:
		label += " complete!"
	case m.state.Running:
		label += " · running"
	default:
		label += " · paused"
	}
	sections = append(sections, phaseStyle.Render(label))

	sections = append(sections, "")
	sections = append(sections, renderBigClock(m.state.Clock(), lipgloss.NewStyle().Foreground(m.timerColor()), m.width))

	sections = append(sections, "")
	sections = append(sections, m.progressBar().ViewAs(m.state.Progress()))

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("Focus %dm  Break %dm",
		m.state.Durations.Minutes(domain.PhaseFocus), m.state.Durations.Minutes(domain.PhaseBreak))))
	sections = append(sections, phaseStyle.Render(fmt.Sprintf("Pomodoro cycles today: %d", m.state.Cycles)))

	sections = append(sections, "")
	if m.editing != "" {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%s minutes: ", m.editing.Label()))+m.input.View())
		sections = append(sections, helpStyle.Render("enter save · esc cancel"))
	} else {
		sections = append(sections, helpStyle.Render(m.helpLine()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return strings.Join(parts, "  ")
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/tempo-cli/internal/config"
	"github.com/xvierd/tempo-cli/internal/focus"
)

// RunFocus shows the focus timer until the user quits. The controller is
// closed when the program exits, whatever the reason.
func RunFocus(ctrl *focus.Controller, theme *config.ThemeConfig) error {
	defer ctrl.Close()

	p := tea.NewProgram(NewModel(ctrl, theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start     key.Binding
	Pause     key.Binding
	Reset     key.Binding
	FocusUp   key.Binding
	FocusDown key.Binding
	BreakUp   key.Binding
	BreakDown key.Binding
	EditFocus key.Binding
	EditBreak key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		FocusUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "focus")),
		FocusDown: key.NewBinding(key.WithKeys("-", "_")),
		BreakUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]/[", "break")),
		BreakDown: key.NewBinding(key.WithKeys("[")),
		EditFocus: key.NewBinding(key.WithKeys("e"), key.WithHelp("e/E", "edit")),
		EditBreak: key.NewBinding(key.WithKeys("E")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:   key.NewBinding(key.WithKeys("enter")),
		Cancel:    key.NewBinding(key.WithKeys("esc")),
	}
}

// help returns the bindings shown in the footer.
func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Reset, k.FocusUp, k.BreakUp, k.EditFocus, k.Quit}
}

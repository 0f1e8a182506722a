package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	GoTo     key.Binding
	Complete key.Binding
	AutoPlay key.Binding
	Stop     key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		GoTo:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open stage")),
		Complete: key.NewBinding(key.WithKeys(" ", "space", "n"), key.WithHelp("space/n", "complete")),
		AutoPlay: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-play")),
		Stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.GoTo, k.Complete, k.AutoPlay, k.Stop, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.GoTo},
		{k.Complete, k.AutoPlay, k.Stop, k.Reset},
		{k.Help, k.Quit},
	}
}

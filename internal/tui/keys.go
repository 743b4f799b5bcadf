package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	FlingUp key.Binding
	FlingDn key.Binding
	Min     key.Binding
	Max     key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("right", "l", "up", "k"), key.WithHelp("→/l", "+1 tick")),
		Down:    key.NewBinding(key.WithKeys("left", "h", "down", "j"), key.WithHelp("←/h", "-1 tick")),
		FlingUp: key.NewBinding(key.WithKeys("shift+right", "L", "shift+up", "K"), key.WithHelp("L", "fling up")),
		FlingDn: key.NewBinding(key.WithKeys("shift+left", "H", "shift+down", "J"), key.WithHelp("H", "fling down")),
		Min:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "min")),
		Max:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "max")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "save & quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.FlingDn, k.FlingUp},
		{k.Min, k.Max, k.Help, k.Quit},
	}
}

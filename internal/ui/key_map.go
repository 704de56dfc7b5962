package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	regenerate key.Binding
	stats      key.Binding
	save       key.Binding
	favorite   key.Binding
	back       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		regenerate: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regenerate")),
		stats:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		save:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save playlist")),
		favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.regenerate, k.stats, k.save, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.favorite},
		{k.regenerate, k.stats, k.save},
		{k.back, k.quit},
	}
}

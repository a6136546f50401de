package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit      key.Binding
	clear     key.Binding
	favorites key.Binding
	pinned    key.Binding
	up        key.Binding
	down      key.Binding
	open      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		favorites: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "favorites"),
		),
		pinned: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "pinned"),
		),
		up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.favorites, k.pinned, k.clear, k.open, k.quit}
}

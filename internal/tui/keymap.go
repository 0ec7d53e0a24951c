package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextPage key.Binding
	PrevPage key.Binding
	First    key.Binding
	Last     key.Binding
	Search   key.Binding
	Clear    key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.First, k.Last},
		{k.Search, k.Clear, k.Refresh},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	NextPage: key.NewBinding(
		key.WithKeys("right", "n", "pgdown"),
		key.WithHelp("→/n", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "p", "pgup"),
		key.WithHelp("←/p", "previous page"),
	),
	First: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "first page"),
	),
	Last: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "last page"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r", "f5"),
		key.WithHelp("r", "reload file"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the console's key bindings.
type KeyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	Filter      key.Binding
	Reload      key.Binding
	Open        key.Binding
	Back        key.Binding
	MarkReplied key.Binding
	Delete      key.Binding
	Confirm     key.Binding
	SendEmail   key.Binding
}

// DefaultKeyMap is the binding set used by NewModel.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h", "p"),
		key.WithHelp("←", "prev page"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	ClearSearch: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "status filter"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	MarkReplied: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mark replied"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	SendEmail: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "send email"),
	),
}

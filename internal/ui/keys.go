package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding
	Reload     key.Binding

	// View switching
	ViewFeed    key.Binding
	ViewLatest  key.Binding
	ViewUploads key.Binding
	ViewLogs    key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Post actions
	Open       key.Binding
	OpenAuthor key.Binding
	Like       key.Binding

	// Uploads
	Attach        key.Binding
	ProfileIntent key.Binding
	BannerIntent  key.Binding
	ClearFinished key.Binding
	ToggleFollow  key.Binding
	NextField     key.Binding
	Confirm       key.Binding
	CancelEditing key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		ViewFeed: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Home feed"),
		),
		ViewLatest: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Latest"),
		),
		ViewUploads: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Uploads"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open post"),
		),
		OpenAuthor: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Open author"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Like/unlike"),
		),

		Attach: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Upload files"),
		),
		ProfileIntent: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "As profile picture"),
		),
		BannerIntent: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "As banner"),
		),
		ClearFinished: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear finished"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle follow"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Next field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		CancelEditing: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ViewFeed, k.ViewLatest, k.ViewUploads, k.ViewLogs, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewFeed, k.ViewLatest, k.ViewUploads, k.ViewLogs, k.Back},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Open, k.OpenAuthor, k.Like, k.Reload},
		{k.Attach, k.ProfileIntent, k.BannerIntent, k.ClearFinished, k.ToggleFollow},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// AppKeyMap defines the shell key bindings
type AppKeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Home      key.Binding
	Chats     key.Binding
	Contacts  key.Binding
	Settings  key.Binding
	Discover  key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Back      key.Binding
}

func DefaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Home: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "home"),
		),
		Chats: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "chats"),
		),
		Contacts: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "contacts"),
		),
		Settings: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "settings"),
		),
		Discover: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "discover"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// DiscoverKeyMap holds the per-row actions of the discovery page. Plain
// letters go to the search box.
type DiscoverKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	StartChat   key.Binding
	AddContact  key.Binding
	OpenProfile key.Binding
	Back        key.Binding
}

func DefaultDiscoverKeyMap() DiscoverKeyMap {
	return DiscoverKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		StartChat: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start chat"),
		),
		AddContact: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "add contact"),
		),
		OpenProfile: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "profile"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

type ProfileKeyMap struct {
	AddContact key.Binding
	StartChat  key.Binding
	Back       key.Binding
}

func DefaultProfileKeyMap() ProfileKeyMap {
	return ProfileKeyMap{
		AddContact: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add contact"),
		),
		StartChat: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "start chat"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

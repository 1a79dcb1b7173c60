package ui

import (
	"fmt"
	"strings"

	"github.com/JRI98/chatrescuer/client/workflow"
	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type discoverState int

const (
	discoverLoading discoverState = iota
	discoverLoaded
	discoverLoadFailed
)

// discoverModel lists every other user and lets the user act on one row at
// a time. A row stays busy until its workflow reports back.
type discoverModel struct {
	id       int
	cmds     *commands
	styles   *Styles
	keyMap   DiscoverKeyMap
	state    discoverState
	profiles []chat.Profile
	search   textinput.Model
	cursor   int
	busy     map[string]bool
}

func newDiscoverModel(id int, cmds *commands, styles *Styles) *discoverModel {
	search := textinput.New()
	search.Placeholder = "Search by name or username"
	search.Prompt = "Search: "
	search.CharLimit = 64

	return &discoverModel{
		id:     id,
		cmds:   cmds,
		styles: styles,
		keyMap: DefaultDiscoverKeyMap(),
		state:  discoverLoading,
		search: search,
		busy:   map[string]bool{},
	}
}

func (m *discoverModel) Init() tea.Cmd {
	return tea.Batch(m.search.Focus(), m.cmds.loadProfiles(m.id))
}

// visible is recomputed on every call so that it always reflects the current
// query.
func (m *discoverModel) visible() []chat.Profile {
	return chat.FilterProfiles(m.profiles, m.search.Value(), m.cmds.selfID)
}

func (m *discoverModel) selected() (chat.Profile, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return chat.Profile{}, false
	}
	return visible[m.cursor], true
}

func (m *discoverModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *discoverModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case profilesLoadedMsg:
		if msg.err != nil {
			m.state = discoverLoadFailed
			m.profiles = nil
			return notify("Error", "Failed to load users", workflow.Destructive)
		}
		m.state = discoverLoaded
		m.profiles = msg.profiles
		m.clampCursor()
		return nil

	case workflowMsg:
		delete(m.busy, msg.userID)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *discoverModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		return func() tea.Msg { return homeMsg{} }

	case key.Matches(msg, m.keyMap.Up):
		m.cursor--
		m.clampCursor()
		return nil

	case key.Matches(msg, m.keyMap.Down):
		m.cursor++
		m.clampCursor()
		return nil

	case key.Matches(msg, m.keyMap.StartChat):
		return m.act(func(target workflow.Target) tea.Cmd {
			return m.cmds.startConversation(m.id, target)
		})

	case key.Matches(msg, m.keyMap.AddContact):
		return m.act(func(target workflow.Target) tea.Cmd {
			return m.cmds.ensureContact(m.id, target)
		})

	case key.Matches(msg, m.keyMap.OpenProfile):
		profile, ok := m.selected()
		if !ok {
			return nil
		}
		return func() tea.Msg { return openProfileMsg{userID: profile.UserID, back: pageDiscover} }
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.clampCursor()
	return cmd
}

func (m *discoverModel) act(run func(target workflow.Target) tea.Cmd) tea.Cmd {
	profile, ok := m.selected()
	if !ok || m.busy[profile.UserID] {
		return nil
	}
	m.busy[profile.UserID] = true
	return run(workflow.Target{UserID: profile.UserID, DisplayName: profile.DisplayName()})
}

func (m *discoverModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Discover People"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Find and connect with other users"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if m.state == discoverLoading {
		b.WriteString(m.styles.Muted.Render("Loading users..."))
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(m.styles.Title.Render("No users found"))
		b.WriteString("\n")
		if m.search.Value() != "" {
			b.WriteString(m.styles.Muted.Render("Try adjusting your search terms"))
		} else {
			b.WriteString(m.styles.Muted.Render("No users available to discover"))
		}
		return b.String()
	}

	for i, profile := range visible {
		line := lipgloss.JoinHorizontal(
			lipgloss.Center,
			m.styles.Avatar.Render(chat.Initials(profile.DisplayName())),
			" ",
			fmt.Sprintf("%s  @%s  %s", profile.FullName, profile.Username, m.styles.Muted.Render(profile.Status.String())),
		)
		if m.busy[profile.UserID] {
			line += m.styles.Muted.Render("  working...")
		}

		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString(m.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *discoverModel) Help() string {
	return "↑/↓: navigate | enter: start chat | ctrl+a: add contact | ctrl+o: profile | esc: back | ctrl+c: quit"
}

package ui

import (
	"strings"

	"github.com/JRI98/chatrescuer/client/workflow"
	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type profileState int

const (
	profileLoading profileState = iota
	profileLoaded
	profileNotFound
)

type profileModel struct {
	id        int
	userID    string
	back      page
	cmds      *commands
	styles    *Styles
	keyMap    ProfileKeyMap
	state     profileState
	profile   chat.Profile
	isContact bool
	busy      bool
}

func newProfileModel(id int, userID string, back page, cmds *commands, styles *Styles) *profileModel {
	return &profileModel{
		id:     id,
		userID: userID,
		back:   back,
		cmds:   cmds,
		styles: styles,
		keyMap: DefaultProfileKeyMap(),
		state:  profileLoading,
	}
}

// Init starts the profile and the membership lookups. They resolve
// independently.
func (m *profileModel) Init() tea.Cmd {
	return tea.Batch(m.cmds.loadProfile(m.id, m.userID), m.cmds.loadMembership(m.id, m.userID))
}

func (m *profileModel) target() workflow.Target {
	return workflow.Target{
		UserID:       m.userID,
		DisplayName:  m.profile.DisplayName(),
		KnownContact: m.isContact,
	}
}

func (m *profileModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.err != nil {
			m.state = profileNotFound
			return notify("Error", "Failed to load profile", workflow.Destructive)
		}
		m.state = profileLoaded
		m.profile = msg.profile
		return nil

	case membershipLoadedMsg:
		m.isContact = msg.isContact
		return nil

	case workflowMsg:
		m.busy = false
		if msg.contact != nil && msg.contact.Kind != workflow.ContactFailed {
			m.isContact = true
		}
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return nil
}

func (m *profileModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keyMap.Back) {
		return func() tea.Msg { return backMsg{to: m.back} }
	}

	if m.state != profileLoaded || m.busy {
		return nil
	}

	switch {
	case key.Matches(msg, m.keyMap.AddContact):
		if m.isContact {
			return nil
		}
		m.busy = true
		return m.cmds.ensureContact(m.id, m.target())

	case key.Matches(msg, m.keyMap.StartChat):
		m.busy = true
		return m.cmds.startConversation(m.id, m.target())
	}

	return nil
}

func (m *profileModel) View() string {
	switch m.state {
	case profileLoading:
		return m.styles.Muted.Render("Loading profile...")
	case profileNotFound:
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Title.Render("User not found"),
			m.styles.Muted.Render("The user you're looking for doesn't exist."),
		)
	}

	profile := m.profile

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.styles.Avatar.Render(chat.Initials(profile.DisplayName())),
		" ",
		lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Title.Render(profile.FullName),
			m.styles.Muted.Render("@"+profile.Username),
		),
	))
	b.WriteString("\n\n")

	b.WriteString("Status: " + profile.Status.String() + "\n")
	b.WriteString(m.styles.Muted.Render("Joined "+profile.CreatedAt.Local().Format("January 2006")) + "\n")
	if profile.LastSeen != nil {
		b.WriteString(m.styles.Muted.Render("Last seen "+profile.LastSeen.Local().Format("Jan 2, 2006, 3:04 PM")) + "\n")
	}
	b.WriteString("\n")

	if m.isContact {
		b.WriteString(m.styles.Badge.Render("Already in your contacts"))
		b.WriteString("\n\n")
	}

	buttons := make([]string, 0, 2)
	if !m.isContact {
		buttons = append(buttons, m.styles.Button.Render("[a] Add Contact"))
	}
	if m.isContact {
		buttons = append(buttons, m.styles.Button.Render("[s] Send Message"))
	} else {
		buttons = append(buttons, m.styles.Button.Render("[s] Start Chat"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	if m.busy {
		b.WriteString("\n" + m.styles.Muted.Render("Working..."))
	}

	return b.String()
}

func (m *profileModel) Help() string {
	if m.state != profileLoaded {
		return "esc: back | ctrl+c: quit"
	}
	return "a: add contact | s: start chat | esc: back | ctrl+c: quit"
}

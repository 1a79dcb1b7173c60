package ui

import (
	"fmt"
	"strings"

	"github.com/JRI98/chatrescuer/client/workflow"
	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHeader(width int) string {
	tabs := make([]string, 0, 4)
	for _, tab := range []Tab{TabWelcome, TabChat, TabContacts, TabSettings} {
		if a.page == pageShell && tab == a.tab {
			tabs = append(tabs, a.styles.ActiveTab.Render(tab.String()))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(tab.String()))
		}
	}

	left := lipgloss.JoinHorizontal(lipgloss.Top, append([]string{a.styles.Header.Render("Chat Rescuer")}, tabs...)...)
	right := a.styles.Tab.Render("[d] Discover  [q] Quit")

	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

func (a *App) renderShell(width int, height int) string {
	sidebarWidth := width / 3
	if sidebarWidth < 24 {
		sidebarWidth = 24
	}
	if sidebarWidth > 40 {
		sidebarWidth = 40
	}
	mainWidth := width - sidebarWidth - 8
	if mainWidth < 20 {
		mainWidth = 20
	}

	var sidebar string
	switch a.tab {
	case TabWelcome:
		sidebar = a.renderWelcomePanel()
	case TabChat:
		sidebar = a.renderConversationsPanel()
	case TabContacts:
		sidebar = a.renderContactsPanel()
	case TabSettings:
		sidebar = a.renderSettingsPanel()
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.styles.Sidebar.Width(sidebarWidth).Height(height).Render(sidebar),
		a.styles.Main.Width(mainWidth).Height(height).Render(a.renderMain()),
	)
}

func (a *App) renderItem(i int, line string) string {
	if i == a.cursor {
		return a.styles.Selected.Render(line)
	}
	return a.styles.Item.Render(line)
}

func (a *App) renderWelcomePanel() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.styles.Title.Render("Getting Started"),
		a.styles.Muted.Render("Discover people to start chatting"),
		"",
		a.styles.Button.Render("[enter] Discover People"),
	)
}

func (a *App) renderConversationsPanel() string {
	lines := []string{a.styles.Title.Render("Chats"), ""}

	if len(a.conversations) == 0 {
		lines = append(lines,
			a.styles.Muted.Render("No conversations yet"),
			a.styles.Muted.Render("Press d to discover people"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, summary := range a.conversations {
		title := summary.Title(a.cmds.selfID)
		if summary.Conversation.ID == a.selectedConversationID {
			title = "● " + title
		}
		lines = append(lines, a.renderItem(i, title))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderContactsPanel() string {
	lines := []string{a.styles.Title.Render("Contacts"), ""}

	if len(a.contacts) == 0 {
		lines = append(lines,
			a.styles.Muted.Render("No contacts yet"),
			a.styles.Muted.Render("Press d to discover people"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, entry := range a.contacts {
		line := fmt.Sprintf("%s %s", entry.Profile.DisplayName(), a.styles.Muted.Render(entry.Profile.Status.String()))
		lines = append(lines, a.renderItem(i, line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderSettingsPanel() string {
	if a.self == nil {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			a.styles.Title.Render("Settings"),
			"",
			a.styles.Muted.Render("Loading profile..."),
		)
	}

	status := "Status: ← " + a.presence.String() + " →"
	if a.presence != a.self.Status {
		status += a.styles.Muted.Render("  (enter to save)")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.styles.Title.Render("Settings"),
		"",
		a.styles.Avatar.Render(chat.Initials(a.self.DisplayName())),
		a.self.FullName,
		a.styles.Muted.Render("@"+a.self.Username),
		"",
		status,
	)
}

func (a *App) selectedConversation() (chat.ConversationSummary, bool) {
	for _, summary := range a.conversations {
		if summary.Conversation.ID == a.selectedConversationID {
			return summary, true
		}
	}
	return chat.ConversationSummary{}, false
}

func (a *App) renderMain() string {
	if a.tab == TabWelcome {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			a.styles.Title.Render("Welcome to Chat Rescuer"),
			a.styles.Muted.Render("Get started in three steps"),
			"",
			"1. Discover people",
			a.styles.Muted.Render("   Press d to browse everyone on the server"),
			"2. Add contacts",
			a.styles.Muted.Render("   Keep the people you talk to close at hand"),
			"3. Start chatting",
			a.styles.Muted.Render("   Open a conversation from the Chats tab"),
		)
	}

	if a.selectedConversationID == "" {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			a.styles.Title.Render("Select a conversation"),
			a.styles.Muted.Render("Choose a conversation from the sidebar to start chatting"),
		)
	}

	summary, ok := a.selectedConversation()
	if !ok {
		return a.styles.Muted.Render("Loading conversation...")
	}

	names := make([]string, 0, len(summary.Participants))
	for _, participant := range summary.Participants {
		names = append(names, participant.DisplayName())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.styles.Title.Render(summary.Title(a.cmds.selfID)),
		a.styles.Muted.Render("Participants: "+strings.Join(names, ", ")),
		a.styles.Muted.Render("Started "+summary.Conversation.CreatedAt.Local().Format("Jan 2, 2006")),
		"",
		a.styles.Muted.Render("No messages yet"),
	)
}

func (a *App) renderToasts() string {
	if len(a.toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(a.toasts))
	for _, t := range a.toasts {
		text := a.styles.Title.Render(t.notification.Title) + "  " + t.notification.Description
		switch t.notification.Variant {
		case workflow.Success:
			rendered = append(rendered, a.styles.Success.Render(text))
		case workflow.Destructive:
			rendered = append(rendered, a.styles.Destructive.Render(text))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (a *App) renderHelpBar(width int) string {
	var help string
	switch a.page {
	case pageDiscover:
		help = a.discover.Help()
	case pageProfile:
		help = a.profile.Help()
	default:
		switch a.tab {
		case TabSettings:
			help = "←/→: change status | enter: save | 1/2/3: tabs | h: home | d: discover | q: quit"
		case TabContacts:
			help = "↑/↓: navigate | enter: profile | 1/2/3: tabs | h: home | d: discover | q: quit"
		case TabChat:
			help = "↑/↓: navigate | enter: open | esc: close | 1/2/3: tabs | h: home | d: discover | q: quit"
		default:
			help = "enter: discover people | 1/2/3: tabs | d: discover | q: quit"
		}
	}
	return a.styles.HelpBar.Width(width).Render(help)
}

package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/JRI98/chatrescuer/client/api"
	"github.com/JRI98/chatrescuer/client/workflow"
	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type page int

const (
	pageShell page = iota
	pageDiscover
	pageProfile
)

// Tab selects the content of the sidebar
type Tab int

const (
	TabWelcome Tab = iota
	TabChat
	TabContacts
	TabSettings
)

func (t Tab) String() string {
	switch t {
	case TabWelcome:
		return "Welcome"
	case TabChat:
		return "Chats"
	case TabContacts:
		return "Contacts"
	case TabSettings:
		return "Settings"
	}
	return "Unknown"
}

const (
	toastDuration = 4 * time.Second
	maxToasts     = 3
)

type toast struct {
	id           int
	notification workflow.Notification
}

type homeMsg struct{}

type Options struct {
	PollInterval time.Duration
	Logger       *slog.Logger
}

// App is the chat shell. It owns the discovery and profile pages while they
// are open.
type App struct {
	cmds         *commands
	styles       *Styles
	keyMap       AppKeyMap
	pollInterval time.Duration

	width  int
	height int

	page                   page
	tab                    Tab
	selectedConversationID string
	cursor                 int

	conversations []chat.ConversationSummary
	contacts      []chat.ContactEntry
	self          *chat.Profile
	presence      chat.Presence

	nextViewID int
	discover   *discoverModel
	profile    *profileModel

	toasts      []toast
	nextToastID int
}

func NewApp(ctx context.Context, backend Backend, selfID string, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		cmds: &commands{
			ctx:      ctx,
			backend:  backend,
			workflow: workflow.New(backend, logger),
			logger:   logger,
			selfID:   selfID,
		},
		styles:       DefaultStyles(),
		keyMap:       DefaultAppKeyMap(),
		pollInterval: opts.PollInterval,
		page:         pageShell,
		tab:          TabWelcome,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.cmds.loadConversations(),
		a.cmds.loadContacts(),
		a.cmds.loadSelf(),
	}
	if a.pollInterval > 0 {
		cmds = append(cmds, pollAfter(a.pollInterval))
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case notifyMsg:
		return a, a.pushToast(msg.notification)

	case toastExpiredMsg:
		a.dropToast(msg.id)
		return a, nil

	case workflowMsg:
		return a, a.handleWorkflow(msg)

	case profilesLoadedMsg:
		if a.discover != nil && a.discover.id == msg.view {
			return a, a.discover.Update(msg)
		}
		return a, nil

	case profileLoadedMsg:
		if a.profile != nil && a.profile.id == msg.view {
			return a, a.profile.Update(msg)
		}
		return a, nil

	case membershipLoadedMsg:
		if a.profile != nil && a.profile.id == msg.view {
			return a, a.profile.Update(msg)
		}
		return a, nil

	case openProfileMsg:
		return a, a.openProfile(msg.userID, msg.back)

	case backMsg:
		a.profile = nil
		if msg.to == pageDiscover && a.discover != nil {
			a.page = pageDiscover
			return a, nil
		}
		a.discover = nil
		a.page = pageShell
		return a, nil

	case homeMsg:
		return a, a.navigateHome()

	case conversationsLoadedMsg:
		if msg.err == nil {
			a.conversations = msg.conversations
			a.clampCursor()
		}
		return a, nil

	case contactsLoadedMsg:
		if msg.err == nil {
			a.contacts = msg.contacts
			a.clampCursor()
		}
		return a, nil

	case selfLoadedMsg:
		if msg.err == nil {
			a.self = &msg.profile
			a.presence = msg.profile.Status
		}
		return a, nil

	case profileSavedMsg:
		if msg.err != nil {
			if a.self != nil {
				a.presence = a.self.Status
			}
			return a, a.pushToast(workflow.Notification{Title: "Error", Description: "Failed to update status", Variant: workflow.Destructive})
		}
		a.self = &msg.profile
		a.presence = msg.profile.Status
		return a, a.pushToast(workflow.Notification{Title: "Status updated", Description: "You are now " + msg.profile.Status.String(), Variant: workflow.Success})

	case pollTickMsg:
		return a, a.cmds.receiveEvents()

	case eventsMsg:
		return a, a.handleEvents(msg)
	}

	if a.page == pageDiscover && a.discover != nil {
		return a, a.discover.Update(msg)
	}

	return a, nil
}

// handleWorkflow applies what a finished workflow reported. Notifications and
// navigation always apply; the outcome only reaches the page that started it.
func (a *App) handleWorkflow(msg workflowMsg) tea.Cmd {
	var cmds []tea.Cmd
	for _, note := range msg.notes {
		cmds = append(cmds, a.pushToast(note))
	}

	switch {
	case a.discover != nil && a.discover.id == msg.view:
		cmds = append(cmds, a.discover.Update(msg))
	case a.profile != nil && a.profile.id == msg.view:
		cmds = append(cmds, a.profile.Update(msg))
	}

	if msg.contact != nil && msg.contact.Kind == workflow.ContactCreated {
		cmds = append(cmds, a.cmds.loadContacts())
	}

	if msg.home {
		cmds = append(cmds, a.navigateHome())
	}

	return tea.Batch(cmds...)
}

func (a *App) handleEvents(msg eventsMsg) tea.Cmd {
	var cmds []tea.Cmd

	refresh := false
	for _, event := range msg.events {
		title := "New activity"
		switch event.Kind {
		case chat.EventContactAdded:
			title = "New contact request"
		case chat.EventConversationStarted:
			title = "New conversation"
			refresh = true
		}
		cmds = append(cmds, a.pushToast(workflow.Notification{Title: title, Description: event.Describe(), Variant: workflow.Success}))
	}
	if refresh {
		cmds = append(cmds, a.cmds.loadConversations())
	}

	if a.pollInterval > 0 {
		cmds = append(cmds, pollAfter(a.pollInterval))
	}

	return tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keyMap.ForceQuit) {
		return tea.Quit
	}

	switch a.page {
	case pageDiscover:
		return a.discover.Update(msg)
	case pageProfile:
		return a.profile.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keyMap.Quit):
		return tea.Quit

	case key.Matches(msg, a.keyMap.Home):
		return a.navigateHome()

	case key.Matches(msg, a.keyMap.Chats):
		a.setTab(TabChat)

	case key.Matches(msg, a.keyMap.Contacts):
		a.setTab(TabContacts)

	case key.Matches(msg, a.keyMap.Settings):
		a.setTab(TabSettings)

	case key.Matches(msg, a.keyMap.Discover):
		return a.openDiscover()

	case key.Matches(msg, a.keyMap.Up):
		a.cursor--
		a.clampCursor()

	case key.Matches(msg, a.keyMap.Down):
		a.cursor++
		a.clampCursor()

	case key.Matches(msg, a.keyMap.Left):
		if a.tab == TabSettings {
			a.presence = previousPresence(a.presence)
		}

	case key.Matches(msg, a.keyMap.Right):
		if a.tab == TabSettings {
			a.presence = a.presence.Next()
		}

	case key.Matches(msg, a.keyMap.Back):
		a.selectedConversationID = ""

	case key.Matches(msg, a.keyMap.Enter):
		return a.activate()
	}

	return nil
}

// activate runs the enter action of the current sidebar tab.
func (a *App) activate() tea.Cmd {
	switch a.tab {
	case TabWelcome:
		return a.openDiscover()

	case TabChat:
		if a.cursor < len(a.conversations) {
			a.selectedConversationID = a.conversations[a.cursor].Conversation.ID
		}

	case TabContacts:
		if a.cursor < len(a.contacts) {
			return a.openProfile(a.contacts[a.cursor].Profile.UserID, pageShell)
		}

	case TabSettings:
		if a.self == nil || a.presence == a.self.Status {
			return nil
		}
		return a.cmds.saveProfile(api.UpdateProfileData{
			FullName: a.self.FullName,
			Username: a.self.Username,
			Status:   a.presence,
		})
	}

	return nil
}

func (a *App) setTab(tab Tab) {
	a.tab = tab
	a.cursor = 0
}

func (a *App) listLen() int {
	switch a.tab {
	case TabChat:
		return len(a.conversations)
	case TabContacts:
		return len(a.contacts)
	}
	return 0
}

func (a *App) clampCursor() {
	n := a.listLen()
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// navigateHome enters the root page. The shell starts over on the welcome
// tab with nothing selected.
func (a *App) navigateHome() tea.Cmd {
	a.page = pageShell
	a.tab = TabWelcome
	a.selectedConversationID = ""
	a.cursor = 0
	a.discover = nil
	a.profile = nil

	return tea.Batch(a.cmds.loadConversations(), a.cmds.loadContacts())
}

func (a *App) openDiscover() tea.Cmd {
	a.nextViewID++
	a.discover = newDiscoverModel(a.nextViewID, a.cmds, a.styles)
	a.profile = nil
	a.page = pageDiscover
	return a.discover.Init()
}

func (a *App) openProfile(userID string, back page) tea.Cmd {
	a.nextViewID++
	a.profile = newProfileModel(a.nextViewID, userID, back, a.cmds, a.styles)
	a.page = pageProfile
	return a.profile.Init()
}

func (a *App) pushToast(notification workflow.Notification) tea.Cmd {
	a.nextToastID++
	id := a.nextToastID

	a.toasts = append(a.toasts, toast{id: id, notification: notification})
	if len(a.toasts) > maxToasts {
		a.toasts = a.toasts[len(a.toasts)-maxToasts:]
	}

	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (a *App) dropToast(id int) {
	for i, t := range a.toasts {
		if t.id == id {
			a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
			return
		}
	}
}

func previousPresence(p chat.Presence) chat.Presence {
	for i, presence := range chat.Presences {
		if presence == p {
			return chat.Presences[(i+len(chat.Presences)-1)%len(chat.Presences)]
		}
	}
	return chat.PresenceAvailable
}

func (a *App) View() string {
	width, height := a.width, a.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	toasts := a.renderToasts()
	bodyHeight := height - lipgloss.Height(toasts) - 4
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	var body string
	switch a.page {
	case pageDiscover:
		body = a.styles.Main.Width(width - 4).Height(bodyHeight).Render(a.discover.View())
	case pageProfile:
		body = a.styles.Main.Width(width - 4).Height(bodyHeight).Render(a.profile.View())
	default:
		body = a.renderShell(width, bodyHeight)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderHeader(width),
		body,
		toasts,
		a.renderHelpBar(width),
	)

	return lipgloss.NewStyle().
		MaxHeight(height).
		MaxWidth(width).
		Render(content)
}

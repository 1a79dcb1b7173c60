package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JRI98/chatrescuer/client/api"
	"github.com/JRI98/chatrescuer/client/workflow"
	"github.com/JRI98/chatrescuer/internal/chat"
	tea "github.com/charmbracelet/bubbletea"
)

// Backend is the remote store as seen by the pages.
type Backend interface {
	workflow.Store
	ListProfiles(ctx context.Context) ([]chat.Profile, error)
	GetProfile(ctx context.Context, userID string) (chat.Profile, error)
	UpdateProfile(ctx context.Context, data api.UpdateProfileData) (chat.Profile, error)
	ListContacts(ctx context.Context, userID string) ([]chat.ContactEntry, error)
	ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error)
	ReceiveEvents(ctx context.Context) ([]chat.Event, error)
}

// Messages for internal communication. Messages produced for a page carry
// the page's view id so that results for a page that is gone are ignored.
type (
	profilesLoadedMsg struct {
		view     int
		profiles []chat.Profile
		err      error
	}

	profileLoadedMsg struct {
		view    int
		profile chat.Profile
		err     error
	}

	membershipLoadedMsg struct {
		view      int
		isContact bool
	}

	workflowMsg struct {
		view         int
		userID       string
		contact      *workflow.ContactOutcome
		conversation *workflow.ConversationOutcome
		notes        []workflow.Notification
		home         bool
	}

	conversationsLoadedMsg struct {
		conversations []chat.ConversationSummary
		err           error
	}

	contactsLoadedMsg struct {
		contacts []chat.ContactEntry
		err      error
	}

	selfLoadedMsg struct {
		profile chat.Profile
		err     error
	}

	profileSavedMsg struct {
		profile chat.Profile
		err     error
	}

	eventsMsg struct {
		events []chat.Event
		err    error
	}

	pollTickMsg struct{}

	notifyMsg struct {
		notification workflow.Notification
	}

	toastExpiredMsg struct {
		id int
	}

	openProfileMsg struct {
		userID string
		back   page
	}

	backMsg struct {
		to page
	}
)

// recorder collects what a workflow reports while it runs off the event loop.
type recorder struct {
	notes []workflow.Notification
	home  bool
}

func (r *recorder) Notify(notification workflow.Notification) {
	r.notes = append(r.notes, notification)
}

func (r *recorder) NavigateHome() {
	r.home = true
}

type commands struct {
	ctx      context.Context
	backend  Backend
	workflow *workflow.Workflow
	logger   *slog.Logger
	selfID   string
}

func (c *commands) session(rec *recorder) workflow.Session {
	return workflow.Session{
		SelfID:    c.selfID,
		Notifier:  rec,
		Navigator: rec,
	}
}

func (c *commands) ensureContact(view int, target workflow.Target) tea.Cmd {
	return func() tea.Msg {
		rec := &recorder{}
		outcome := c.workflow.EnsureContact(c.ctx, c.session(rec), target)
		return workflowMsg{view: view, userID: target.UserID, contact: &outcome, notes: rec.notes, home: rec.home}
	}
}

func (c *commands) startConversation(view int, target workflow.Target) tea.Cmd {
	return func() tea.Msg {
		rec := &recorder{}
		outcome := c.workflow.StartConversation(c.ctx, c.session(rec), target)
		return workflowMsg{view: view, userID: target.UserID, conversation: &outcome, notes: rec.notes, home: rec.home}
	}
}

func (c *commands) loadProfiles(view int) tea.Cmd {
	return func() tea.Msg {
		profiles, err := c.backend.ListProfiles(c.ctx)
		if err != nil {
			c.logger.Error("Could not load profiles", slog.Any("err", err))
		}
		return profilesLoadedMsg{view: view, profiles: profiles, err: err}
	}
}

func (c *commands) loadProfile(view int, userID string) tea.Cmd {
	return func() tea.Msg {
		profile, err := c.backend.GetProfile(c.ctx, userID)
		if err != nil {
			c.logger.Error("Could not load profile", slog.Any("err", err), slog.String("user", userID))
		}
		return profileLoadedMsg{view: view, profile: profile, err: err}
	}
}

// loadMembership reports whether userID is in the user's contacts. Any
// failure counts as not a contact.
func (c *commands) loadMembership(view int, userID string) tea.Cmd {
	return func() tea.Msg {
		_, err := c.backend.FindContact(c.ctx, c.selfID, userID)
		if err != nil && !errors.Is(err, chat.ErrNotFound) {
			c.logger.Warn("Could not check contact", slog.Any("err", err), slog.String("user", userID))
		}
		return membershipLoadedMsg{view: view, isContact: err == nil}
	}
}

func (c *commands) loadConversations() tea.Cmd {
	return func() tea.Msg {
		conversations, err := c.backend.ListConversations(c.ctx, c.selfID)
		if err != nil {
			c.logger.Error("Could not load conversations", slog.Any("err", err))
		}
		return conversationsLoadedMsg{conversations: conversations, err: err}
	}
}

func (c *commands) loadContacts() tea.Cmd {
	return func() tea.Msg {
		contacts, err := c.backend.ListContacts(c.ctx, c.selfID)
		if err != nil {
			c.logger.Error("Could not load contacts", slog.Any("err", err))
		}
		return contactsLoadedMsg{contacts: contacts, err: err}
	}
}

func (c *commands) loadSelf() tea.Cmd {
	return func() tea.Msg {
		profile, err := c.backend.GetProfile(c.ctx, c.selfID)
		if err != nil {
			c.logger.Error("Could not load own profile", slog.Any("err", err))
		}
		return selfLoadedMsg{profile: profile, err: err}
	}
}

func (c *commands) saveProfile(data api.UpdateProfileData) tea.Cmd {
	return func() tea.Msg {
		profile, err := c.backend.UpdateProfile(c.ctx, data)
		if err != nil {
			c.logger.Error("Could not update profile", slog.Any("err", err))
		}
		return profileSavedMsg{profile: profile, err: err}
	}
}

func (c *commands) receiveEvents() tea.Cmd {
	return func() tea.Msg {
		events, err := c.backend.ReceiveEvents(c.ctx)
		if err != nil {
			c.logger.Warn("Could not receive events", slog.Any("err", err))
		}
		return eventsMsg{events: events, err: err}
	}
}

func pollAfter(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func notify(title string, description string, variant workflow.Variant) tea.Cmd {
	return func() tea.Msg {
		return notifyMsg{notification: workflow.Notification{Title: title, Description: description, Variant: variant}}
	}
}

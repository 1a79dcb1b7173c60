package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JRI98/chatrescuer/client/api"
	"github.com/JRI98/chatrescuer/client/workflow"
	"github.com/JRI98/chatrescuer/internal/chat"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	profiles      []chat.Profile
	contacts      []chat.Contact
	conversations []chat.Conversation
	participants  []chat.Participant

	findErr    error
	profileErr error
}

func (b *fakeBackend) FindContact(_ context.Context, userID string, contactID string) (chat.Contact, error) {
	if b.findErr != nil {
		return chat.Contact{}, b.findErr
	}
	for _, contact := range b.contacts {
		if contact.UserID == userID && contact.ContactID == contactID {
			return contact, nil
		}
	}
	return chat.Contact{}, chat.ErrNotFound
}

func (b *fakeBackend) InsertContact(_ context.Context, userID string, contactID string, status chat.ContactStatus) (chat.Contact, error) {
	contact := chat.Contact{ID: "contact", UserID: userID, ContactID: contactID, Status: status}
	b.contacts = append(b.contacts, contact)
	return contact, nil
}

func (b *fakeBackend) InsertConversation(_ context.Context, createdBy string, isGroup bool) (chat.Conversation, error) {
	conversation := chat.Conversation{ID: "conv", CreatedBy: createdBy, IsGroup: isGroup}
	b.conversations = append(b.conversations, conversation)
	return conversation, nil
}

func (b *fakeBackend) InsertParticipants(_ context.Context, participants []chat.Participant) ([]chat.Participant, error) {
	b.participants = append(b.participants, participants...)
	return participants, nil
}

func (b *fakeBackend) ListProfiles(context.Context) ([]chat.Profile, error) {
	return b.profiles, nil
}

func (b *fakeBackend) GetProfile(_ context.Context, userID string) (chat.Profile, error) {
	if b.profileErr != nil {
		return chat.Profile{}, b.profileErr
	}
	for _, profile := range b.profiles {
		if profile.UserID == userID {
			return profile, nil
		}
	}
	return chat.Profile{}, chat.ErrNotFound
}

func (b *fakeBackend) UpdateProfile(_ context.Context, data api.UpdateProfileData) (chat.Profile, error) {
	return chat.Profile{UserID: "u1", FullName: data.FullName, Username: data.Username, Status: data.Status}, nil
}

func (b *fakeBackend) ListContacts(context.Context, string) ([]chat.ContactEntry, error) {
	return nil, nil
}

func (b *fakeBackend) ListConversations(context.Context, string) ([]chat.ConversationSummary, error) {
	return nil, nil
}

func (b *fakeBackend) ReceiveEvents(context.Context) ([]chat.Event, error) {
	return nil, nil
}

var testProfiles = []chat.Profile{
	{UserID: "u1", FullName: "Alice Carter", Username: "alice"},
	{UserID: "u2", FullName: "Bob Builder", Username: "bob"},
	{UserID: "u3", FullName: "Carol Danvers", Username: "carol"},
}

func newTestApp(backend *fakeBackend) *App {
	return NewApp(context.Background(), backend, "u1", Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and every command it batches. Only use it on commands that
// do not wait on timers.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, collect(t, c)...)
	}
	return msgs
}

func update(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func openLoadedDiscover(t *testing.T, a *App) {
	t.Helper()
	update(a, keyRunes("d"))
	require.Equal(t, pageDiscover, a.page)
	require.NotNil(t, a.discover)
	require.Nil(t, update(a, profilesLoadedMsg{view: a.discover.id, profiles: testProfiles}))
	require.Equal(t, discoverLoaded, a.discover.state)
}

func TestNewAppStartsOnWelcome(t *testing.T) {
	a := newTestApp(&fakeBackend{})

	require.Equal(t, pageShell, a.page)
	require.Equal(t, TabWelcome, a.tab)
	require.Empty(t, a.selectedConversationID)
	require.Contains(t, a.View(), "Welcome to Chat Rescuer")
	require.Contains(t, a.View(), "Getting Started")
}

func TestSelectConversationAndGoHome(t *testing.T) {
	a := newTestApp(&fakeBackend{})

	update(a, conversationsLoadedMsg{conversations: []chat.ConversationSummary{
		{
			Conversation: chat.Conversation{ID: "c1", CreatedBy: "u1"},
			Participants: []chat.Profile{testProfiles[0], testProfiles[1]},
		},
	}})

	update(a, keyRunes("1"))
	require.Equal(t, TabChat, a.tab)
	require.Contains(t, a.View(), "Select a conversation")

	update(a, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "c1", a.selectedConversationID)
	require.Contains(t, a.View(), "Bob Builder")

	update(a, keyRunes("h"))
	require.Equal(t, TabWelcome, a.tab)
	require.Empty(t, a.selectedConversationID)
}

func TestSettingsCyclesPresence(t *testing.T) {
	a := newTestApp(&fakeBackend{})
	update(a, selfLoadedMsg{profile: chat.Profile{UserID: "u1", FullName: "Alice Carter", Username: "alice", Status: chat.PresenceAvailable}})

	update(a, keyRunes("3"))
	update(a, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, chat.PresenceBusy, a.presence)
	update(a, tea.KeyMsg{Type: tea.KeyLeft})
	update(a, tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, chat.PresenceOffline, a.presence)

	msgs := collect(t, update(a, tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	saved, ok := msgs[0].(profileSavedMsg)
	require.True(t, ok)
	require.Equal(t, chat.PresenceOffline, saved.profile.Status)

	update(a, saved)
	require.Equal(t, chat.PresenceOffline, a.self.Status)
	require.Len(t, a.toasts, 1)
	require.Equal(t, "Status updated", a.toasts[0].notification.Title)
}

func TestDiscoverFiltersProfiles(t *testing.T) {
	a := newTestApp(&fakeBackend{})
	openLoadedDiscover(t, a)

	require.Len(t, a.discover.visible(), 2)
	view := a.View()
	require.Contains(t, view, "Bob Builder")
	require.Contains(t, view, "Carol Danvers")
	require.NotContains(t, view, "Alice Carter")

	a.discover.search.SetValue("car")
	visible := a.discover.visible()
	require.Len(t, visible, 1)
	require.Equal(t, "u3", visible[0].UserID)

	a.discover.search.SetValue("zzz")
	require.Empty(t, a.discover.visible())
	require.Contains(t, a.View(), "Try adjusting your search terms")
}

func TestDiscoverLoadFailure(t *testing.T) {
	a := newTestApp(&fakeBackend{})
	update(a, keyRunes("d"))

	cmd := update(a, profilesLoadedMsg{view: a.discover.id, err: errors.New("boom")})
	require.Equal(t, discoverLoadFailed, a.discover.state)
	require.Empty(t, a.discover.visible())
	require.Contains(t, a.View(), "No users available to discover")

	msgs := collect(t, cmd)
	require.Equal(t, []tea.Msg{notifyMsg{notification: workflow.Notification{
		Title:       "Error",
		Description: "Failed to load users",
		Variant:     workflow.Destructive,
	}}}, msgs)

	update(a, msgs[0])
	require.Len(t, a.toasts, 1)
	require.Contains(t, a.View(), "Failed to load users")
}

func TestDiscoverStartChatNavigatesHome(t *testing.T) {
	backend := &fakeBackend{}
	a := newTestApp(backend)
	openLoadedDiscover(t, a)

	cmd := update(a, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, a.discover.busy["u2"])
	require.False(t, a.discover.busy["u3"])

	// The row is busy until the workflow reports back.
	require.Nil(t, update(a, tea.KeyMsg{Type: tea.KeyEnter}))

	msgs := collect(t, cmd)
	require.Len(t, msgs, 1)
	result, ok := msgs[0].(workflowMsg)
	require.True(t, ok)
	require.True(t, result.home)
	require.Equal(t, workflow.ConversationStarted, result.conversation.Kind)

	require.Equal(t, []chat.Contact{{ID: "contact", UserID: "u1", ContactID: "u2", Status: chat.ContactAccepted}}, backend.contacts)
	require.Equal(t, []chat.Conversation{{ID: "conv", CreatedBy: "u1"}}, backend.conversations)
	require.Equal(t, chat.DirectParticipants("conv", "u1", "u2"), backend.participants)

	update(a, result)
	require.Equal(t, pageShell, a.page)
	require.Equal(t, TabWelcome, a.tab)
	require.Empty(t, a.selectedConversationID)
	require.Nil(t, a.discover)

	titles := make([]string, 0, len(a.toasts))
	for _, item := range a.toasts {
		titles = append(titles, item.notification.Title)
	}
	require.Equal(t, []string{"Contact added", "Conversation started"}, titles)
}

func TestDiscoverRowsAreIndependent(t *testing.T) {
	a := newTestApp(&fakeBackend{})
	openLoadedDiscover(t, a)

	require.NotNil(t, update(a, tea.KeyMsg{Type: tea.KeyCtrlA}))
	update(a, tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, update(a, tea.KeyMsg{Type: tea.KeyCtrlA}))

	require.True(t, a.discover.busy["u2"])
	require.True(t, a.discover.busy["u3"])

	update(a, workflowMsg{view: a.discover.id, userID: "u2"})
	require.False(t, a.discover.busy["u2"])
	require.True(t, a.discover.busy["u3"])
}

func TestStaleWorkflowResultKeepsNotifications(t *testing.T) {
	a := newTestApp(&fakeBackend{})
	openLoadedDiscover(t, a)
	oldView := a.discover.id

	// Leave and come back; the new page is a different view.
	collect(t, update(a, tea.KeyMsg{Type: tea.KeyEsc}))
	update(a, homeMsg{})
	require.Nil(t, a.discover)
	openLoadedDiscover(t, a)
	a.discover.busy["u2"] = true

	update(a, workflowMsg{
		view:   oldView,
		userID: "u2",
		notes:  []workflow.Notification{{Title: "Contact added", Description: "Bob Builder has been added to your contacts"}},
	})

	require.True(t, a.discover.busy["u2"])
	require.Len(t, a.toasts, 1)
	require.Equal(t, pageDiscover, a.page)
}

func TestOpenProfileFromDiscover(t *testing.T) {
	a := newTestApp(&fakeBackend{profiles: testProfiles})
	openLoadedDiscover(t, a)
	update(a, tea.KeyMsg{Type: tea.KeyDown})

	msgs := collect(t, update(a, tea.KeyMsg{Type: tea.KeyCtrlO}))
	require.Equal(t, []tea.Msg{openProfileMsg{userID: "u3", back: pageDiscover}}, msgs)

	update(a, msgs[0])
	require.Equal(t, pageProfile, a.page)
	require.Equal(t, "u3", a.profile.userID)

	msgs = collect(t, update(a, tea.KeyMsg{Type: tea.KeyEsc}))
	update(a, msgs[0])
	require.Equal(t, pageDiscover, a.page)
	require.Nil(t, a.profile)
	require.NotNil(t, a.discover)
}

func TestEventsBecomeNotifications(t *testing.T) {
	a := newTestApp(&fakeBackend{})

	cmd := update(a, eventsMsg{events: []chat.Event{
		{Kind: chat.EventConversationStarted, ActorName: "Bob Builder", ConversationID: "c1"},
	}})
	require.NotNil(t, cmd)
	require.Len(t, a.toasts, 1)
	require.Equal(t, "Bob Builder started a conversation with you", a.toasts[0].notification.Description)

	update(a, toastExpiredMsg{id: a.toasts[0].id})
	require.Empty(t, a.toasts)
}

package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	contacts      []chat.Contact
	conversations []chat.Conversation
	participants  []chat.Participant

	findErr          error
	insertContactErr error
	conversationErr  error
	participantsErr  error
	// raceContact inserts the contact between the lookup and the insert.
	raceContact bool
}

func (s *fakeStore) FindContact(_ context.Context, userID string, contactID string) (chat.Contact, error) {
	if s.findErr != nil {
		return chat.Contact{}, s.findErr
	}
	for _, contact := range s.contacts {
		if contact.UserID == userID && contact.ContactID == contactID {
			return contact, nil
		}
	}
	if s.raceContact {
		s.contacts = append(s.contacts, chat.Contact{ID: "raced", UserID: userID, ContactID: contactID})
	}
	return chat.Contact{}, chat.ErrNotFound
}

func (s *fakeStore) InsertContact(_ context.Context, userID string, contactID string, status chat.ContactStatus) (chat.Contact, error) {
	if s.insertContactErr != nil {
		return chat.Contact{}, s.insertContactErr
	}
	for _, contact := range s.contacts {
		if contact.UserID == userID && contact.ContactID == contactID {
			return chat.Contact{}, chat.ErrDuplicate
		}
	}
	contact := chat.Contact{ID: "contact-" + strconv.Itoa(len(s.contacts)+1), UserID: userID, ContactID: contactID, Status: status}
	s.contacts = append(s.contacts, contact)
	return contact, nil
}

func (s *fakeStore) InsertConversation(_ context.Context, createdBy string, isGroup bool) (chat.Conversation, error) {
	if s.conversationErr != nil {
		return chat.Conversation{}, s.conversationErr
	}
	conversation := chat.Conversation{ID: "conv-" + strconv.Itoa(len(s.conversations)+1), CreatedBy: createdBy, IsGroup: isGroup}
	s.conversations = append(s.conversations, conversation)
	return conversation, nil
}

func (s *fakeStore) InsertParticipants(_ context.Context, participants []chat.Participant) ([]chat.Participant, error) {
	if s.participantsErr != nil {
		return nil, s.participantsErr
	}
	s.participants = append(s.participants, participants...)
	return participants, nil
}

type recorder struct {
	notifications []Notification
	homes         int
}

func (r *recorder) Notify(notification Notification) {
	r.notifications = append(r.notifications, notification)
}

func (r *recorder) NavigateHome() {
	r.homes++
}

func newTestWorkflow(store *fakeStore) (*Workflow, *recorder, Session) {
	rec := &recorder{}
	session := Session{SelfID: "u1", Notifier: rec, Navigator: rec}
	return New(store, slog.New(slog.NewTextHandler(io.Discard, nil))), rec, session
}

var bob = Target{UserID: "u2", DisplayName: "Bob"}

func TestEnsureContactTwice(t *testing.T) {
	store := &fakeStore{}
	w, rec, session := newTestWorkflow(store)

	outcome := w.EnsureContact(context.Background(), session, bob)
	require.Equal(t, ContactCreated, outcome.Kind)
	require.Equal(t, chat.ContactAccepted, outcome.Contact.Status)
	require.Equal(t, "u1", outcome.Contact.UserID)
	require.Equal(t, "u2", outcome.Contact.ContactID)

	outcome = w.EnsureContact(context.Background(), session, bob)
	require.Equal(t, ContactAlreadyExists, outcome.Kind)

	require.Len(t, store.contacts, 1)
	require.Equal(t, []Notification{
		{Title: "Contact added", Description: "Bob has been added to your contacts", Variant: Success},
		{Title: "Contact exists", Description: "This user is already in your contacts", Variant: Destructive},
	}, rec.notifications)
}

func TestEnsureContactExisting(t *testing.T) {
	store := &fakeStore{contacts: []chat.Contact{{ID: "c1", UserID: "u1", ContactID: "u2", Status: chat.ContactAccepted}}}
	w, rec, session := newTestWorkflow(store)

	outcome := w.EnsureContact(context.Background(), session, bob)
	require.Equal(t, ContactAlreadyExists, outcome.Kind)
	require.Len(t, store.contacts, 1)
	require.Len(t, rec.notifications, 1)
	require.Equal(t, Destructive, rec.notifications[0].Variant)
}

func TestEnsureContactFailures(t *testing.T) {
	backendErr := errors.New("connection refused")

	tests := []struct {
		name    string
		store   *fakeStore
		target  Target
		wantErr error
		want    ContactKind
	}{
		{
			name:    "self",
			store:   &fakeStore{},
			target:  Target{UserID: "u1", DisplayName: "Me"},
			wantErr: chat.ErrInvalidTarget,
			want:    ContactFailed,
		},
		{
			name:    "empty target",
			store:   &fakeStore{},
			target:  Target{},
			wantErr: chat.ErrInvalidTarget,
			want:    ContactFailed,
		},
		{
			name:    "lookup fails",
			store:   &fakeStore{findErr: backendErr},
			target:  bob,
			wantErr: backendErr,
			want:    ContactFailed,
		},
		{
			name:    "insert fails",
			store:   &fakeStore{insertContactErr: backendErr},
			target:  bob,
			wantErr: backendErr,
			want:    ContactFailed,
		},
		{
			name:   "lost race",
			store:  &fakeStore{raceContact: true},
			target: bob,
			want:   ContactAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, rec, session := newTestWorkflow(tt.store)

			outcome := w.EnsureContact(context.Background(), session, tt.target)
			require.Equal(t, tt.want, outcome.Kind)
			if tt.wantErr != nil {
				require.ErrorIs(t, outcome.Err, tt.wantErr)
				require.Equal(t, []Notification{{Title: "Error", Description: "Failed to add contact", Variant: Destructive}}, rec.notifications)
			}
			require.Equal(t, 0, rec.homes)
		})
	}
}

func TestStartConversationWithNewContact(t *testing.T) {
	store := &fakeStore{}
	w, rec, session := newTestWorkflow(store)

	outcome := w.StartConversation(context.Background(), session, bob)
	require.Equal(t, ConversationStarted, outcome.Kind)

	require.Equal(t, []chat.Contact{{ID: "contact-1", UserID: "u1", ContactID: "u2", Status: chat.ContactAccepted}}, store.contacts)
	require.Equal(t, []chat.Conversation{{ID: outcome.ConversationID, CreatedBy: "u1", IsGroup: false}}, store.conversations)
	require.Equal(t, []chat.Participant{
		{ConversationID: outcome.ConversationID, UserID: "u1"},
		{ConversationID: outcome.ConversationID, UserID: "u2"},
	}, store.participants)

	require.Equal(t, 1, rec.homes)
	require.Equal(t, Notification{Title: "Conversation started", Description: "You can now chat with Bob", Variant: Success}, rec.notifications[len(rec.notifications)-1])
}

func TestStartConversationWithKnownContact(t *testing.T) {
	store := &fakeStore{findErr: errors.New("must not be called")}
	w, rec, session := newTestWorkflow(store)

	target := bob
	target.KnownContact = true

	outcome := w.StartConversation(context.Background(), session, target)
	require.Equal(t, ConversationStarted, outcome.Kind)
	require.Empty(t, store.contacts)
	require.Len(t, store.participants, 2)
	require.Len(t, rec.notifications, 1)
}

func TestStartConversationContactFailureDoesNotAbort(t *testing.T) {
	store := &fakeStore{insertContactErr: errors.New("boom")}
	w, rec, session := newTestWorkflow(store)

	outcome := w.StartConversation(context.Background(), session, bob)
	require.Equal(t, ConversationStarted, outcome.Kind)
	require.Len(t, store.conversations, 1)
	require.Equal(t, 1, rec.homes)
}

func TestStartConversationFailures(t *testing.T) {
	tests := []struct {
		name             string
		store            *fakeStore
		conversations    int
		participantsRows int
	}{
		{
			name:  "conversation insert fails",
			store: &fakeStore{conversationErr: errors.New("boom")},
		},
		{
			name:          "participants insert fails",
			store:         &fakeStore{participantsErr: errors.New("boom")},
			conversations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, rec, session := newTestWorkflow(tt.store)

			outcome := w.StartConversation(context.Background(), session, bob)
			require.Equal(t, ConversationFailed, outcome.Kind)
			require.Error(t, outcome.Err)
			require.Empty(t, outcome.ConversationID)

			require.Len(t, tt.store.conversations, tt.conversations)
			require.Len(t, tt.store.participants, tt.participantsRows)
			require.Equal(t, 0, rec.homes)
			require.Equal(t, Notification{Title: "Error", Description: "Failed to start conversation", Variant: Destructive}, rec.notifications[len(rec.notifications)-1])
		})
	}
}

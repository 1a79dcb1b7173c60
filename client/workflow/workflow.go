package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JRI98/chatrescuer/internal/chat"
)

// Store is the part of the remote store the workflows need.
type Store interface {
	FindContact(ctx context.Context, userID string, contactID string) (chat.Contact, error)
	InsertContact(ctx context.Context, userID string, contactID string, status chat.ContactStatus) (chat.Contact, error)
	InsertConversation(ctx context.Context, createdBy string, isGroup bool) (chat.Conversation, error)
	InsertParticipants(ctx context.Context, participants []chat.Participant) ([]chat.Participant, error)
}

type Variant int

const (
	Success Variant = iota
	Destructive
)

type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

type Notifier interface {
	Notify(notification Notification)
}

type Navigator interface {
	NavigateHome()
}

// Session is the signed-in user together with the surfaces a workflow reports to.
type Session struct {
	SelfID    string
	Notifier  Notifier
	Navigator Navigator
}

type Target struct {
	UserID      string
	DisplayName string
	// KnownContact skips the contact step of StartConversation.
	KnownContact bool
}

type ContactKind int

const (
	ContactCreated ContactKind = iota
	ContactAlreadyExists
	ContactFailed
)

type ContactOutcome struct {
	Kind    ContactKind
	Contact chat.Contact
	Err     error
}

type ConversationKind int

const (
	ConversationStarted ConversationKind = iota
	ConversationFailed
)

type ConversationOutcome struct {
	Kind           ConversationKind
	ConversationID string
	Err            error
}

type Workflow struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Workflow {
	return &Workflow{
		store:  store,
		logger: logger,
	}
}

// EnsureContact adds target to the user's contacts unless it is already there.
// The lookup and the insert are separate requests; a concurrent insert of the
// same pair surfaces as a conflict and is reported as already existing.
func (w *Workflow) EnsureContact(ctx context.Context, session Session, target Target) ContactOutcome {
	if session.SelfID == "" || target.UserID == "" || session.SelfID == target.UserID {
		return w.contactFailed(session, target, chat.ErrInvalidTarget)
	}

	_, err := w.store.FindContact(ctx, session.SelfID, target.UserID)
	if err == nil {
		return w.contactExists(session)
	}
	if !errors.Is(err, chat.ErrNotFound) {
		return w.contactFailed(session, target, err)
	}

	contact, err := w.store.InsertContact(ctx, session.SelfID, target.UserID, chat.ContactAccepted)
	if errors.Is(err, chat.ErrDuplicate) {
		return w.contactExists(session)
	}
	if err != nil {
		return w.contactFailed(session, target, err)
	}

	session.Notifier.Notify(Notification{
		Title:       "Contact added",
		Description: target.DisplayName + " has been added to your contacts",
		Variant:     Success,
	})

	return ContactOutcome{Kind: ContactCreated, Contact: contact}
}

func (w *Workflow) contactExists(session Session) ContactOutcome {
	session.Notifier.Notify(Notification{
		Title:       "Contact exists",
		Description: "This user is already in your contacts",
		Variant:     Destructive,
	})
	return ContactOutcome{Kind: ContactAlreadyExists}
}

func (w *Workflow) contactFailed(session Session, target Target, err error) ContactOutcome {
	w.logger.Error("Could not add contact", slog.Any("err", err), slog.String("target", target.UserID))
	session.Notifier.Notify(Notification{
		Title:       "Error",
		Description: "Failed to add contact",
		Variant:     Destructive,
	})
	return ContactOutcome{Kind: ContactFailed, Err: err}
}

// StartConversation opens a direct conversation with target and navigates
// home. The conversation and its participants are inserted by two separate
// requests and a conversation whose participants could not be added is left
// behind.
func (w *Workflow) StartConversation(ctx context.Context, session Session, target Target) ConversationOutcome {
	if !target.KnownContact {
		w.EnsureContact(ctx, session, target)
	}

	conversation, err := w.store.InsertConversation(ctx, session.SelfID, false)
	if err != nil {
		return w.conversationFailed(session, target, err)
	}

	_, err = w.store.InsertParticipants(ctx, chat.DirectParticipants(conversation.ID, session.SelfID, target.UserID))
	if err != nil {
		return w.conversationFailed(session, target, err)
	}

	session.Notifier.Notify(Notification{
		Title:       "Conversation started",
		Description: "You can now chat with " + target.DisplayName,
		Variant:     Success,
	})
	session.Navigator.NavigateHome()

	return ConversationOutcome{Kind: ConversationStarted, ConversationID: conversation.ID}
}

func (w *Workflow) conversationFailed(session Session, target Target, err error) ConversationOutcome {
	w.logger.Error("Could not start conversation", slog.Any("err", err), slog.String("target", target.UserID))
	session.Notifier.Notify(Notification{
		Title:       "Error",
		Description: "Failed to start conversation",
		Variant:     Destructive,
	})
	return ConversationOutcome{Kind: ConversationFailed, Err: err}
}

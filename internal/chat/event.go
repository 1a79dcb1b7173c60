package chat

import "time"

type EventKind string

const (
	EventContactAdded        EventKind = "contact_added"
	EventConversationStarted EventKind = "conversation_started"
)

// Event tells a user that someone else acted on them.
type Event struct {
	Kind           EventKind `json:"kind"`
	ActorID        string    `json:"actor_id"`
	ActorName      string    `json:"actor_name"`
	ConversationID string    `json:"conversation_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (e Event) Describe() string {
	switch e.Kind {
	case EventContactAdded:
		return e.ActorName + " added you as a contact"
	case EventConversationStarted:
		return e.ActorName + " started a conversation with you"
	}
	return e.ActorName + " did something"
}

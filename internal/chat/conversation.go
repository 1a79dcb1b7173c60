package chat

import (
	"strings"
	"time"
)

type Conversation struct {
	ID        string    `db:"id" json:"id"`
	IsGroup   bool      `db:"is_group" json:"is_group"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Participant struct {
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	JoinedAt       time.Time `db:"joined_at" json:"joined_at"`
}

// DirectParticipants returns the two participant rows of a direct conversation.
func DirectParticipants(conversationID string, selfID string, targetID string) []Participant {
	return []Participant{
		{ConversationID: conversationID, UserID: selfID},
		{ConversationID: conversationID, UserID: targetID},
	}
}

type ConversationSummary struct {
	Conversation Conversation `json:"conversation"`
	Participants []Profile    `json:"participants"`
}

// Title names the conversation after its participants other than selfID.
func (s ConversationSummary) Title(selfID string) string {
	names := make([]string, 0, len(s.Participants))
	for _, participant := range s.Participants {
		if participant.UserID == selfID {
			continue
		}
		names = append(names, participant.DisplayName())
	}
	if len(names) == 0 {
		return "Just you"
	}
	return strings.Join(names, ", ")
}

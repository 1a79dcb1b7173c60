package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/JRI98/chatrescuer/internal/identity"
)

// StatusError is returned for unexpected responses from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Message)
}

// Client talks to the chat server on behalf of one identity. Every request
// is signed with the identity's private key.
type Client struct {
	serverURL  string
	privateKey identity.PrivateKey
	httpClient *http.Client
	now        func() time.Time
}

func New(serverURL string, privateKey identity.PrivateKey) *Client {
	return &Client{
		serverURL:  strings.TrimSuffix(serverURL, "/"),
		privateKey: privateKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

func (c *Client) SelfID() string {
	return identity.UserIDFromPrivateKey(c.privateKey)
}

func (c *Client) do(ctx context.Context, method string, path string, data any, out any) error {
	var body []byte
	if data != nil {
		var err error
		body, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
	}

	request, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	identity.SignRequest(request, c.privateKey, body, c.now())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case response.StatusCode == http.StatusNotFound:
		return chat.ErrNotFound
	case response.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", chat.ErrDuplicate, strings.TrimSpace(string(responseBody)))
	case response.StatusCode < 200 || response.StatusCode > 299:
		return &StatusError{Code: response.StatusCode, Message: strings.TrimSpace(string(responseBody))}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return nil
}

type RegisterData struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

func (c *Client) Register(ctx context.Context, data RegisterData) (chat.Profile, error) {
	var profile chat.Profile
	err := c.do(ctx, http.MethodPost, "/api/register", data, &profile)
	return profile, err
}

func (c *Client) ListProfiles(ctx context.Context) ([]chat.Profile, error) {
	var profiles []chat.Profile
	err := c.do(ctx, http.MethodGet, "/api/profiles", nil, &profiles)
	return profiles, err
}

func (c *Client) GetProfile(ctx context.Context, userID string) (chat.Profile, error) {
	var profile chat.Profile
	err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(userID), nil, &profile)
	return profile, err
}

type UpdateProfileData struct {
	FullName string        `json:"full_name"`
	Username string        `json:"username"`
	Status   chat.Presence `json:"status"`
}

func (c *Client) UpdateProfile(ctx context.Context, data UpdateProfileData) (chat.Profile, error) {
	var profile chat.Profile
	err := c.do(ctx, http.MethodPut, "/api/profiles/me", data, &profile)
	return profile, err
}

// FindContact looks up the contact row from userID to contactID. It returns
// chat.ErrNotFound when there is none.
func (c *Client) FindContact(ctx context.Context, userID string, contactID string) (chat.Contact, error) {
	var contact chat.Contact
	path := fmt.Sprintf("/api/users/%s/contacts/%s", url.PathEscape(userID), url.PathEscape(contactID))
	err := c.do(ctx, http.MethodGet, path, nil, &contact)
	return contact, err
}

type insertContactData struct {
	UserID    string             `json:"user_id"`
	ContactID string             `json:"contact_id"`
	Status    chat.ContactStatus `json:"status"`
}

func (c *Client) InsertContact(ctx context.Context, userID string, contactID string, status chat.ContactStatus) (chat.Contact, error) {
	var contact chat.Contact
	err := c.do(ctx, http.MethodPost, "/api/contacts", insertContactData{
		UserID:    userID,
		ContactID: contactID,
		Status:    status,
	}, &contact)
	return contact, err
}

func (c *Client) ListContacts(ctx context.Context, userID string) ([]chat.ContactEntry, error) {
	var entries []chat.ContactEntry
	err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID)+"/contacts", nil, &entries)
	return entries, err
}

type insertConversationData struct {
	IsGroup   bool   `json:"is_group"`
	CreatedBy string `json:"created_by"`
}

func (c *Client) InsertConversation(ctx context.Context, createdBy string, isGroup bool) (chat.Conversation, error) {
	var conversation chat.Conversation
	err := c.do(ctx, http.MethodPost, "/api/conversations", insertConversationData{
		IsGroup:   isGroup,
		CreatedBy: createdBy,
	}, &conversation)
	return conversation, err
}

type insertParticipantsData struct {
	Participants []chat.Participant `json:"participants"`
}

func (c *Client) InsertParticipants(ctx context.Context, participants []chat.Participant) ([]chat.Participant, error) {
	var inserted []chat.Participant
	err := c.do(ctx, http.MethodPost, "/api/conversation_participants", insertParticipantsData{
		Participants: participants,
	}, &inserted)
	return inserted, err
}

func (c *Client) ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	var summaries []chat.ConversationSummary
	err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID)+"/conversations", nil, &summaries)
	return summaries, err
}

func (c *Client) ReceiveEvents(ctx context.Context) ([]chat.Event, error) {
	var events []chat.Event
	err := c.do(ctx, http.MethodGet, "/api/events", nil, &events)
	return events, err
}

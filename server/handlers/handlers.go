package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/JRI98/chatrescuer/server/services"
	"github.com/labstack/echo/v4"
)

type EventFeed interface {
	Publish(ctx context.Context, userID string, event chat.Event) error
	Receive(ctx context.Context, userID string) ([]chat.Event, error)
	Close()
}

type Handler struct {
	Store  *services.Store
	Events EventFeed
}

func NewHandler(store *services.Store, events EventFeed) *Handler {
	return &Handler{
		Store:  store,
		Events: events,
	}
}

func (h *Handler) Cleanup() {
	h.Events.Close()
	if err := h.Store.Close(); err != nil {
		slog.Error("Could not close store", slog.Any("err", err))
	}
}

func validateData[T any](c echo.Context) (*T, error) {
	res := new(T)

	if err := c.Bind(res); err != nil {
		return nil, err
	}

	if err := c.Validate(res); err != nil {
		return nil, err
	}

	return res, nil
}

func newEchoHTTPError(code int, message string, err *error) *echo.HTTPError {
	if err != nil {
		return echo.NewHTTPError(code, message).SetInternal(*err)
	}
	return echo.NewHTTPError(code, message)
}

// storeError maps the chat error taxonomy onto HTTP statuses.
func storeError(err error, action string) *echo.HTTPError {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		return newEchoHTTPError(http.StatusNotFound, "Not found", &err)
	case errors.Is(err, chat.ErrDuplicate):
		return newEchoHTTPError(http.StatusConflict, "Already exists", &err)
	}
	return newEchoHTTPError(http.StatusInternalServerError, "Could not "+action, &err)
}

func (h *Handler) publish(ctx context.Context, actorID string, toUserID string, event chat.Event) {
	event.ActorID = actorID
	event.CreatedAt = time.Now().UTC()

	actor, err := h.Store.GetProfile(ctx, actorID)
	if err == nil {
		event.ActorName = actor.DisplayName()
	} else {
		event.ActorName = "Someone"
	}

	if err := h.Events.Publish(ctx, toUserID, event); err != nil {
		slog.Warn("Could not publish event", slog.Any("err", err), slog.String("kind", string(event.Kind)), slog.String("to", toUserID))
	}
}

type RegisterData struct {
	FullName  string `json:"full_name" validate:"required,max=100"`
	Username  string `json:"username" validate:"required,min=2,max=32"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// Register creates the caller's profile, or returns it when it already exists.
func (h *Handler) Register(c echo.Context) error {
	userID := getUserID(c)

	data, err := validateData[RegisterData](c)
	if err != nil {
		return fmt.Errorf("could not validate data: %w", err)
	}

	profile, err := h.Store.GetProfile(c.Request().Context(), userID)
	if err == nil {
		return c.JSON(http.StatusOK, profile)
	}
	if !errors.Is(err, chat.ErrNotFound) {
		return storeError(err, "register")
	}

	profile, err = h.Store.CreateProfile(c.Request().Context(), services.CreateProfileParams{
		UserID:    userID,
		FullName:  data.FullName,
		Username:  data.Username,
		AvatarURL: data.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, chat.ErrDuplicate) {
			return newEchoHTTPError(http.StatusConflict, "Username already taken", &err)
		}
		return storeError(err, "register")
	}

	return c.JSON(http.StatusCreated, profile)
}

func (h *Handler) ListProfiles(c echo.Context) error {
	profiles, err := h.Store.ListProfiles(c.Request().Context(), getUserID(c))
	if err != nil {
		return storeError(err, "list profiles")
	}

	return c.JSON(http.StatusOK, profiles)
}

func (h *Handler) GetProfile(c echo.Context) error {
	profile, err := h.Store.GetProfile(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return storeError(err, "get profile")
	}

	return c.JSON(http.StatusOK, profile)
}

type UpdateProfileData struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=2,max=32"`
	Status   string `json:"status" validate:"required,oneof=Available Busy Away Offline"`
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	data, err := validateData[UpdateProfileData](c)
	if err != nil {
		return fmt.Errorf("could not validate data: %w", err)
	}

	profile, err := h.Store.UpdateProfile(c.Request().Context(), services.UpdateProfileParams{
		UserID:   getUserID(c),
		FullName: data.FullName,
		Username: data.Username,
		Status:   chat.ParsePresence(data.Status),
	})
	if err != nil {
		if errors.Is(err, chat.ErrDuplicate) {
			return newEchoHTTPError(http.StatusConflict, "Username already taken", &err)
		}
		return storeError(err, "update profile")
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) ListContacts(c echo.Context) error {
	userID := c.Param("userID")
	if err := requireOwner(c, userID); err != nil {
		return err
	}

	contacts, err := h.Store.ListContacts(c.Request().Context(), userID)
	if err != nil {
		return storeError(err, "list contacts")
	}

	return c.JSON(http.StatusOK, contacts)
}

func (h *Handler) GetContact(c echo.Context) error {
	userID := c.Param("userID")
	if err := requireOwner(c, userID); err != nil {
		return err
	}

	contact, err := h.Store.GetContact(c.Request().Context(), userID, c.Param("contactID"))
	if err != nil {
		return storeError(err, "get contact")
	}

	return c.JSON(http.StatusOK, contact)
}

type CreateContactData struct {
	UserID    string             `json:"user_id" validate:"required"`
	ContactID string             `json:"contact_id" validate:"required"`
	Status    chat.ContactStatus `json:"status"`
}

func (h *Handler) CreateContact(c echo.Context) error {
	data, err := validateData[CreateContactData](c)
	if err != nil {
		return fmt.Errorf("could not validate data: %w", err)
	}

	if err := requireOwner(c, data.UserID); err != nil {
		return err
	}

	if data.ContactID == data.UserID {
		return newEchoHTTPError(http.StatusBadRequest, "Cannot add yourself as a contact", nil)
	}

	contact, err := h.Store.CreateContact(c.Request().Context(), data.UserID, data.ContactID, data.Status)
	if err != nil {
		return storeError(err, "create contact")
	}

	h.publish(c.Request().Context(), data.UserID, data.ContactID, chat.Event{Kind: chat.EventContactAdded})

	return c.JSON(http.StatusCreated, contact)
}

type CreateConversationData struct {
	IsGroup   bool   `json:"is_group"`
	CreatedBy string `json:"created_by" validate:"required"`
}

func (h *Handler) CreateConversation(c echo.Context) error {
	data, err := validateData[CreateConversationData](c)
	if err != nil {
		return fmt.Errorf("could not validate data: %w", err)
	}

	if err := requireOwner(c, data.CreatedBy); err != nil {
		return err
	}

	conversation, err := h.Store.CreateConversation(c.Request().Context(), data.CreatedBy, data.IsGroup)
	if err != nil {
		return storeError(err, "create conversation")
	}

	return c.JSON(http.StatusCreated, conversation)
}

type ParticipantData struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	UserID         string `json:"user_id" validate:"required"`
}

type AddParticipantsData struct {
	Participants []ParticipantData `json:"participants" validate:"required,min=1,dive"`
}

// AddParticipants inserts a batch of participants. Only the creator of a
// conversation may add participants to it.
func (h *Handler) AddParticipants(c echo.Context) error {
	userID := getUserID(c)

	data, err := validateData[AddParticipantsData](c)
	if err != nil {
		return fmt.Errorf("could not validate data: %w", err)
	}

	checked := make(map[string]bool, 1)
	participants := make([]chat.Participant, 0, len(data.Participants))
	for _, participant := range data.Participants {
		if !checked[participant.ConversationID] {
			conversation, err := h.Store.GetConversation(c.Request().Context(), participant.ConversationID)
			if err != nil {
				return storeError(err, "get conversation")
			}
			if conversation.CreatedBy != userID {
				return newEchoHTTPError(http.StatusForbidden, "Only the creator can add participants", nil)
			}
			checked[participant.ConversationID] = true
		}

		participants = append(participants, chat.Participant{
			ConversationID: participant.ConversationID,
			UserID:         participant.UserID,
		})
	}

	inserted, err := h.Store.AddParticipants(c.Request().Context(), participants)
	if err != nil {
		return storeError(err, "add participants")
	}

	for _, participant := range inserted {
		if participant.UserID == userID {
			continue
		}
		h.publish(c.Request().Context(), userID, participant.UserID, chat.Event{
			Kind:           chat.EventConversationStarted,
			ConversationID: participant.ConversationID,
		})
	}

	return c.JSON(http.StatusCreated, inserted)
}

func (h *Handler) ListConversations(c echo.Context) error {
	userID := c.Param("userID")
	if err := requireOwner(c, userID); err != nil {
		return err
	}

	conversations, err := h.Store.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return storeError(err, "list conversations")
	}

	return c.JSON(http.StatusOK, conversations)
}

// ReceiveEvents drains the caller's pending events. Polling it also refreshes
// the caller's last seen time.
func (h *Handler) ReceiveEvents(c echo.Context) error {
	userID := getUserID(c)

	if err := h.Store.TouchLastSeen(c.Request().Context(), userID); err != nil {
		slog.Warn("Could not touch last seen", slog.Any("err", err), slog.String("user", userID))
	}

	events, err := h.Events.Receive(c.Request().Context(), userID)
	if err != nil {
		return newEchoHTTPError(http.StatusInternalServerError, "Could not receive events", &err)
	}

	return c.JSON(http.StatusOK, events)
}

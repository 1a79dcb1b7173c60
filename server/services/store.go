package services

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var ddl string

const profileColumns = "p.id, p.user_id, p.full_name, p.username, p.avatar_url, p.status, p.last_seen, p.created_at"

// Store is the relational table store behind the HTTP API. It runs on SQLite
// or PostgreSQL; queries are written with ? placeholders and rebound per driver.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func OpenStore(ctx context.Context, driver string, dataSource string) (*Store, error) {
	if driver == "sqlite3" && !strings.Contains(dataSource, "?") {
		dataSource += "?_foreign_keys=on"
	}

	db, err := sqlx.ConnectContext(ctx, driver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", driver, err)
	}

	if driver == "sqlite3" {
		// One connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not apply schema: %w", err)
	}

	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, f func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := f(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}

	return false
}

// translate maps driver errors onto the chat error taxonomy.
func translate(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return chat.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", chat.ErrDuplicate, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", chat.ErrNotFound, err)
	}
	return err
}

type CreateProfileParams struct {
	UserID    string
	FullName  string
	Username  string
	AvatarURL string
}

func (s *Store) CreateProfile(ctx context.Context, params CreateProfileParams) (chat.Profile, error) {
	profile := chat.Profile{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		FullName:  params.FullName,
		Username:  params.Username,
		AvatarURL: params.AvatarURL,
		Status:    chat.PresenceAvailable,
		CreatedAt: s.now(),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO profiles (id, user_id, full_name, username, avatar_url, status, created_at)
		VALUES (:id, :user_id, :full_name, :username, :avatar_url, :status, :created_at)`, profile)
	if err != nil {
		return chat.Profile{}, fmt.Errorf("failed to create profile: %w", translate(err))
	}

	return profile, nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (chat.Profile, error) {
	var profile chat.Profile
	err := s.db.GetContext(ctx, &profile, s.db.Rebind(`SELECT `+profileColumns+` FROM profiles p WHERE p.user_id = ?`), userID)
	if err != nil {
		return chat.Profile{}, fmt.Errorf("failed to get profile: %w", translate(err))
	}
	return profile, nil
}

// ListProfiles returns every profile except excludeUserID ordered by full name.
func (s *Store) ListProfiles(ctx context.Context, excludeUserID string) ([]chat.Profile, error) {
	profiles := []chat.Profile{}
	err := s.db.SelectContext(ctx, &profiles, s.db.Rebind(`SELECT `+profileColumns+` FROM profiles p WHERE p.user_id <> ? ORDER BY p.full_name, p.username`), excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", translate(err))
	}
	return profiles, nil
}

type UpdateProfileParams struct {
	UserID   string
	FullName string
	Username string
	Status   chat.Presence
}

func (s *Store) UpdateProfile(ctx context.Context, params UpdateProfileParams) (chat.Profile, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE profiles SET full_name = ?, username = ?, status = ? WHERE user_id = ?`),
		params.FullName, params.Username, params.Status, params.UserID)
	if err != nil {
		return chat.Profile{}, fmt.Errorf("failed to update profile: %w", translate(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return chat.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		return chat.Profile{}, chat.ErrNotFound
	}

	return s.GetProfile(ctx, params.UserID)
}

func (s *Store) TouchLastSeen(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE profiles SET last_seen = ? WHERE user_id = ?`), s.now(), userID)
	if err != nil {
		return fmt.Errorf("failed to touch last seen: %w", err)
	}
	return nil
}

// GetContact returns the contact row of (userID, contactID).
func (s *Store) GetContact(ctx context.Context, userID string, contactID string) (chat.Contact, error) {
	var contact chat.Contact
	err := s.db.GetContext(ctx, &contact, s.db.Rebind(`
		SELECT id, user_id, contact_id, status, created_at FROM contacts WHERE user_id = ? AND contact_id = ?`),
		userID, contactID)
	if err != nil {
		return chat.Contact{}, fmt.Errorf("failed to get contact: %w", translate(err))
	}
	return contact, nil
}

func (s *Store) CreateContact(ctx context.Context, userID string, contactID string, status chat.ContactStatus) (chat.Contact, error) {
	contact := chat.Contact{
		ID:        uuid.NewString(),
		UserID:    userID,
		ContactID: contactID,
		Status:    status,
		CreatedAt: s.now(),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO contacts (id, user_id, contact_id, status, created_at)
		VALUES (:id, :user_id, :contact_id, :status, :created_at)`, contact)
	if err != nil {
		return chat.Contact{}, fmt.Errorf("failed to create contact: %w", translate(err))
	}

	return contact, nil
}

type contactRow struct {
	chat.Contact
	Profile chat.Profile `db:"profile"`
}

func (s *Store) ListContacts(ctx context.Context, userID string) ([]chat.ContactEntry, error) {
	var rows []contactRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT c.id, c.user_id, c.contact_id, c.status, c.created_at,
			p.id AS "profile.id", p.user_id AS "profile.user_id", p.full_name AS "profile.full_name",
			p.username AS "profile.username", p.avatar_url AS "profile.avatar_url", p.status AS "profile.status",
			p.last_seen AS "profile.last_seen", p.created_at AS "profile.created_at"
		FROM contacts c
		JOIN profiles p ON p.user_id = c.contact_id
		WHERE c.user_id = ?
		ORDER BY p.full_name, p.username`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", translate(err))
	}

	entries := make([]chat.ContactEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, chat.ContactEntry{Contact: row.Contact, Profile: row.Profile})
	}
	return entries, nil
}

func (s *Store) CreateConversation(ctx context.Context, createdBy string, isGroup bool) (chat.Conversation, error) {
	conversation := chat.Conversation{
		ID:        uuid.NewString(),
		IsGroup:   isGroup,
		CreatedBy: createdBy,
		CreatedAt: s.now(),
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO conversations (id, is_group, created_by, created_at)
		VALUES (:id, :is_group, :created_by, :created_at)`, conversation)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("failed to create conversation: %w", translate(err))
	}

	return conversation, nil
}

func (s *Store) GetConversation(ctx context.Context, id string) (chat.Conversation, error) {
	var conversation chat.Conversation
	err := s.db.GetContext(ctx, &conversation, s.db.Rebind(`
		SELECT id, is_group, created_by, created_at FROM conversations WHERE id = ?`), id)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("failed to get conversation: %w", translate(err))
	}
	return conversation, nil
}

// AddParticipants inserts every participant or none of them.
func (s *Store) AddParticipants(ctx context.Context, participants []chat.Participant) ([]chat.Participant, error) {
	joinedAt := s.now()
	inserted := make([]chat.Participant, 0, len(participants))

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, participant := range participants {
			participant.JoinedAt = joinedAt
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO conversation_participants (conversation_id, user_id, joined_at)
				VALUES (:conversation_id, :user_id, :joined_at)`, participant)
			if err != nil {
				return translate(err)
			}
			inserted = append(inserted, participant)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add participants: %w", err)
	}

	return inserted, nil
}

type participantRow struct {
	ConversationID string `db:"conversation_id"`
	chat.Profile
}

// ListConversations returns the conversations userID takes part in, newest
// first, each with the profiles of all its participants.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	var conversations []chat.Conversation
	err := s.db.SelectContext(ctx, &conversations, s.db.Rebind(`
		SELECT c.id, c.is_group, c.created_by, c.created_at
		FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id
		WHERE cp.user_id = ?
		ORDER BY c.created_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", translate(err))
	}

	summaries := make([]chat.ConversationSummary, 0, len(conversations))
	if len(conversations) == 0 {
		return summaries, nil
	}

	conversationIDs := make([]string, 0, len(conversations))
	for _, conversation := range conversations {
		conversationIDs = append(conversationIDs, conversation.ID)
	}

	query, args, err := sqlx.In(`
		SELECT cp.conversation_id, `+profileColumns+`
		FROM conversation_participants cp
		JOIN profiles p ON p.user_id = cp.user_id
		WHERE cp.conversation_id IN (?)
		ORDER BY p.full_name, p.username`, conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	var rows []participantRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", translate(err))
	}

	participants := make(map[string][]chat.Profile, len(conversations))
	for _, row := range rows {
		participants[row.ConversationID] = append(participants[row.ConversationID], row.Profile)
	}

	for _, conversation := range conversations {
		summaries = append(summaries, chat.ConversationSummary{
			Conversation: conversation,
			Participants: participants[conversation.ID],
		})
	}

	return summaries, nil
}

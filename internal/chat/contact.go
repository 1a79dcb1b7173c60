package chat

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type ContactStatus int

const (
	ContactPending ContactStatus = iota
	ContactAccepted
)

func (s ContactStatus) String() string {
	switch s {
	case ContactPending:
		return "pending"
	case ContactAccepted:
		return "accepted"
	}
	return "pending"
}

func ParseContactStatus(s string) (ContactStatus, error) {
	switch s {
	case "pending":
		return ContactPending, nil
	case "accepted":
		return ContactAccepted, nil
	}
	return ContactPending, fmt.Errorf("unknown contact status %q", s)
}

func (s ContactStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ContactStatus) UnmarshalText(text []byte) error {
	status, err := ParseContactStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s ContactStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *ContactStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into contact status", src)
}

// Contact is a one-directional relationship from UserID to ContactID.
type Contact struct {
	ID        string        `db:"id" json:"id"`
	UserID    string        `db:"user_id" json:"user_id"`
	ContactID string        `db:"contact_id" json:"contact_id"`
	Status    ContactStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

type ContactEntry struct {
	Contact Contact `json:"contact"`
	Profile Profile `json:"profile"`
}

package chat

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
	"unicode"
)

type Presence int

const (
	PresenceOffline Presence = iota
	PresenceAvailable
	PresenceBusy
	PresenceAway
)

// Presences lists every presence in the order settings cycle through them.
var Presences = []Presence{PresenceAvailable, PresenceBusy, PresenceAway, PresenceOffline}

func (p Presence) String() string {
	switch p {
	case PresenceAvailable:
		return "Available"
	case PresenceBusy:
		return "Busy"
	case PresenceAway:
		return "Away"
	case PresenceOffline:
		return "Offline"
	}
	return "Offline"
}

// ParsePresence maps a stored status to a presence. Unknown values are Offline.
func ParsePresence(s string) Presence {
	switch s {
	case "Available":
		return PresenceAvailable
	case "Busy":
		return PresenceBusy
	case "Away":
		return PresenceAway
	default:
		return PresenceOffline
	}
}

// Next returns the presence after p in the settings cycle.
func (p Presence) Next() Presence {
	for i, presence := range Presences {
		if presence == p {
			return Presences[(i+1)%len(Presences)]
		}
	}
	return Presences[0]
}

func (p Presence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Presence) UnmarshalText(text []byte) error {
	*p = ParsePresence(string(text))
	return nil
}

func (p Presence) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Presence) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*p = ParsePresence(v)
	case []byte:
		*p = ParsePresence(string(v))
	case nil:
		*p = PresenceOffline
	default:
		return fmt.Errorf("cannot scan %T into presence", src)
	}
	return nil
}

type Profile struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	FullName  string     `db:"full_name" json:"full_name"`
	Username  string     `db:"username" json:"username"`
	AvatarURL string     `db:"avatar_url" json:"avatar_url"`
	Status    Presence   `db:"status" json:"status"`
	LastSeen  *time.Time `db:"last_seen" json:"last_seen,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// DisplayName falls back to the username, then to "U".
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Username != "" {
		return p.Username
	}
	return "U"
}

// Initials returns up to two upper-case initials of the space separated words of name.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Split(name, " ") {
		for _, r := range word {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// FilterProfiles returns the profiles other than selfUserID whose full name or
// username contains query, ignoring case. An empty query keeps every profile.
func FilterProfiles(profiles []Profile, query string, selfUserID string) []Profile {
	query = strings.ToLower(query)

	filtered := make([]Profile, 0, len(profiles))
	for _, profile := range profiles {
		if profile.UserID == selfUserID {
			continue
		}
		if strings.Contains(strings.ToLower(profile.FullName), query) ||
			strings.Contains(strings.ToLower(profile.Username), query) {
			filtered = append(filtered, profile)
		}
	}
	return filtered
}

package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testProfiles() []Profile {
	return []Profile{
		{UserID: "u1", FullName: "Alice Smith", Username: "alice"},
		{UserID: "u2", FullName: "Bob Jones", Username: "bobby"},
		{UserID: "u3", FullName: "Carol White", Username: "cwhite"},
		{UserID: "u4", FullName: "", Username: "ghost"},
	}
}

func userIDs(profiles []Profile) []string {
	ids := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		ids = append(ids, profile.UserID)
	}
	return ids
}

func TestFilterProfiles(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		self     string
		expected []string
	}{
		{
			name:     "Empty query keeps everyone but self",
			query:    "",
			self:     "u1",
			expected: []string{"u2", "u3", "u4"},
		},
		{
			name:     "Matches full name ignoring case",
			query:    "JONES",
			self:     "u1",
			expected: []string{"u2"},
		},
		{
			name:     "Matches username",
			query:    "cwh",
			self:     "u1",
			expected: []string{"u3"},
		},
		{
			name:     "Matches either field",
			query:    "o",
			self:     "u1",
			expected: []string{"u2", "u3", "u4"},
		},
		{
			name:     "Self is excluded even when it matches",
			query:    "alice",
			self:     "u1",
			expected: []string{},
		},
		{
			name:     "No match",
			query:    "zed",
			self:     "u1",
			expected: []string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := FilterProfiles(testProfiles(), test.query, test.self)
			require.Equal(t, test.expected, userIDs(result))
		})
	}
}

func TestFilterProfilesMatchesDefinition(t *testing.T) {
	profiles := testProfiles()
	for _, query := range []string{"", "a", "Al", "SMITH", "bob", "white", "x", " "} {
		for _, self := range []string{"u1", "u2", "nobody"} {
			result := FilterProfiles(profiles, query, self)

			var expected []string
			for _, profile := range profiles {
				if profile.UserID == self {
					continue
				}
				q := strings.ToLower(query)
				if strings.Contains(strings.ToLower(profile.FullName), q) || strings.Contains(strings.ToLower(profile.Username), q) {
					expected = append(expected, profile.UserID)
				}
			}

			require.ElementsMatch(t, expected, userIDs(result), "query %q self %q", query, self)
			require.NotContains(t, userIDs(result), self)
		}
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Alice Smith", "AS"},
		{"alice", "A"},
		{"Mary Ann Lee", "MA"},
		{"  spaced   out ", "SO"},
		{"", ""},
		{"élodie durand", "ÉD"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Initials(test.name))
		})
	}
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Alice", Profile{FullName: "Alice", Username: "al"}.DisplayName())
	require.Equal(t, "al", Profile{Username: "al"}.DisplayName())
	require.Equal(t, "U", Profile{}.DisplayName())
}

func TestPresence(t *testing.T) {
	for _, presence := range Presences {
		require.Equal(t, presence, ParsePresence(presence.String()))
	}
	require.Equal(t, PresenceOffline, ParsePresence("Invisible"))
	require.Equal(t, PresenceBusy, PresenceAvailable.Next())
	require.Equal(t, PresenceAvailable, PresenceOffline.Next())

	data, err := json.Marshal(Profile{Status: PresenceAway})
	require.NoError(t, err)
	require.Contains(t, string(data), `"status":"Away"`)

	var profile Profile
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Busy"}`), &profile))
	require.Equal(t, PresenceBusy, profile.Status)

	var scanned Presence
	require.NoError(t, scanned.Scan([]byte("Away")))
	require.Equal(t, PresenceAway, scanned)
	require.Error(t, scanned.Scan(42))
}

func TestContactStatus(t *testing.T) {
	var status ContactStatus
	require.NoError(t, status.Scan("accepted"))
	require.Equal(t, ContactAccepted, status)
	require.Error(t, status.UnmarshalText([]byte("blocked")))

	value, err := ContactAccepted.Value()
	require.NoError(t, err)
	require.Equal(t, "accepted", value)
}

func TestConversationSummaryTitle(t *testing.T) {
	summary := ConversationSummary{
		Participants: []Profile{
			{UserID: "u1", FullName: "Alice"},
			{UserID: "u2", FullName: "Bob"},
		},
	}
	require.Equal(t, "Bob", summary.Title("u1"))
	require.Equal(t, "Just you", ConversationSummary{Participants: []Profile{{UserID: "u1"}}}.Title("u1"))
}

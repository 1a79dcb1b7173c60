package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor     = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F2"}
	mutedColor       = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	successColor     = lipgloss.AdaptiveColor{Light: "#1F8A4C", Dark: "#3FBF74"}
	destructiveColor = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	borderColor      = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#3A3A3A"}
)

type Styles struct {
	Header      lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Sidebar     lipgloss.Style
	Main        lipgloss.Style
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Badge       lipgloss.Style
	Button      lipgloss.Style
	Avatar      lipgloss.Style
	Success     lipgloss.Style
	Destructive lipgloss.Style
	HelpBar     lipgloss.Style
}

func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Underline(true).
			Padding(0, 1),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1),
		Main: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(mutedColor),
		Item: lipgloss.NewStyle().
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(primaryColor),
		Badge: lipgloss.NewStyle().
			Foreground(successColor).
			Italic(true),
		Button: lipgloss.NewStyle().
			Foreground(primaryColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1),
		Avatar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1),
		Success: lipgloss.NewStyle().
			Foreground(successColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(successColor).
			Padding(0, 1),
		Destructive: lipgloss.NewStyle().
			Foreground(destructiveColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(destructiveColor).
			Padding(0, 1),
		HelpBar: lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1),
	}
}

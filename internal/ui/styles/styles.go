// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the Unplug theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("42")  // Green
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// NotificationBaseStyle is the base for all notification types.
var NotificationBaseStyle = lipgloss.NewStyle().
	Padding(0, 2).
	MarginBottom(1).
	Border(lipgloss.RoundedBorder())

// NotificationSuccessStyle for success notifications.
var NotificationSuccessStyle = NotificationBaseStyle.
	BorderForeground(Success).
	Foreground(Success)

// NotificationErrorStyle for error notifications.
var NotificationErrorStyle = NotificationBaseStyle.
	BorderForeground(Error).
	Foreground(Error)

// ListItemStyle styles list items.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// StreakStyle highlights the current streak counter.
var StreakStyle = lipgloss.NewStyle().
	Foreground(Warning).
	Bold(true)

// InsightActionableStyle marks actionable insights.
var InsightActionableStyle = lipgloss.NewStyle().
	Foreground(Info).
	Bold(true)

// BestMilestoneStyle styles milestone personal bests.
var BestMilestoneStyle = lipgloss.NewStyle().
	Foreground(Warning).
	Bold(true)

// BestMajorStyle styles major personal bests.
var BestMajorStyle = lipgloss.NewStyle().
	Foreground(Success).
	Bold(true)

// BestMinorStyle styles minor personal bests.
var BestMinorStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// TrendUpStyle styles improving trends.
var TrendUpStyle = lipgloss.NewStyle().
	Foreground(Success)

// TrendDownStyle styles declining trends.
var TrendDownStyle = lipgloss.NewStyle().
	Foreground(Error)

// TrendStableStyle styles flat trends.
var TrendStableStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// ConsistencyHighStyle for strong consistency scores (>=70).
var ConsistencyHighStyle = lipgloss.NewStyle().
	Foreground(Success)

// ConsistencyMediumStyle for middling consistency scores (40-69).
var ConsistencyMediumStyle = lipgloss.NewStyle().
	Foreground(Warning)

// ConsistencyLowStyle for weak consistency scores (<40).
var ConsistencyLowStyle = lipgloss.NewStyle().
	Foreground(Error)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// GetConsistencyStyle returns the style for a 0-100 consistency score.
func GetConsistencyStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return ConsistencyHighStyle
	case score >= 40:
		return ConsistencyMediumStyle
	default:
		return ConsistencyLowStyle
	}
}

// GetIntensityStyle returns a style graded by a 0-100 intensity.
func GetIntensityStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 66:
		return lipgloss.NewStyle().Foreground(Success)
	case percent > 33:
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(Subtle)
	}
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/fitgrid/internal/calendar"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
	colorRest      = lipgloss.Color("#2EC4B6")
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Calendar cells — one style per day status
	cellCompletedStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	cellPlannedStyle   = lipgloss.NewStyle().Foreground(colorHighlight)
	cellMissedStyle    = lipgloss.NewStyle().Foreground(colorError)
	cellActiveStyle    = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	cellRestStyle      = lipgloss.NewStyle().Foreground(colorRest)
	cellPlainStyle     = lipgloss.NewStyle().Foreground(colorFg)
	cellPadStyle       = lipgloss.NewStyle().Foreground(colorSubtle)
)

// cellStyle picks the lipgloss style for a rendered day cell.
func cellStyle(cell calendar.Cell) lipgloss.Style {
	if !cell.InMonth {
		return cellPadStyle
	}
	switch cell.Status {
	case calendar.StatusCompleted:
		return cellCompletedStyle
	case calendar.StatusPlanned:
		return cellPlannedStyle
	case calendar.StatusMissed:
		return cellMissedStyle
	case calendar.StatusActiveToday:
		return cellActiveStyle
	case calendar.StatusRestDay:
		return cellRestStyle
	default:
		return cellPlainStyle
	}
}

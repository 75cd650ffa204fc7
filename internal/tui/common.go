package tui

import (
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/calendar"
	"github.com/sadopc/fitgrid/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewCalendar
	viewPrograms
	viewHistory
	viewSettings
)

var viewNames = []string{"Dashboard", "Calendar", "Programs", "History", "Settings"}

// --- Messages ---

type loginDoneMsg struct {
	session *store.Session
	err     error
}

type profileMsg struct {
	profile api.Profile
	origin  cache.Origin
	err     error
}

type calendarMsg struct {
	year, month int
	weeks       []calendar.Week
	origin      cache.Origin
	err         error
}

type programsMsg struct {
	programs []api.Program
	origin   cache.Origin
	err      error
}

type programDetailMsg struct {
	program api.Program
	err     error
}

type historyMsg struct {
	entries []api.HistoryEntry
	origin  cache.Origin
	err     error
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type signedOutMsg struct{}

// --- Helpers ---

// statusGlyph is the single-character marker rendered inside a day cell.
func statusGlyph(s calendar.DayStatus) string {
	switch s {
	case calendar.StatusCompleted:
		return "✓"
	case calendar.StatusPlanned:
		return "•"
	case calendar.StatusMissed:
		return "✗"
	case calendar.StatusActiveToday:
		return "▶"
	case calendar.StatusRestDay:
		return "~"
	default:
		return " "
	}
}

// originNote describes where a fetch was served from; empty when fresh.
func originNote(o cache.Origin) string {
	switch o {
	case cache.OriginCached:
		return "showing saved data"
	case cache.OriginStale:
		return "offline — showing older saved data"
	default:
		return ""
	}
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return "?"
	}
	return monthNames[m-1]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/calendar"
	"github.com/sadopc/fitgrid/internal/export"
	"github.com/sadopc/fitgrid/internal/log"
	"github.com/sadopc/fitgrid/internal/store"
)

type calendarModel struct {
	client *api.Client
	store  *store.Store
	width  int
	height int

	year   int
	month  int
	weeks  []calendar.Week
	origin cache.Origin
	loaded bool
	errText string

	// collapsed shows only the week containing today.
	collapsed bool
}

func newCalendarModel(c *api.Client, s *store.Store) calendarModel {
	now := time.Now()
	return calendarModel{
		client:    c,
		store:     s,
		year:      now.Year(),
		month:     int(now.Month()),
		collapsed: s != nil && s.GetSettingDefault("calendar_view", "month") == "week",
	}
}

func (m *calendarModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// refresh fetches the month's day records and reconciles them into the
// grid. Today is captured here, at the call site, so the grid function
// itself stays pure.
func (m calendarModel) refresh() tea.Cmd {
	client, year, month := m.client, m.year, m.month
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		records, origin, err := client.Calendar(ctx, year, month)
		if err != nil {
			return calendarMsg{year: year, month: month, err: err}
		}
		weeks := calendar.MonthGrid(year, month, records, calendar.FromTime(time.Now()))
		return calendarMsg{year: year, month: month, weeks: weeks, origin: origin}
	}
}

func (m calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarMsg:
		// A stale response for a month we already navigated away from.
		if msg.year != m.year || msg.month != m.month {
			return m, nil
		}
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.weeks = msg.weeks
		m.origin = msg.origin
		m.loaded = true
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.year, m.month = prevMonth(m.year, m.month)
			m.loaded = false
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			m.year, m.month = nextMonth(m.year, m.month)
			m.loaded = false
			return m, m.refresh()
		case key.Matches(msg, keys.WeekToggle):
			m.collapsed = !m.collapsed
			if m.store != nil {
				view := "month"
				if m.collapsed {
					view = "week"
				}
				if err := m.store.SetSetting("calendar_view", view); err != nil {
					log.Error("save calendar view", err)
				}
			}
			return m, nil
		case key.Matches(msg, keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, keys.Export):
			return m, m.doExport()
		}
	}
	return m, nil
}

func prevMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

func nextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

func (m calendarModel) doExport() tea.Cmd {
	weeks, year, month := m.weeks, m.year, m.month
	return func() tea.Msg {
		if len(weeks) == 0 {
			return statusMsg{text: "Nothing to export yet", isError: true}
		}
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, fmt.Sprintf("fitgrid-%04d-%02d.csv", year, month))
		if err := export.MonthToCSV(weeks, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (m calendarModel) view() string {
	w := m.width - 4

	title := titleStyle.Render(fmt.Sprintf("%s %d", monthName(m.month), m.year))
	if m.collapsed {
		title += mutedStyle.Render("  (week)")
	}
	if note := originNote(m.origin); m.loaded && note != "" {
		title += "  " + warningStyle.Render(note)
	}

	var body string
	switch {
	case m.errText != "":
		body = errorStyle.Render("Could not load calendar: "+m.errText) + "\n" +
			mutedStyle.Render("Press r to retry")
	case !m.loaded:
		body = mutedStyle.Render("Loading calendar…")
	default:
		body = m.renderGrid()
	}

	nav := mutedStyle.Render("  ←/→: month  w: week view  e: export  r: refresh")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", m.renderLegend(), nav),
	)
}

func (m calendarModel) renderGrid() string {
	weeks := m.weeks
	if m.collapsed {
		weeks = []calendar.Week{calendar.WeekContaining(m.weeks, calendar.FromTime(time.Now()))}
	}

	var rows []string
	rows = append(rows, mutedStyle.Render("  Mo   Tu   We   Th   Fr   Sa   Su"))
	for _, week := range weeks {
		var cells []string
		for _, c := range week {
			cells = append(cells, cellStyle(c).Render(fmt.Sprintf("%2d%s", c.Date.Day, statusGlyph(c.Status))))
		}
		rows = append(rows, strings.Join(cells, "  "))
	}

	// Under the grid, show today's workout when it is visible.
	if line := m.todayLine(); line != "" {
		rows = append(rows, "", line)
	}
	return strings.Join(rows, "\n")
}

func (m calendarModel) todayLine() string {
	today := calendar.FromTime(time.Now())
	for _, week := range m.weeks {
		for _, c := range week {
			if c.Date != today || c.Status == calendar.StatusNone {
				continue
			}
			switch c.Status {
			case calendar.StatusRestDay:
				return cellRestStyle.Render("Today: rest day")
			case calendar.StatusActiveToday:
				if c.WorkoutTitle != "" {
					return cellActiveStyle.Render("Today: " + c.WorkoutTitle)
				}
				return cellActiveStyle.Render("Today")
			case calendar.StatusCompleted:
				return successStyle.Render("Today: " + c.WorkoutTitle + " ✓")
			}
		}
	}
	return ""
}

func (m calendarModel) renderLegend() string {
	items := []string{
		cellCompletedStyle.Render("✓ done"),
		cellPlannedStyle.Render("• planned"),
		cellMissedStyle.Render("✗ missed"),
		cellActiveStyle.Render("▶ today"),
		cellRestStyle.Render("~ rest"),
	}
	return "  " + strings.Join(items, "  ")
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/calendar"
)

type dashboardModel struct {
	client *api.Client
	width  int
	height int

	profile       api.Profile
	profileLoaded bool
	profileOrigin cache.Origin
	profileErr    string

	week       calendar.Week
	weekLoaded bool
	weekOrigin cache.Origin
	weekErr    string
}

func newDashboardModel(c *api.Client) dashboardModel {
	return dashboardModel{client: c}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) loadData() tea.Cmd {
	return tea.Batch(d.loadProfile(), d.loadWeek())
}

func (d dashboardModel) loadProfile() tea.Cmd {
	client := d.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		p, origin, err := client.Profile(ctx)
		return profileMsg{profile: p, origin: origin, err: err}
	}
}

// loadWeek fetches the current month and keeps only the week around today,
// the collapsed presentation of the training calendar.
func (d dashboardModel) loadWeek() tea.Cmd {
	client := d.client
	return func() tea.Msg {
		now := time.Now()
		year, month := now.Year(), int(now.Month())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		records, origin, err := client.Calendar(ctx, year, month)
		if err != nil {
			return calendarMsg{year: year, month: month, err: err}
		}
		weeks := calendar.MonthGrid(year, month, records, calendar.FromTime(now))
		return calendarMsg{year: year, month: month, weeks: weeks, origin: origin}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		if msg.err != nil {
			d.profileErr = msg.err.Error()
			return d, nil
		}
		d.profile = msg.profile
		d.profileOrigin = msg.origin
		d.profileLoaded = true
		d.profileErr = ""
		return d, nil

	case calendarMsg:
		if msg.err != nil {
			d.weekErr = msg.err.Error()
			return d, nil
		}
		d.week = calendar.WeekContaining(msg.weeks, calendar.FromTime(time.Now()))
		d.weekOrigin = msg.origin
		d.weekLoaded = true
		d.weekErr = ""
		return d, nil
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTodayPanel(contentWidth),
		d.renderWeekPanel(contentWidth),
		d.renderProfilePanel(contentWidth),
	)
}

func (d dashboardModel) renderTodayPanel(w int) string {
	today := calendar.FromTime(time.Now())
	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(today.String())

	var line string
	switch {
	case d.weekErr != "":
		line = errorStyle.Render("Could not load: " + d.weekErr)
	case !d.weekLoaded:
		line = mutedStyle.Render("Loading…")
	default:
		line = d.todaySummary(today)
	}

	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", line),
	)
}

func (d dashboardModel) todaySummary(today calendar.CivilDate) string {
	for _, c := range d.week {
		if c.Date != today {
			continue
		}
		switch c.Status {
		case calendar.StatusCompleted:
			return successStyle.Render("✓ " + c.WorkoutTitle + " — done")
		case calendar.StatusRestDay:
			return cellRestStyle.Render("~ Rest day")
		case calendar.StatusActiveToday:
			if c.WorkoutTitle != "" {
				return cellActiveStyle.Render("▶ " + c.WorkoutTitle)
			}
			return mutedStyle.Render("No workout scheduled")
		case calendar.StatusMissed:
			return errorStyle.Render("✗ " + c.WorkoutTitle + " — missed")
		}
	}
	return mutedStyle.Render("No workout scheduled")
}

func (d dashboardModel) renderWeekPanel(w int) string {
	title := titleStyle.Render("This Week")
	if note := originNote(d.weekOrigin); d.weekLoaded && note != "" {
		title += "  " + warningStyle.Render(note)
	}

	var body string
	if !d.weekLoaded {
		body = mutedStyle.Render("Loading…")
	} else {
		var cells []string
		for _, c := range d.week {
			cells = append(cells, cellStyle(c).Render(fmt.Sprintf("%2d%s", c.Date.Day, statusGlyph(c.Status))))
		}
		body = mutedStyle.Render("  Mo   Tu   We   Th   Fr   Sa   Su") + "\n" +
			strings.Join(cells, "  ")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body),
	)
}

func (d dashboardModel) renderProfilePanel(w int) string {
	title := titleStyle.Render("Profile")

	var rows []string
	rows = append(rows, title)
	switch {
	case d.profileErr != "":
		rows = append(rows, errorStyle.Render("Could not load: "+d.profileErr))
	case !d.profileLoaded:
		rows = append(rows, mutedStyle.Render("Loading…"))
	default:
		rows = append(rows,
			fmt.Sprintf("  %s %s", mutedStyle.Render("Name "), highlightStyle.Render(d.profile.Name)),
			fmt.Sprintf("  %s %s", mutedStyle.Render("Level"), d.profile.Level),
			fmt.Sprintf("  %s %d workouts/week", mutedStyle.Render("Goal "), d.profile.WeeklyGoal),
		)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/export"
	"github.com/sadopc/fitgrid/internal/store"
)

const defaultChartDays = 14

type historyModel struct {
	client *api.Client
	width  int
	height int
	days   int

	entries []api.HistoryEntry
	origin  cache.Origin
	loaded  bool
	errText string

	chart barchart.Model
}

func newHistoryModel(c *api.Client, s *store.Store) historyModel {
	days := defaultChartDays
	if s != nil {
		if n, err := strconv.Atoi(s.GetSettingDefault("chart_days", "14")); err == nil && n > 0 {
			days = n
		}
	}
	return historyModel{
		client: c,
		days:   days,
		chart:  barchart.New(60, 12),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m historyModel) refresh() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		entries, origin, err := client.History(ctx)
		return historyMsg{entries: entries, origin: origin, err: err}
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.entries = msg.entries
		m.origin = msg.origin
		m.loaded = true
		m.errText = ""
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, keys.Export):
			return m, m.doExport()
		}
	}
	return m, nil
}

// buildChart plots training minutes per day over the last two weeks.
func (m *historyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	minutesByDate := make(map[string]int)
	for _, e := range m.entries {
		minutesByDate[e.Date] += e.DurationMin
	}

	today := time.Now().UTC()
	start := today.AddDate(0, 0, 1-m.days)

	var bars []barchart.BarData
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("02")

		value := float64(minutesByDate[dateStr])
		style := successStyle
		if value == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: dateStr, Value: value, Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m historyModel) doExport() tea.Cmd {
	entries := m.entries
	return func() tea.Msg {
		if len(entries) == 0 {
			return statusMsg{text: "Nothing to export yet", isError: true}
		}
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, fmt.Sprintf("fitgrid-history-%s.json", time.Now().Format("2006-01-02")))
		if err := export.HistoryToJSON(entries, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (m historyModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("History") + "  " + mutedStyle.Render(fmt.Sprintf("last %d days", m.days))
	if note := originNote(m.origin); m.loaded && note != "" {
		title += "  " + warningStyle.Render(note)
	}

	var body string
	switch {
	case m.errText != "":
		body = errorStyle.Render("Could not load history: "+m.errText) + "\n" +
			mutedStyle.Render("Press r to retry")
	case !m.loaded:
		body = mutedStyle.Render("Loading…")
	default:
		body = m.chart.View() + "\n\n" + m.renderRecent()
	}

	nav := mutedStyle.Render("  e: export  r: refresh")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", nav),
	)
}

func (m historyModel) renderRecent() string {
	if len(m.entries) == 0 {
		return mutedStyle.Render("  No workouts recorded yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-28s %8s", "Date", "Workout", "Minutes")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(m.width-10, 50))))

	shown := min(len(m.entries), 8)
	for _, e := range m.entries[:shown] {
		rows = append(rows, fmt.Sprintf("  %-12s %-28s %8d", e.Date, e.WorkoutTitle, e.DurationMin))
	}
	return strings.Join(rows, "\n")
}

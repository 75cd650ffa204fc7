package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/cache"
)

type programsModel struct {
	client *api.Client
	width  int
	height int

	programs []api.Program
	origin   cache.Origin
	loaded   bool
	errText  string
	cursor   int

	// detail, when non-nil, replaces the listing.
	detail *api.Program
}

func newProgramsModel(c *api.Client) programsModel {
	return programsModel{client: c}
}

func (m *programsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m programsModel) refresh() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		ps, origin, err := client.Programs(ctx)
		return programsMsg{programs: ps, origin: origin, err: err}
	}
}

func (m programsModel) loadDetail(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		p, _, err := client.Program(ctx, id)
		return programDetailMsg{program: p, err: err}
	}
}

func (m programsModel) update(msg tea.Msg) (programsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case programsMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.programs = msg.programs
		m.origin = msg.origin
		m.loaded = true
		m.errText = ""
		if m.cursor >= len(m.programs) {
			m.cursor = max(0, len(m.programs)-1)
		}
		return m, nil

	case programDetailMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", msg.err), isError: true}
			}
		}
		p := msg.program
		m.detail = &p
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			if key.Matches(msg, keys.Back) {
				m.detail = nil
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.programs)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if m.cursor < len(m.programs) {
				return m, m.loadDetail(m.programs[m.cursor].ID)
			}
		case key.Matches(msg, keys.Refresh):
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m programsModel) view() string {
	w := m.width - 4

	if m.detail != nil {
		return m.renderDetail(w)
	}

	title := titleStyle.Render("Programs")
	if note := originNote(m.origin); m.loaded && note != "" {
		title += "  " + warningStyle.Render(note)
	}

	var rows []string
	rows = append(rows, title, "")
	switch {
	case m.errText != "":
		rows = append(rows, errorStyle.Render("Could not load programs: "+m.errText))
		rows = append(rows, mutedStyle.Render("Press r to retry"))
	case !m.loaded:
		rows = append(rows, mutedStyle.Render("Loading…"))
	case len(m.programs) == 0:
		rows = append(rows, mutedStyle.Render("No programs available"))
	default:
		for i, p := range m.programs {
			cursor := "  "
			style := normalItemStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s%-28s %s", cursor, p.Title, mutedStyle.Render(p.Level))))
		}
		rows = append(rows, "", mutedStyle.Render("  enter: details  r: refresh"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m programsModel) renderDetail(w int) string {
	p := m.detail
	rows := []string{
		titleStyle.Render(p.Title),
		"",
		fmt.Sprintf("  %s %s", mutedStyle.Render("Level   "), p.Level),
		fmt.Sprintf("  %s %d weeks, %d sessions/week", mutedStyle.Render("Schedule"), p.Weeks, p.Sessions),
		"",
		"  " + p.Description,
		"",
		mutedStyle.Render("  esc: back"),
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

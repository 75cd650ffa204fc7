package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitgrid/internal/config"
)

type settingsModel struct {
	cfg     *config.Config
	cfgPath string
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	apiURL *string
	ttlMin *string
	debug  *bool
}

func newSettingsModel(cfg *config.Config, cfgPath string) settingsModel {
	u, ttl := "", ""
	dbg := false
	return settingsModel{
		cfg:     cfg,
		cfgPath: cfgPath,
		apiURL:  &u,
		ttlMin:  &ttl,
		debug:   &dbg,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.apiURL = s.cfg.APIBaseURL
	*s.ttlMin = strconv.Itoa(s.cfg.CacheTTLMinutes)
	*s.debug = s.cfg.Debug

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("API base URL").Value(s.apiURL),
			huh.NewInput().Title("Cache TTL (min)").Value(s.ttlMin),
			huh.NewConfirm().Title("Debug logging").Value(s.debug),
		).Title("Client"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	s.cfg.APIBaseURL = *s.apiURL
	if ttl, err := strconv.Atoi(*s.ttlMin); err == nil {
		s.cfg.CacheTTLMinutes = ttl
	}
	s.cfg.Debug = *s.debug

	cfg, path := s.cfg, s.cfgPath
	return func() tea.Msg {
		if err := config.Save(path, cfg); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return statusMsg{text: "Settings saved (restart to apply)"}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	rows := []string{
		title,
		"",
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render("api_base_url"), highlightStyle.Render(s.cfg.APIBaseURL)),
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render("cache_ttl"), highlightStyle.Render(fmt.Sprintf("%d min", s.cfg.CacheTTLMinutes))),
		fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render("debug"), highlightStyle.Render(strconv.FormatBool(s.cfg.Debug))),
		"",
		hint,
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

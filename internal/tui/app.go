package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/config"
	"github.com/sadopc/fitgrid/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	client *api.Client
	cache  *cache.Cache
	width  int
	height int

	authed     bool
	activeView viewState
	showHelp   bool

	login     loginModel
	dashboard dashboardModel
	calendar  calendarModel
	programs  programsModel
	history   historyModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, client *api.Client, c *cache.Cache, cfg *config.Config, cfgPath string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		client:     client,
		cache:      c,
		authed:     client.Session().SignedIn(),
		activeView: viewDashboard,
		login:      newLoginModel(client, s),
		dashboard:  newDashboardModel(client),
		calendar:   newCalendarModel(client, s),
		programs:   newProgramsModel(client),
		history:    newHistoryModel(client, s),
		settings:   newSettingsModel(cfg, cfgPath),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	if !a.authed {
		return a.login.Init()
	}
	return a.dashboard.loadData()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.programs.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		if msg.err == nil && msg.session != nil {
			a.authed = true
			a.status = "Signed in as " + msg.session.Email
			return a, a.dashboard.loadData()
		}
		return a, cmd

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		return a, nil

	case signedOutMsg:
		a.authed = false
		a.status = "Signed out"
		a.login = newLoginModel(a.client, a.store)
		return a, a.login.Init()

	case tea.KeyMsg:
		if !a.authed {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			return a, cmd
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.SignOut):
			return a, a.signOut()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewCalendar
			return a, a.calendar.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewPrograms
			return a, a.programs.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}
	}

	if !a.authed {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewPrograms:
		a.programs, cmd = a.programs.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewCalendar:
		return a.calendar.refresh()
	case viewPrograms:
		return a.programs.refresh()
	case viewHistory:
		return a.history.refresh()
	}
	return nil
}

// signOut drops the session and every cached payload for the account.
func (a App) signOut() tea.Cmd {
	st, c := a.store, a.cache
	return func() tea.Msg {
		st.ClearSession()
		c.Clear()
		return signedOutMsg{}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if !a.authed {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.login.view())
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewPrograms:
		content = a.programs.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("fitgrid")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	user := ""
	if sess := a.client.Session(); sess.SignedIn() {
		user = highlightStyle.Render(" " + sess.Email)
	}

	left := footerStyle.Render(helpView)
	right := user + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

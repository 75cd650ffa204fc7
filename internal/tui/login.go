package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/fitgrid/internal/api"
	"github.com/sadopc/fitgrid/internal/store"
)

type loginModel struct {
	client *api.Client
	store  *store.Store
	width  int
	height int

	form    *huh.Form
	busy    bool
	errText string

	// Form values as pointers (survive value copies)
	email    *string
	password *string
}

func newLoginModel(c *api.Client, s *store.Store) loginModel {
	email, password := "", ""
	m := loginModel{
		client:   c,
		store:    s,
		email:    &email,
		password: &password,
	}
	m.form = m.newForm()
	return m
}

func (m loginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(m.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(m.password),
		).Title("Sign in"),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m *loginModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			*m.password = ""
			m.form = m.newForm()
			return m, m.form.Init()
		}
		return m, nil
	default:
		_ = msg
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		m.errText = ""
		return m, m.signIn(*m.email, *m.password)
	}

	return m, cmd
}

// signIn authenticates and mirrors the resulting session to the store so
// the next launch skips the form.
func (m loginModel) signIn(email, password string) tea.Cmd {
	client, st := m.client, m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		sess, err := client.Login(ctx, email, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		if err := st.SaveSession(sess); err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{session: sess}
	}
}

func (m loginModel) view() string {
	w := m.width - 4
	if w < 20 {
		w = 20
	}

	title := titleStyle.Render("fitgrid") + "  " + mutedStyle.Render("sign in to your account")

	var rows []string
	rows = append(rows, title, "")
	if m.busy {
		rows = append(rows, mutedStyle.Render("Signing in…"))
	} else {
		rows = append(rows, m.form.View())
	}
	if m.errText != "" {
		rows = append(rows, "", errorStyle.Render(m.errText))
	}

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

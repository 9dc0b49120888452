// Package app wires the TaskFlow TUI together: one bubbletea Model routes
// between pages, owns the modal forms, and is the only place network commands
// are dispatched from. The split mirrors the update loop's shape:
//   - model.go: types and construction
//   - commands.go: tea.Cmd producers (all network IO)
//   - update.go: the Update loop
//   - view.go: rendering
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"taskflow/cmd/taskflow/ui"
	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/form"
	"taskflow/internal/session"
	"taskflow/internal/types"
)

// Page identifies the active full-screen page.
type Page int

const (
	PageLogin Page = iota
	PageDashboard
	PageTeam
	PageHelp
)

// modal identifies the overlay form, if any.
type modal int

const (
	modalNone modal = iota
	modalUserForm
	modalTaskForm
)

// notice is a transient status line shown in the footer.
type notice struct {
	text  string
	isErr bool
	seq   int
}

// Model is the root bubbletea model.
type Model struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Store
	logger  *zap.Logger
	styles  ui.Styles

	page  Page
	modal modal

	login     ui.LoginPageModel
	dashboard ui.DashboardPageModel
	team      ui.TeamPageModel
	help      ui.HelpPageModel
	userForm  ui.UserFormPageModel
	taskForm  ui.TaskFormPageModel

	roster []types.Principal
	notice notice

	width  int
	height int
}

// New assembles the root model. The session store decides the starting page:
// a restored session goes straight to the dashboard.
func New(cfg *config.Config, client *api.Client, store *session.Store, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	m := Model{
		cfg:       cfg,
		client:    client,
		session:   store,
		logger:    logger,
		styles:    styles,
		login:     ui.NewLoginPageModel(styles),
		dashboard: ui.NewDashboardPageModel(styles),
		team:      ui.NewTeamPageModel(styles),
		help:      ui.NewHelpPageModel(styles),
	}
	if _, ok := store.Current(); ok {
		m.page = PageDashboard
	} else {
		m.page = PageLogin
	}
	return m
}

// Init starts the initial data load when a session was restored from disk.
// The dashboard page constructs in its loading state, so no mutation is
// needed here.
func (m Model) Init() tea.Cmd {
	if m.page == PageDashboard {
		return m.loadDataCmd()
	}
	return nil
}

// openUserForm builds a fresh controller and its hosting page.
func (m *Model) openUserForm(mode form.Mode, target types.Principal) {
	ctrl := form.New(form.Config{
		Mode:           mode,
		Target:         target,
		Facade:         m.client,
		Session:        m.session,
		SuccessDisplay: m.cfg.UI.SuccessDisplay(),
		Logger:         m.logger,
	})
	m.userForm = ui.NewUserFormPageModel(ctrl, m.styles)
	m.modal = modalUserForm
}

// openTaskForm builds the task form and feeds it the roster we already have.
func (m *Model) openTaskForm() {
	m.taskForm = ui.NewTaskFormPageModel(m.styles)
	if m.roster != nil {
		m.taskForm.RosterLoaded(m.roster)
	}
	m.modal = modalTaskForm
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = notice{text: text, isErr: isErr, seq: m.notice.seq + 1}
}

// requestContext bounds every network command issued from the update loop.
func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cfg.API.RequestTimeout())
}

// noticeTTL is how long error and info notices linger in the footer.
// Success notices from the form controller use the configured display
// duration instead.
const noticeTTL = 4 * time.Second

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"taskflow/cmd/taskflow/ui"
	"taskflow/internal/api"
	"taskflow/internal/dashboard"
	"taskflow/internal/form"
	"taskflow/internal/types"
)

// Update is the single event loop. Modal forms capture input first; page
// switching and refresh keys apply only when no modal is open.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.login.SetSize(msg.Width, msg.Height)
		m.dashboard.SetSize(msg.Width, msg.Height-3)
		m.team.SetSize(msg.Width, msg.Height-3)
		m.help.SetSize(msg.Width, msg.Height-3)
		m.userForm.SetSize(msg.Width, msg.Height)
		m.taskForm.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case ui.SubmitRequestedMsg:
		return m.submitModal()

	case ui.CancelRequestedMsg:
		m.modal = modalNone
		return m, nil

	case loginResultMsg:
		return m.applyLoginResult(msg)

	case dataLoadedMsg:
		return m.applyDataLoaded(msg)

	case formResolvedMsg:
		return m.applyFormResolved(msg)

	case formCompleteMsg:
		if m.modal == modalUserForm && m.userForm.Controller().ID() == msg.controllerID {
			m.userForm.Controller().Complete()
			m.modal = modalNone
			m.notice = notice{seq: m.notice.seq}
		}
		return m, nil

	case taskCreatedMsg:
		return m.applyTaskCreated(msg)

	case noticeExpiredMsg:
		if m.notice.seq == msg.seq {
			m.notice.text = ""
		}
		return m, nil

	case SessionChangedMsg:
		return m.applySessionChange()
	}

	return m.routeToActive(msg)
}

// updateKey handles keys once the global quit has been filtered out.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.routeToActive(msg)
	}

	switch m.page {
	case PageLogin:
		if msg.Type == tea.KeyEnter {
			if m.login.Busy() || !m.login.Validate() {
				return m, nil
			}
			email, password := m.login.Values()
			m.login.SetBusy(true)
			return m, tea.Batch(m.loginCmd(email, password), m.login.Tick())
		}
		return m.routeToActive(msg)

	default:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1":
			m.page = PageDashboard
			return m, nil
		case "2":
			if m.session.IsAdmin() {
				m.page = PageTeam
				if m.roster == nil {
					m.team.SetLoading()
					return m, m.loadDataCmd()
				}
			}
			return m, nil
		case "?":
			m.page = PageHelp
			return m, nil
		case "r":
			m.dashboard.SetLoading()
			m.team.SetLoading()
			return m, m.loadDataCmd()
		}

		if m.page == PageTeam {
			switch msg.String() {
			case "a":
				m.openUserForm(form.ModeCreate, types.Principal{})
				return m, nil
			case "enter":
				if target, ok := m.team.Current(); ok {
					m.openUserForm(form.ModeUpdate, target)
				}
				return m, nil
			case "t":
				m.openTaskForm()
				return m, nil
			}
		}
		return m.routeToActive(msg)
	}
}

// submitModal reacts to a form's submit request.
func (m Model) submitModal() (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalUserForm:
		ctrl := m.userForm.Controller()
		run, ok := ctrl.Submit(context.Background())
		if !ok {
			// Busy, or validation failed; field errors render in place.
			return m, nil
		}
		return m, tea.Batch(submitFormCmd(run), m.userForm.Tick())

	case modalTaskForm:
		if m.taskForm.Busy() || !m.taskForm.Validate() {
			return m, nil
		}
		payload := m.taskForm.Payload(time.Now())
		m.taskForm.SetBusy(true)
		return m, tea.Batch(m.createTaskCmd(payload), m.taskForm.Tick())
	}
	return m, nil
}

func (m Model) applyLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.SetBusy(false)
	if msg.err != nil {
		m.login.Reset()
		m.setNotice(api.UserMessage(msg.err), true)
		return m, expireNoticeCmd(m.notice.seq, noticeTTL)
	}
	m.page = PageDashboard
	m.dashboard.SetLoading()
	return m, m.loadDataCmd()
}

func (m Model) applyDataLoaded(msg dataLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuth(msg.err) {
			return m.forceSignOut("Your session has expired. Please sign in again.")
		}
		m.logger.Warn("data load failed", zap.Error(msg.err))
		m.setNotice(api.UserMessage(msg.err), true)
		return m, expireNoticeCmd(m.notice.seq, noticeTTL)
	}

	viewer, ok := m.session.Current()
	if !ok {
		return m.forceSignOut("Signed out.")
	}
	m.dashboard.UpdateContent(dashboard.Compose(msg.stats, m.session.IsAdmin()), viewer, time.Now())

	if msg.roster != nil {
		m.roster = msg.roster
		m.team.SetRoster(msg.roster)
		if m.modal == modalTaskForm {
			m.taskForm.RosterLoaded(msg.roster)
		}
	}
	return m, nil
}

func (m Model) applyFormResolved(msg formResolvedMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalUserForm {
		return m, nil
	}
	ctrl := m.userForm.Controller()
	ev := ctrl.Resolve(msg.outcome)

	switch ev.Kind {
	case form.EventFailure:
		if api.IsAuth(ev.Err) {
			return m.forceSignOut("Your session has expired. Please sign in again.")
		}
		m.setNotice(ev.Notice, true)
		return m, expireNoticeCmd(m.notice.seq, noticeTTL)

	case form.EventSuccess:
		m.setNotice(ev.Notice, false)
		return m, tea.Batch(
			completeFormCmd(ctrl.ID(), ev.Dismiss),
			m.loadDataCmd(),
		)
	}
	return m, nil
}

func (m Model) applyTaskCreated(msg taskCreatedMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalTaskForm {
		return m, nil
	}
	m.taskForm.SetBusy(false)
	if msg.err != nil {
		if api.IsAuth(msg.err) {
			return m.forceSignOut("Your session has expired. Please sign in again.")
		}
		m.setNotice(api.UserMessage(msg.err), true)
		return m, expireNoticeCmd(m.notice.seq, noticeTTL)
	}
	m.modal = modalNone
	m.setNotice("Task created successfully", false)
	m.dashboard.SetLoading()
	return m, tea.Batch(expireNoticeCmd(m.notice.seq, noticeTTL), m.loadDataCmd())
}

// applySessionChange reconciles the UI after the session file changed on
// disk, typically `taskflow logout` in another terminal.
func (m Model) applySessionChange() (tea.Model, tea.Cmd) {
	if _, ok := m.session.Current(); !ok {
		return m.forceSignOut("Signed out.")
	}
	if m.page == PageLogin {
		m.page = PageDashboard
		m.dashboard.SetLoading()
		return m, m.loadDataCmd()
	}
	return m, nil
}

// forceSignOut drops to the login page and clears transient state.
func (m Model) forceSignOut(reason string) (tea.Model, tea.Cmd) {
	m.session.Logout()
	m.page = PageLogin
	m.modal = modalNone
	m.roster = nil
	m.login = ui.NewLoginPageModel(m.styles)
	m.setNotice(reason, true)
	return m, expireNoticeCmd(m.notice.seq, noticeTTL)
}

// routeToActive forwards a message to whichever page owns the screen.
func (m Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.modal == modalUserForm:
		m.userForm, cmd = m.userForm.Update(msg)
	case m.modal == modalTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case m.page == PageLogin:
		m.login, cmd = m.login.Update(msg)
	case m.page == PageDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case m.page == PageTeam:
		m.team, cmd = m.team.Update(msg)
	case m.page == PageHelp:
		m.help, cmd = m.help.Update(msg)
	}
	return m, cmd
}

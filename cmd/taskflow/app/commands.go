package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"taskflow/internal/api"
	"taskflow/internal/form"
	"taskflow/internal/types"
)

// Messages produced by the commands below.

type loginResultMsg struct {
	err error
}

type dataLoadedMsg struct {
	stats  types.DashboardStats
	roster []types.Principal
	err    error
}

type formResolvedMsg struct {
	outcome form.Outcome
}

type formCompleteMsg struct {
	controllerID string
}

type taskCreatedMsg struct {
	task types.TaskSummary
	err  error
}

type noticeExpiredMsg struct {
	seq int
}

// SessionChangedMsg reports that the durable session file changed under us.
// main's watcher callback sends it through Program.Send.
type SessionChangedMsg struct{}

// loginCmd authenticates and persists the session through the store.
func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		_, err := m.session.Login(ctx, email, password)
		return loginResultMsg{err: err}
	}
}

// loadDataCmd fetches the dashboard stats and, for admin viewers, the roster
// in one round: both requests run concurrently and the first error wins.
func (m Model) loadDataCmd() tea.Cmd {
	wantRoster := m.session.IsAdmin()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		var msg dataLoadedMsg
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			stats, err := m.client.FetchDashboardStats(ctx)
			if err != nil {
				return err
			}
			msg.stats = stats
			return nil
		})
		if wantRoster {
			g.Go(func() error {
				roster, err := m.client.ListRoster(ctx, "")
				if err != nil {
					return err
				}
				msg.roster = roster
				return nil
			})
		}
		msg.err = g.Wait()
		return msg
	}
}

// submitFormCmd runs the controller's network closure off the event loop.
func submitFormCmd(run func() form.Outcome) tea.Cmd {
	return func() tea.Msg {
		return formResolvedMsg{outcome: run()}
	}
}

// completeFormCmd fires after the success notice has been displayed.
func completeFormCmd(controllerID string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return formCompleteMsg{controllerID: controllerID}
	})
}

// createTaskCmd submits the task payload.
func (m Model) createTaskCmd(p api.TaskPayload) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		task, err := m.client.CreateTask(ctx, p)
		return taskCreatedMsg{task: task, err: err}
	}
}

// expireNoticeCmd clears a footer notice unless a newer one replaced it.
func expireNoticeCmd(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/api"
	"taskflow/internal/team"
	"taskflow/internal/types"
)

// taskFormRow indexes the focusable rows of the task form. Row values at or
// above tfMembers address the roster checkbox list.
type taskFormRow int

const (
	tfTitle taskFormRow = iota
	tfStage
	tfPriority
	tfMembers
)

var (
	taskStages     = []types.Stage{types.StageTodo, types.StageInProgress, types.StageCompleted}
	taskPriorities = []string{"high", "medium", "normal", "low"}
)

// TaskFormPageModel is the task-creation form. Its team checkbox list is
// backed by a team.Selector: the selector owns the default-selection rule and
// pushes every change into the committed team synchronously, so the draft the
// app submits is always current.
type TaskFormPageModel struct {
	title    textinput.Model
	stage    int
	priority int

	selector *team.Selector
	team     []types.Principal // committed selection, written by the selector

	focus    taskFormRow
	titleErr string
	spinner  spinner.Model
	busy     bool
	styles   Styles
	width    int
}

// NewTaskFormPageModel creates the form with an empty committed team. The
// selector stays in Loading until the app delivers the roster.
func NewTaskFormPageModel(styles Styles) TaskFormPageModel {
	in := textinput.New()
	in.Placeholder = "Task title"
	in.CharLimit = 120
	in.Width = 40
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Bold

	m := TaskFormPageModel{
		title:    in,
		priority: 2, // "normal"
		spinner:  sp,
		styles:   styles,
	}
	m.selector = team.NewSelector(nil, func(sel []types.Principal) {
		m.team = sel
	})
	return m
}

// RosterLoaded hands the fetched roster to the selector. The first delivery
// defaults the selection to the roster head when nothing was committed.
func (m *TaskFormPageModel) RosterLoaded(roster []types.Principal) {
	// Rebind the callback to this copy of the model; bubbletea models are
	// passed by value and the closure captured the original.
	m.selector.SetOnChange(func(sel []types.Principal) { m.team = sel })
	m.selector.RosterLoaded(roster)
	m.team = m.selector.Selected()
}

// SetSize updates layout bounds.
func (m *TaskFormPageModel) SetSize(w, h int) { m.width = w }

// SetBusy toggles the in-flight state.
func (m *TaskFormPageModel) SetBusy(busy bool) { m.busy = busy }

// Busy reports whether a submission is in flight.
func (m TaskFormPageModel) Busy() bool { return m.busy }

// Tick starts the busy spinner.
func (m TaskFormPageModel) Tick() tea.Cmd { return m.spinner.Tick }

// Validate checks the draft locally. Only the title is user-entered free
// text; stage and priority are cycled through fixed legal values.
func (m *TaskFormPageModel) Validate() bool {
	m.titleErr = ""
	if strings.TrimSpace(m.title.Value()) == "" {
		m.titleErr = "Title is required!"
	}
	return m.titleErr == ""
}

// Payload assembles the wire payload from the current draft.
func (m TaskFormPageModel) Payload(now time.Time) api.TaskPayload {
	ids := make([]string, 0, len(m.team))
	for _, p := range m.team {
		ids = append(ids, p.ID)
	}
	return api.TaskPayload{
		Title:    strings.TrimSpace(m.title.Value()),
		Stage:    string(taskStages[m.stage]),
		Priority: taskPriorities[m.priority],
		Team:     ids,
		Date:     now.Format(time.RFC3339),
	}
}

func (m TaskFormPageModel) lastRow() taskFormRow {
	return tfMembers + taskFormRow(len(m.selector.Members())) - 1
}

// Update handles editing, row navigation, and member toggling.
func (m TaskFormPageModel) Update(msg tea.Msg) (TaskFormPageModel, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok || m.busy {
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return CancelRequestedMsg{} }

	case "enter":
		return m, func() tea.Msg { return SubmitRequestedMsg{} }

	case "tab", "down":
		if m.focus < m.lastRow() {
			m.focus++
		} else {
			m.focus = tfTitle
		}
	case "shift+tab", "up":
		if m.focus > tfTitle {
			m.focus--
		} else {
			m.focus = m.lastRow()
		}

	case "left", "right":
		delta := 1
		if key.String() == "left" {
			delta = -1
		}
		switch m.focus {
		case tfStage:
			m.stage = (m.stage + delta + len(taskStages)) % len(taskStages)
		case tfPriority:
			m.priority = (m.priority + delta + len(taskPriorities)) % len(taskPriorities)
		}

	case " ":
		if m.focus >= tfMembers {
			members := m.selector.Members()
			idx := int(m.focus - tfMembers)
			if idx < len(members) {
				m.selector.SetOnChange(func(sel []types.Principal) { m.team = sel })
				m.selector.Toggle(members[idx].ID)
			}
		}
	}

	if m.focus == tfTitle {
		m.title.Focus()
	} else {
		m.title.Blur()
	}
	if m.focus == tfTitle {
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(key)
		return m, cmd
	}
	return m, nil
}

// View renders the form.
func (m TaskFormPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("ADD TASK"))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Label.Render("Task Title"))
	sb.WriteString("\n")
	sb.WriteString(m.title.View())
	sb.WriteString("\n")
	if m.titleErr != "" {
		sb.WriteString(m.styles.FieldError.Render(m.titleErr))
		sb.WriteString("\n")
	}

	sb.WriteString(m.cycleRow("Stage", string(taskStages[m.stage]), m.focus == tfStage))
	sb.WriteString(m.cycleRow("Priority", taskPriorities[m.priority], m.focus == tfPriority))

	sb.WriteString("\n")
	sb.WriteString(m.styles.Label.Render("Assign Task To"))
	sb.WriteString("\n")
	if m.selector.State() == team.Loading {
		sb.WriteString(m.styles.Muted.Render("Loading team..."))
		sb.WriteString("\n")
	}
	for i, p := range m.selector.Members() {
		mark := "[ ]"
		if m.selector.IsSelected(p.ID) {
			mark = "[x]"
		}
		cursor := "  "
		if m.focus == tfMembers+taskFormRow(i) {
			cursor = m.styles.Cursor.Render("> ")
		}
		sb.WriteString(fmt.Sprintf("%s%s %s %s\n",
			cursor, mark, Truncate(p.Name, 28), m.styles.Muted.Render(p.Title)))
	}

	sb.WriteString("\n")
	if m.busy {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Creating task...")
	} else {
		sb.WriteString(m.styles.Muted.Render("enter submit • space toggle member • ←/→ cycle • esc cancel"))
	}
	return sb.String()
}

func (m TaskFormPageModel) cycleRow(label, value string, focused bool) string {
	cursor := "  "
	if focused {
		cursor = m.styles.Cursor.Render("> ")
	}
	return m.styles.Label.Render(label) + "\n" + cursor + "◂ " + value + " ▸\n"
}

package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# TaskFlow

A terminal client for the TaskFlow task manager.

## Pages

| Key | Page |
| --- | ---- |
| ` + "`1`" + ` | Dashboard |
| ` + "`2`" + ` | Team (admins only) |
| ` + "`?`" + ` | This help |

## Dashboard

Shows four stat cards (total, completed, in progress, to do), the ten most
recent tasks, and, for administrators, the team panel. Press ` + "`r`" + ` to
refresh.

## Team

Administrators manage people here.

* ` + "`a`" + ` opens the add-user form. New users need a password of at
  least 6 characters, entered twice.
* ` + "`enter`" + ` edits the highlighted user. Editing never touches the
  password.
* ` + "`t`" + ` opens the task form. The first team member is preselected
  when you have not picked anyone yet.

## Session

Your login token is stored in ` + "`~/.taskflow/session.json`" + ` and
survives restarts. ` + "`taskflow logout`" + ` clears it; the running client
notices the change and returns to the login screen.

## Keys

* ` + "`tab` / `shift+tab`" + ` move between form fields
* ` + "`esc`" + ` closes a form without saving
* ` + "`q` / `ctrl+c`" + ` quit
`

// HelpPageModel renders the built-in manual through glamour inside a
// scrollable viewport.
type HelpPageModel struct {
	viewport viewport.Model
	rendered string
	styles   Styles
	width    int
	ready    bool
}

// NewHelpPageModel creates the help page; rendering happens on first SetSize
// once the terminal width is known.
func NewHelpPageModel(styles Styles) HelpPageModel {
	return HelpPageModel{styles: styles}
}

// SetSize lays out the viewport and re-renders the markdown at the new
// width.
func (m *HelpPageModel) SetSize(w, h int) {
	m.width = w
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}

	wrap := w - 2
	if wrap > 100 {
		wrap = 100
	}
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.rendered = helpMarkdown
	} else if out, err := r.Render(helpMarkdown); err != nil {
		m.rendered = helpMarkdown
	} else {
		m.rendered = out
	}
	m.viewport.SetContent(m.rendered)
}

// Update scrolls the viewport.
func (m HelpPageModel) Update(msg tea.Msg) (HelpPageModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m HelpPageModel) View() string {
	if !m.ready {
		return "Loading help..."
	}
	return m.viewport.View()
}

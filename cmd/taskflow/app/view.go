package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the header tab bar, the active page or modal, and the footer
// notice line.
func (m Model) View() string {
	if m.page == PageLogin && m.modal == modalNone {
		return m.login.View() + "\n" + m.footer()
	}

	var body string
	switch {
	case m.modal == modalUserForm:
		body = m.userForm.View()
	case m.modal == modalTaskForm:
		body = m.taskForm.View()
	case m.page == PageDashboard:
		body = m.dashboard.View()
	case m.page == PageTeam:
		body = m.team.View()
	case m.page == PageHelp:
		body = m.help.View()
	}

	return m.header() + "\n" + body + "\n" + m.footer()
}

func (m Model) header() string {
	type tab struct {
		key   string
		label string
		page  Page
	}
	tabs := []tab{
		{"1", "Dashboard", PageDashboard},
		{"2", "Team", PageTeam},
		{"?", "Help", PageHelp},
	}

	parts := []string{m.styles.Header.Render(" TaskFlow ")}
	for _, t := range tabs {
		if t.page == PageTeam && !m.session.IsAdmin() {
			continue
		}
		label := t.key + " " + t.label
		if m.page == t.page && m.modal == modalNone {
			parts = append(parts, m.styles.TabOn.Render(label))
		} else {
			parts = append(parts, m.styles.Tab.Render(label))
		}
	}
	if viewer, ok := m.session.Current(); ok {
		parts = append(parts, m.styles.Muted.Render("  "+viewer.Email))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) footer() string {
	if m.notice.text == "" {
		return ""
	}
	style := m.styles.Success
	if m.notice.isErr {
		style = m.styles.Error
	}
	line := style.Render(m.notice.text)
	if m.width > 0 {
		pad := (m.width - lipgloss.Width(line)) / 2
		if pad > 0 {
			line = strings.Repeat(" ", pad) + line
		}
	}
	return line
}

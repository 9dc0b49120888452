package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/types"
)

// TeamPageModel lists the roster and lets an admin pick a member to edit or
// start creating a new one. The page itself has no network access; the app
// layer feeds it the roster and reads the highlighted member back.
type TeamPageModel struct {
	roster  []types.Principal
	cursor  int
	loading bool
	styles  Styles
	width   int
	height  int
}

// NewTeamPageModel creates the team page in its loading state.
func NewTeamPageModel(styles Styles) TeamPageModel {
	return TeamPageModel{styles: styles, loading: true}
}

// SetSize updates layout bounds.
func (m *TeamPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetLoading marks the roster as being (re)fetched.
func (m *TeamPageModel) SetLoading() { m.loading = true }

// SetRoster installs a freshly loaded roster, clamping the cursor.
func (m *TeamPageModel) SetRoster(roster []types.Principal) {
	m.roster = roster
	m.loading = false
	if m.cursor >= len(roster) {
		m.cursor = 0
	}
}

// Current returns the highlighted member.
func (m TeamPageModel) Current() (types.Principal, bool) {
	if m.loading || len(m.roster) == 0 {
		return types.Principal{}, false
	}
	return m.roster[m.cursor], true
}

// Update handles cursor movement.
func (m TeamPageModel) Update(msg tea.Msg) (TeamPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.loading {
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.roster)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// View renders the roster table.
func (m TeamPageModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Team Members"))
	sb.WriteString("\n")

	if m.loading {
		sb.WriteString(m.styles.Muted.Render("Loading team..."))
		return sb.String()
	}
	if len(m.roster) == 0 {
		sb.WriteString(m.styles.Muted.Render("No team members yet. Press 'a' to add one."))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  %-24s %-18s %-26s %-10s %s\n",
		"Name", "Title", "Email", "Role", "Status"))
	sb.WriteString(m.styles.Muted.Render(strings.Repeat("─", 92)))
	sb.WriteString("\n")

	now := time.Now()
	for i, u := range m.roster {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		status := m.styles.Success.Render("Active")
		if !u.IsActive {
			status = m.styles.Muted.Render("Inactive")
		}
		admin := ""
		if u.IsAdmin {
			admin = m.styles.Badge.Render("admin")
		}
		sb.WriteString(fmt.Sprintf("%s%-24s %-18s %-26s %-10s %s %s %s\n",
			cursor,
			Truncate(u.Name, 24),
			Truncate(u.Title, 18),
			Truncate(u.Email, 26),
			Truncate(u.Role, 10),
			status,
			admin,
			m.styles.Muted.Render(RelTime(u.CreatedAt, now)),
		))
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("a add • enter edit • t new task • r refresh"))
	return sb.String()
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/dashboard"
	"taskflow/internal/types"
)

// DashboardPageModel renders the stat cards, the recent-tasks table, and —
// for administrators — the team-members panel.
type DashboardPageModel struct {
	viewport viewport.Model
	styles   Styles
	loading  bool
	width    int
	height   int
}

// NewDashboardPageModel creates the dashboard page.
func NewDashboardPageModel(styles Styles) DashboardPageModel {
	vp := viewport.New(80, 20)
	vp.SetContent("Loading dashboard...")
	return DashboardPageModel{viewport: vp, styles: styles, loading: true}
}

// SetSize updates the viewport bounds.
func (m *DashboardPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 4 // header and footer
}

// SetLoading marks the page as waiting for stats.
func (m *DashboardPageModel) SetLoading() {
	m.loading = true
	m.viewport.SetContent("Loading dashboard...")
}

// UpdateContent refreshes the page from a composed dashboard view.
func (m *DashboardPageModel) UpdateContent(view dashboard.View, viewer types.Principal, now time.Time) {
	m.loading = false

	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Welcome back, %s", viewer.FirstName())))
	sb.WriteString("\n")

	// Stat cards, fixed order.
	cards := make([]string, 0, len(view.Cards))
	for _, c := range view.Cards {
		body := m.styles.Muted.Render(c.Label) + "\n" +
			m.styles.CardCount.Render(fmt.Sprintf("%d", c.Count))
		cards = append(cards, m.styles.Card.Render(body))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderRecentTasks(view.RecentTasks, now))

	if view.ShowTeamMembers {
		sb.WriteString("\n")
		sb.WriteString(m.renderTeamMembers(view.TeamMembers, now))
	}

	m.viewport.SetContent(sb.String())
}

func (m *DashboardPageModel) renderRecentTasks(tasks []types.TaskSummary, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render("Recent Tasks"))
	sb.WriteString("\n")
	if len(tasks) == 0 {
		sb.WriteString(m.styles.Muted.Render("No tasks yet."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-34s %-13s %-8s %-14s %s\n",
		"Task", "Stage", "Priority", "Team", "Created"))
	sb.WriteString(m.styles.Muted.Render(strings.Repeat("─", 84)))
	sb.WriteString("\n")

	for _, t := range tasks {
		dot := StageStyle(string(t.Stage)).Render("●")
		team := make([]string, 0, 3)
		for i, member := range t.Team {
			if i == 3 {
				team = append(team, fmt.Sprintf("+%d", len(t.Team)-3))
				break
			}
			team = append(team, Initials(member.Name))
		}
		sb.WriteString(fmt.Sprintf("%s %-32s %-13s %-8s %-14s %s\n",
			dot,
			Truncate(t.Title, 32),
			t.Stage,
			priorityMarker(t.Priority),
			strings.Join(team, " "),
			m.styles.Muted.Render(RelTime(t.Date, now)),
		))
	}
	return sb.String()
}

func (m *DashboardPageModel) renderTeamMembers(users []types.Principal, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render("Team Members"))
	sb.WriteString("\n")

	for _, u := range users {
		status := m.styles.Success.Render("Active")
		if !u.IsActive {
			status = m.styles.Muted.Render("Inactive")
		}
		sb.WriteString(fmt.Sprintf("%-4s %-24s %-14s %s %s\n",
			m.styles.Badge.Render(Initials(u.Name)),
			Truncate(u.Name, 24),
			Truncate(u.Role, 14),
			status,
			m.styles.Muted.Render(RelTime(u.CreatedAt, now)),
		))
	}
	return sb.String()
}

// priorityMarker mirrors the web client's arrow icons.
func priorityMarker(p string) string {
	switch p {
	case "high":
		return "↑↑ high"
	case "medium":
		return "↑ med"
	case "low":
		return "↓ low"
	default:
		return p
	}
}

// Update handles scrolling.
func (m DashboardPageModel) Update(msg tea.Msg) (DashboardPageModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m DashboardPageModel) View() string {
	return m.viewport.View()
}

// Package dashboard projects the backend's sparse statistics payload into
// the fixed card set the dashboard renders. Pure functions only: no network,
// no mutable state.
package dashboard

import "taskflow/internal/types"

// Card is one dashboard stat tile.
type Card struct {
	Label string
	Count int
}

// Fixed card labels, in display order.
const (
	LabelTotal      = "Total Tasks"
	LabelCompleted  = "Completed"
	LabelInProgress = "In Progress"
	LabelTodo       = "To Do"
)

// Cards projects the raw stats into the fixed, ordered card list. The
// backend omits stages with zero tasks; a missing key is exactly 0 here,
// never anything that could render as empty.
func Cards(stats types.DashboardStats) [4]Card {
	return [4]Card{
		{Label: LabelTotal, Count: stats.TotalTasks},
		{Label: LabelCompleted, Count: stats.ByStage[types.StageCompleted]},
		{Label: LabelInProgress, Count: stats.ByStage[types.StageInProgress]},
		{Label: LabelTodo, Count: stats.ByStage[types.StageTodo]},
	}
}

// View is the composed dashboard projection handed to the renderer.
type View struct {
	Cards       [4]Card
	RecentTasks []types.TaskSummary
	// TeamMembers is populated only for administrators; the gate is the
	// session principal, never the response payload.
	TeamMembers     []types.Principal
	ShowTeamMembers bool
}

// Compose builds the full dashboard view for the given viewer. The
// team-members panel is included iff the viewer is an admin.
func Compose(stats types.DashboardStats, viewerIsAdmin bool) View {
	v := View{
		Cards:       Cards(stats),
		RecentTasks: stats.Last10,
	}
	if viewerIsAdmin {
		v.TeamMembers = stats.Users
		v.ShowTeamMembers = true
	}
	return v
}

// Package types defines the core domain entities shared by the taskflow
// client: the authenticated principal, the person-form draft, and the
// dashboard statistics payload. Wire shapes (JSON tags) follow the backend's
// contract; this client does not own them.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Principal is the authenticated actor recognized by the backend, and also
// the shape of every roster entry.
type Principal struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"isAdmin"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// FirstName returns the principal's given name for greeting headers.
func (p Principal) FirstName() string {
	if i := strings.IndexByte(p.Name, ' '); i > 0 {
		return p.Name[:i]
	}
	return p.Name
}

// Stage is a task's lifecycle bucket.
type Stage string

const (
	StageTodo       Stage = "todo"
	StageInProgress Stage = "in progress"
	StageCompleted  Stage = "completed"
)

// TaskSummary is the condensed task representation the dashboard endpoint
// returns for the recent-tasks table.
type TaskSummary struct {
	ID       string      `json:"_id"`
	Title    string      `json:"title"`
	Stage    Stage       `json:"stage"`
	Priority string      `json:"priority"`
	Team     []Principal `json:"team"`
	Date     time.Time   `json:"date"`
}

// DashboardStats is the raw dashboard aggregate. ByStage is sparsely keyed:
// the backend omits stages with zero tasks, so consumers must default missing
// keys to 0.
type DashboardStats struct {
	TotalTasks int           `json:"totalTasks"`
	ByStage    map[Stage]int `json:"tasks"`
	Last10     []TaskSummary `json:"last10Task"`
	Users      []Principal   `json:"users"`
}

// AdminFlag is the form-domain encoding of the isAdmin boolean. Exactly two
// values are legal; anything else is a validation error, never a silent
// default.
type AdminFlag string

const (
	AdminYes AdminFlag = "yes"
	AdminNo  AdminFlag = "no"
)

// Bool translates the flag to the entity-domain boolean. The mapping is total
// over {yes, no} only.
func (f AdminFlag) Bool() (bool, error) {
	switch f {
	case AdminYes:
		return true, nil
	case AdminNo:
		return false, nil
	default:
		return false, fmt.Errorf("invalid admin flag %q", string(f))
	}
}

// FlagFromBool is the inverse of Bool; the two functions round-trip in both
// directions.
func FlagFromBool(b bool) AdminFlag {
	if b {
		return AdminYes
	}
	return AdminNo
}

// PersonDraft is the working state of the create/update person form. It is
// distinct from Principal: password fields exist only here, and the admin
// flag is still in its UI encoding.
type PersonDraft struct {
	Name            string
	Title           string
	Email           string
	Role            string
	IsAdmin         AdminFlag
	Password        string
	ConfirmPassword string
}

// DraftFromPrincipal seeds an update-mode draft from an existing entity.
// Password fields start empty and stay out of update payloads entirely.
func DraftFromPrincipal(p Principal) PersonDraft {
	return PersonDraft{
		Name:    p.Name,
		Title:   p.Title,
		Email:   p.Email,
		Role:    p.Role,
		IsAdmin: FlagFromBool(p.IsAdmin),
	}
}

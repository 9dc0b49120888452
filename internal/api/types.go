package api

import "taskflow/internal/types"

// CreatePayload is the wire shape for registering a new person. The confirm
// field never leaves the form; the password does, exactly once, here.
type CreatePayload struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"isAdmin"`
	Password string `json:"password"`
}

// UpdatePayload is the wire shape for mutating an existing person. It has no
// password fields at all: updates never touch credentials.
type UpdatePayload struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

// TaskPayload is the wire shape for creating a task with an assigned team.
type TaskPayload struct {
	Title    string   `json:"title"`
	Stage    string   `json:"stage"`
	Priority string   `json:"priority"`
	Team     []string `json:"team"`
	Date     string   `json:"date"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the principal inline plus the bearer token.
type loginResponse struct {
	types.Principal
	Token string `json:"token"`
}

// mutationResponse is the envelope create/update endpoints answer with.
type mutationResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	User    types.Principal `json:"user"`
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

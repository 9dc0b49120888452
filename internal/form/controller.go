// Package form drives the dual-mode create/update person form. The
// Controller is a plain state machine with an explicit async boundary: hosts
// call Submit to get a network closure, run it however they like (the TUI
// uses a tea.Cmd), and feed the result back through Resolve. That keeps the
// ordering rules — one in-flight mutation per instance, stale results
// dropped — independent of any rendering framework.
package form

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/api"
	"taskflow/internal/types"
)

// Mode selects which of the two mutually exclusive form behaviors applies.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// State is the controller's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
)

// Facade is the slice of the backend client the form needs.
type Facade interface {
	CreatePerson(ctx context.Context, p api.CreatePayload) (types.Principal, error)
	UpdatePerson(ctx context.Context, id string, p api.UpdatePayload) (types.Principal, error)
}

// SessionSink is the narrow write capability into the session store. The
// controller uses it only for self-targeting updates.
type SessionSink interface {
	Current() (types.Principal, bool)
	UpdatePrincipal(p types.Principal)
}

// Config assembles a Controller.
type Config struct {
	Mode    Mode
	Target  types.Principal // entity being edited; update mode only
	Facade  Facade
	Session SessionSink
	// SuccessDisplay is how long the success notice stays up before the
	// host should call Complete. Zero means the 1.5s default.
	SuccessDisplay time.Duration
	Logger         *zap.Logger
}

// Controller is one live form instance. Not safe for concurrent use: it
// belongs to a single event loop, which is also what serializes submissions.
type Controller struct {
	id       string
	mode     Mode
	targetID string
	draft    types.PersonDraft
	state    State
	fieldErr map[Field]string

	facade         Facade
	session        SessionSink
	successDisplay time.Duration
	logger         *zap.Logger
}

// New creates a controller. Create mode starts from an empty draft with the
// admin flag defaulted to "no"; update mode seeds the draft from the target
// entity with empty password fields.
func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.SuccessDisplay <= 0 {
		cfg.SuccessDisplay = 1500 * time.Millisecond
	}

	c := &Controller{
		id:             uuid.NewString(),
		mode:           cfg.Mode,
		state:          StateIdle,
		fieldErr:       map[Field]string{},
		facade:         cfg.Facade,
		session:        cfg.Session,
		successDisplay: cfg.SuccessDisplay,
		logger:         cfg.Logger,
	}
	if cfg.Mode == ModeUpdate {
		c.targetID = cfg.Target.ID
		c.draft = types.DraftFromPrincipal(cfg.Target)
	} else {
		c.draft = types.PersonDraft{IsAdmin: types.AdminNo}
	}
	return c
}

// ID identifies this instance; outcomes carry it so results for a dismissed
// form are ignorable.
func (c *Controller) ID() string { return c.id }

// Mode returns the form mode.
func (c *Controller) Mode() Mode { return c.mode }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool { return c.state == StateSubmitting }

// Draft returns the working draft.
func (c *Controller) Draft() types.PersonDraft { return c.draft }

// SetDraft replaces the working draft (the host's widgets own field-level
// editing). Ignored while a submission is in flight.
func (c *Controller) SetDraft(d types.PersonDraft) {
	if c.state == StateSubmitting {
		return
	}
	c.draft = d
}

// FieldErrors returns the inline validation errors from the last Submit.
func (c *Controller) FieldErrors() map[Field]string { return c.fieldErr }

// SuccessDisplay is the configured success-notice duration.
func (c *Controller) SuccessDisplay() time.Duration { return c.successDisplay }

// Outcome is the terminal result of one submission attempt.
type Outcome struct {
	ControllerID string
	Principal    types.Principal
	Err          error
}

// EventKind classifies what Resolve decided.
type EventKind int

const (
	// EventNone means the outcome was stale or irrelevant; do nothing.
	EventNone EventKind = iota
	// EventSuccess means the mutation landed; show Notice, then call
	// Complete after Dismiss elapses.
	EventSuccess
	// EventFailure means the mutation failed; show Notice, draft kept.
	EventFailure
)

// Event tells the host how to react to a resolved outcome.
type Event struct {
	Kind    EventKind
	Notice  string
	Dismiss time.Duration
	Err     error
}

// Submit validates the draft and, when it passes, moves to Submitting and
// returns the network closure for the host to run asynchronously. A Submit
// while one is already in flight is a no-op (nil, false): the busy flag is
// what guarantees at most one in-flight mutation per instance. Validation
// failures also return (nil, false), with the field errors recorded; no
// network call is ever issued for an invalid draft.
func (c *Controller) Submit(ctx context.Context) (func() Outcome, bool) {
	if c.state == StateSubmitting {
		return nil, false
	}

	c.state = StateValidating
	c.fieldErr = Validate(c.draft, c.mode)
	if len(c.fieldErr) > 0 {
		c.state = StateIdle
		return nil, false
	}

	id := c.id
	c.state = StateSubmitting

	switch c.mode {
	case ModeUpdate:
		payload, err := UpdatePayloadFrom(c.draft)
		if err != nil {
			// Unreachable after validation; treated as a validation miss.
			c.state = StateIdle
			c.fieldErr[FieldAdmin] = msgAdminRequired
			return nil, false
		}
		targetID := c.targetID
		c.logger.Debug("submitting update", zap.String("target", targetID))
		return func() Outcome {
			p, err := c.facade.UpdatePerson(ctx, targetID, payload)
			return Outcome{ControllerID: id, Principal: p, Err: err}
		}, true

	default:
		payload, err := CreatePayloadFrom(c.draft)
		if err != nil {
			c.state = StateIdle
			c.fieldErr[FieldAdmin] = msgAdminRequired
			return nil, false
		}
		c.logger.Debug("submitting create", zap.String("email", payload.Email))
		return func() Outcome {
			p, err := c.facade.CreatePerson(ctx, payload)
			return Outcome{ControllerID: id, Principal: p, Err: err}
		}, true
	}
}

// Resolve applies a submission outcome. Outcomes from another (dismissed)
// instance, or arriving when nothing is in flight, yield EventNone.
//
// On success for a self-targeting update, the session principal is replaced
// with the server's response before the success display starts, so
// role-gated UI updates promptly.
func (c *Controller) Resolve(o Outcome) Event {
	if o.ControllerID != c.id || c.state != StateSubmitting {
		return Event{Kind: EventNone}
	}

	if o.Err != nil {
		// Back to Idle with the draft intact; the user corrects and
		// resubmits.
		c.state = StateIdle
		c.logger.Warn("submission failed", zap.Error(o.Err))
		return Event{Kind: EventFailure, Notice: api.UserMessage(o.Err), Err: o.Err}
	}

	if c.mode == ModeUpdate && c.session != nil {
		if cur, ok := c.session.Current(); ok && cur.ID == c.targetID {
			c.session.UpdatePrincipal(o.Principal)
		}
	}

	c.state = StateSuccess
	notice := "New User added successfully"
	if c.mode == ModeUpdate {
		notice = "Profile updated successfully"
	}
	return Event{Kind: EventSuccess, Notice: notice, Dismiss: c.successDisplay}
}

// Complete finishes a successful submission after the display delay: the
// draft resets and the controller returns to Idle. Called by the host when
// Event.Dismiss elapses.
func (c *Controller) Complete() {
	if c.state != StateSuccess {
		return
	}
	c.state = StateIdle
	c.fieldErr = map[Field]string{}
	if c.mode == ModeUpdate {
		c.draft.Password = ""
		c.draft.ConfirmPassword = ""
	} else {
		c.draft = types.PersonDraft{IsAdmin: types.AdminNo}
	}
}

// CreatePayloadFrom builds the create-mode wire payload: the password goes
// out, the confirmation never does, and the admin flag becomes a boolean.
func CreatePayloadFrom(d types.PersonDraft) (api.CreatePayload, error) {
	isAdmin, err := d.IsAdmin.Bool()
	if err != nil {
		return api.CreatePayload{}, err
	}
	return api.CreatePayload{
		Name:     d.Name,
		Title:    d.Title,
		Email:    d.Email,
		Role:     d.Role,
		IsAdmin:  isAdmin,
		Password: d.Password,
	}, nil
}

// UpdatePayloadFrom builds the update-mode wire payload. It has no password
// fields by construction.
func UpdatePayloadFrom(d types.PersonDraft) (api.UpdatePayload, error) {
	isAdmin, err := d.IsAdmin.Bool()
	if err != nil {
		return api.UpdatePayload{}, err
	}
	return api.UpdatePayload{
		Name:    d.Name,
		Title:   d.Title,
		Email:   d.Email,
		Role:    d.Role,
		IsAdmin: isAdmin,
	}, nil
}

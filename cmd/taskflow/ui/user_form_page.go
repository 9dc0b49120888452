package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/form"
	"taskflow/internal/types"
)

// SubmitRequestedMsg is emitted when the user asks the focused form to
// submit. The app layer owns the actual submission.
type SubmitRequestedMsg struct{}

// CancelRequestedMsg is emitted when the user dismisses the form.
type CancelRequestedMsg struct{}

// userFormField indexes the focusable rows of the person form.
type userFormField int

const (
	ufName userFormField = iota
	ufTitle
	ufEmail
	ufRole
	ufAdmin
	ufPassword
	ufConfirm
)

// UserFormPageModel hosts one form.Controller instance: text inputs for the
// entity fields, a yes/no toggle for admin status, and password inputs that
// exist only in create mode. All field edits flow into the controller's
// draft; submission and resolution stay with the app layer.
type UserFormPageModel struct {
	ctrl *form.Controller

	name     textinput.Model
	title    textinput.Model
	email    textinput.Model
	role     textinput.Model
	password textinput.Model
	confirm  textinput.Model
	admin    types.AdminFlag

	focus   userFormField
	spinner spinner.Model
	styles  Styles
	width   int
}

// NewUserFormPageModel builds the page around an existing controller and
// seeds its widgets from the controller's draft.
func NewUserFormPageModel(ctrl *form.Controller, styles Styles) UserFormPageModel {
	mk := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 34
		return in
	}

	m := UserFormPageModel{
		ctrl:     ctrl,
		name:     mk("Full name", 64),
		title:    mk("Title", 64),
		email:    mk("Email Address", 64),
		role:     mk("Role", 64),
		password: mk("Password", 64),
		confirm:  mk("Confirm Password", 64),
		styles:   styles,
	}
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'
	m.confirm.EchoMode = textinput.EchoPassword
	m.confirm.EchoCharacter = '•'

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = styles.Bold

	d := ctrl.Draft()
	m.name.SetValue(d.Name)
	m.title.SetValue(d.Title)
	m.email.SetValue(d.Email)
	m.role.SetValue(d.Role)
	m.admin = d.IsAdmin

	m.name.Focus()
	return m
}

// Controller returns the hosted controller.
func (m UserFormPageModel) Controller() *form.Controller { return m.ctrl }

// SetSize updates layout bounds.
func (m *UserFormPageModel) SetSize(w, h int) { m.width = w }

// Tick starts the busy spinner.
func (m UserFormPageModel) Tick() tea.Cmd { return m.spinner.Tick }

func (m UserFormPageModel) lastField() userFormField {
	if m.ctrl.Mode() == form.ModeCreate {
		return ufConfirm
	}
	return ufAdmin
}

func (m *UserFormPageModel) setFocus(f userFormField) {
	m.focus = f
	inputs := []*textinput.Model{&m.name, &m.title, &m.email, &m.role, &m.password, &m.confirm}
	fields := []userFormField{ufName, ufTitle, ufEmail, ufRole, ufPassword, ufConfirm}
	for i, in := range inputs {
		if fields[i] == f {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// syncDraft pushes the widget values into the controller.
func (m *UserFormPageModel) syncDraft() {
	m.ctrl.SetDraft(types.PersonDraft{
		Name:            strings.TrimSpace(m.name.Value()),
		Title:           strings.TrimSpace(m.title.Value()),
		Email:           strings.TrimSpace(m.email.Value()),
		Role:            strings.TrimSpace(m.role.Value()),
		IsAdmin:         m.admin,
		Password:        m.password.Value(),
		ConfirmPassword: m.confirm.Value(),
	})
}

// Update handles editing and navigation. While a submission is in flight
// only the spinner animates; every other key is swallowed.
func (m UserFormPageModel) Update(msg tea.Msg) (UserFormPageModel, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !m.ctrl.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.ctrl.Busy() {
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return CancelRequestedMsg{} }

	case "tab", "down":
		next := m.focus + 1
		if next > m.lastField() {
			next = ufName
		}
		m.setFocus(next)
		return m, nil

	case "shift+tab", "up":
		prev := m.focus - 1
		if prev < ufName {
			prev = m.lastField()
		}
		m.setFocus(prev)
		return m, nil

	case "enter":
		m.syncDraft()
		return m, func() tea.Msg { return SubmitRequestedMsg{} }
	}

	if m.focus == ufAdmin {
		switch key.String() {
		case " ", "left", "right", "y", "n":
			switch key.String() {
			case "y":
				m.admin = types.AdminYes
			case "n":
				m.admin = types.AdminNo
			default:
				if m.admin == types.AdminYes {
					m.admin = types.AdminNo
				} else {
					m.admin = types.AdminYes
				}
			}
			m.syncDraft()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case ufName:
		m.name, cmd = m.name.Update(key)
	case ufTitle:
		m.title, cmd = m.title.Update(key)
	case ufEmail:
		m.email, cmd = m.email.Update(key)
	case ufRole:
		m.role, cmd = m.role.Update(key)
	case ufPassword:
		m.password, cmd = m.password.Update(key)
	case ufConfirm:
		m.confirm, cmd = m.confirm.Update(key)
	}
	m.syncDraft()
	return m, cmd
}

func (m UserFormPageModel) renderField(label string, in textinput.Model, field form.Field) string {
	var sb strings.Builder
	sb.WriteString(m.styles.Label.Render(label))
	sb.WriteString("\n")
	sb.WriteString(in.View())
	sb.WriteString("\n")
	if msg, ok := m.ctrl.FieldErrors()[field]; ok {
		sb.WriteString(m.styles.FieldError.Render(msg))
		sb.WriteString("\n")
	}
	return sb.String()
}

// View renders the form.
func (m UserFormPageModel) View() string {
	var sb strings.Builder

	heading := "ADD NEW USER"
	if m.ctrl.Mode() == form.ModeUpdate {
		heading = "EDIT USER PROFILE"
	}
	sb.WriteString(m.styles.Title.Render(heading))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderField("Full Name", m.name, form.FieldName))
	sb.WriteString(m.renderField("Title", m.title, form.FieldTitle))
	sb.WriteString(m.renderField("Email Address", m.email, form.FieldEmail))
	sb.WriteString(m.renderField("Role", m.role, form.FieldRole))

	sb.WriteString(m.styles.Label.Render("Administrator"))
	sb.WriteString("\n")
	yes, no := "( ) yes", "( ) no"
	if m.admin == types.AdminYes {
		yes = "(•) yes"
	}
	if m.admin == types.AdminNo {
		no = "(•) no"
	}
	row := yes + "   " + no
	if m.focus == ufAdmin {
		row = m.styles.Cursor.Render("> ") + row
	} else {
		row = "  " + row
	}
	sb.WriteString(row)
	sb.WriteString("\n")
	if msg, ok := m.ctrl.FieldErrors()[form.FieldAdmin]; ok {
		sb.WriteString(m.styles.FieldError.Render(msg))
		sb.WriteString("\n")
	}

	if m.ctrl.Mode() == form.ModeCreate {
		sb.WriteString(m.renderField("Password", m.password, form.FieldPassword))
		sb.WriteString(m.renderField("Confirm Password", m.confirm, form.FieldConfirm))
	}

	sb.WriteString("\n")
	if m.ctrl.Busy() {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Saving...")
	} else {
		sb.WriteString(m.styles.Muted.Render("enter submit • tab next field • esc cancel"))
	}
	return sb.String()
}

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginPageModel renders the sign-in form. It validates the two required
// fields locally; the app layer performs the actual authentication and
// reports back via SetBusy/SetNotice.
type LoginPageModel struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	spinner  spinner.Model
	busy     bool
	errs     map[string]string
	styles   Styles
	width    int
}

// NewLoginPageModel creates the login page with the email field focused.
func NewLoginPageModel(styles Styles) LoginPageModel {
	email := textinput.New()
	email.Placeholder = "Enter your email"
	email.CharLimit = 128
	email.Width = 42
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Enter your password"
	password.CharLimit = 128
	password.Width = 42
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return LoginPageModel{
		email:    email,
		password: password,
		spinner:  sp,
		errs:     map[string]string{},
		styles:   styles,
	}
}

// SetSize updates layout bounds.
func (m *LoginPageModel) SetSize(w, h int) { m.width = w }

// SetBusy toggles the in-flight spinner and input focus.
func (m *LoginPageModel) SetBusy(busy bool) {
	m.busy = busy
	if busy {
		m.email.Blur()
		m.password.Blur()
	} else if m.focus == 0 {
		m.email.Focus()
	} else {
		m.password.Focus()
	}
}

// Busy reports whether a login is in flight.
func (m LoginPageModel) Busy() bool { return m.busy }

// Values returns the entered credentials.
func (m LoginPageModel) Values() (email, password string) {
	return strings.TrimSpace(m.email.Value()), m.password.Value()
}

// Validate checks the required fields, recording inline errors. Returns true
// when the form may be submitted.
func (m *LoginPageModel) Validate() bool {
	m.errs = map[string]string{}
	email, password := m.Values()
	if email == "" {
		m.errs["email"] = "Email Address is required!"
	}
	if password == "" {
		m.errs["password"] = "Password is required!"
	}
	return len(m.errs) == 0
}

// Reset clears the password and errors after a failed attempt so the user
// can retry.
func (m *LoginPageModel) Reset() {
	m.password.SetValue("")
	m.errs = map[string]string{}
}

// Update handles input. Tab/enter move between fields; the app layer
// intercepts enter on the password field to submit.
func (m LoginPageModel) Update(msg tea.Msg) (LoginPageModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				cmds = append(cmds, m.email.Focus())
				m.password.Blur()
			} else {
				cmds = append(cmds, m.password.Focus())
				m.email.Blur()
			}
			return m, tea.Batch(cmds...)
		}
	}

	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// Tick starts the spinner animation.
func (m LoginPageModel) Tick() tea.Cmd { return m.spinner.Tick }

// View renders the page.
func (m LoginPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("TaskFlow"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Sign in to continue to your workspace"))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Label.Render("Email Address"))
	sb.WriteString("\n")
	sb.WriteString(m.email.View())
	sb.WriteString("\n")
	if e := m.errs["email"]; e != "" {
		sb.WriteString(m.styles.FieldError.Render(e))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Label.Render("Password"))
	sb.WriteString("\n")
	sb.WriteString(m.password.View())
	sb.WriteString("\n")
	if e := m.errs["password"]; e != "" {
		sb.WriteString(m.styles.FieldError.Render(e))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.busy {
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.styles.Muted.Render(" signing in..."))
	} else {
		sb.WriteString(m.styles.Muted.Render("enter to sign in • tab to switch fields • ctrl+c to quit"))
	}
	return sb.String()
}

package form

import "taskflow/internal/types"

// Field names a form field for inline error display.
type Field string

const (
	FieldName     Field = "name"
	FieldTitle    Field = "title"
	FieldEmail    Field = "email"
	FieldRole     Field = "role"
	FieldAdmin    Field = "isAdmin"
	FieldPassword Field = "password"
	FieldConfirm  Field = "confirmPassword"
)

// User-facing validation copy.
const (
	msgNameRequired    = "Full name is required!"
	msgTitleRequired   = "Title is required!"
	msgEmailRequired   = "Email Address is required!"
	msgRoleRequired    = "User role is required!"
	msgAdminRequired   = "Please select admin status!"
	msgPasswordRequired = "Password is required!"
	msgPasswordTooShort = "Password must be at least 6 characters!"
	msgConfirmRequired  = "Please confirm your password!"
	msgConfirmMismatch  = "Passwords do not match!"
)

// minPasswordLength matches the backend's registration rule.
const minPasswordLength = 6

// Validate checks the draft field-locally for the given mode. It returns a
// map of field → message; an empty map means the draft may be submitted.
// Password rules apply in create mode only — update mode excludes the
// password fields from both validation and payload.
func Validate(d types.PersonDraft, mode Mode) map[Field]string {
	errs := map[Field]string{}

	if d.Name == "" {
		errs[FieldName] = msgNameRequired
	}
	if d.Title == "" {
		errs[FieldTitle] = msgTitleRequired
	}
	if d.Email == "" {
		errs[FieldEmail] = msgEmailRequired
	}
	if d.Role == "" {
		errs[FieldRole] = msgRoleRequired
	}
	if _, err := d.IsAdmin.Bool(); err != nil {
		// Absence or any third value is an error, never a default.
		errs[FieldAdmin] = msgAdminRequired
	}

	if mode == ModeCreate {
		switch {
		case d.Password == "":
			errs[FieldPassword] = msgPasswordRequired
		case len(d.Password) < minPasswordLength:
			errs[FieldPassword] = msgPasswordTooShort
		}
		switch {
		case d.ConfirmPassword == "":
			errs[FieldConfirm] = msgConfirmRequired
		case d.ConfirmPassword != d.Password:
			errs[FieldConfirm] = msgConfirmMismatch
		}
	}

	return errs
}

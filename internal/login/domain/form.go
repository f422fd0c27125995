package login

import (
	"strings"

	"bluemoon-portal/internal/auth"
)

// Option is one selectable role on the login screen.
type Option struct {
	Role     auth.Role
	Label    string
	Selected bool
}

// Form is the local state of the login screen.
type Form struct {
	Role     auth.Role
	Username string
	Password string
}

// NewForm returns a form with the default role selected.
func NewForm() Form {
	return Form{Role: auth.DefaultRole}
}

// SelectRole replaces the active selection. Selecting the same role again is a no-op.
func (f *Form) SelectRole(role auth.Role) {
	f.Role = role
}

// SelectRoleSlug selects the role named by slug and reports whether it was known.
// Unknown slugs leave the selection untouched.
func (f *Form) SelectRoleSlug(slug string) bool {
	role, ok := auth.NormalizeRole(strings.TrimSpace(slug))
	if !ok {
		return false
	}
	f.SelectRole(role)
	return true
}

// Bind stores the credential inputs.
func (f *Form) Bind(username, password string) {
	f.Username = strings.TrimSpace(username)
	f.Password = password
}

// Options lists every role in display order with exactly the active one selected.
func (f Form) Options() []Option {
	roles := auth.AllRoles()
	options := make([]Option, 0, len(roles))
	for _, role := range roles {
		options = append(options, Option{Role: role, Label: role.Label(), Selected: role == f.Role})
	}
	return options
}

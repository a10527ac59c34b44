// Package account defines the operator account domain model.
package account

import "errors"

// Role represents the authorization level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ValidRoles is the set of all valid account roles.
var ValidRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// RootUsername is the distinguished administrator account that can never be removed.
const RootUsername = "root"

// Account represents a registered operator. The password is stored as an
// opaque credential; hashing is not applied at this layer.
type Account struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
}

// CreateRequest is the input for registering a new account.
type CreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if !ValidRoles[r.Role] {
		return errors.New("invalid role: must be admin or user")
	}
	return nil
}

// UpdateRequest is the set of field assignments applied by an account update.
// Field names mirror the Account attributes; unknown names are ignored because
// callers are trusted upstream.
type UpdateRequest map[string]string

// Apply copies the known fields of the request onto the account.
func (r UpdateRequest) Apply(a *Account) {
	for field, value := range r {
		switch field {
		case "password":
			a.Password = value
		case "role":
			a.Role = Role(value)
		case "name":
			a.Name = value
		case "surname":
			a.Surname = value
		case "email":
			a.Email = value
		}
	}
}

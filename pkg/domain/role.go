package domain

import dErrors "kyckaro/pkg/domain-errors"

// Role is the coarse authorization level of an actor. There are exactly two:
// administrators review submissions, end users own them.
//
// An identity with no role assignment defaults to RoleEndUser; the elevated
// role is never assumed.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleEndUser Role = "end_user"
)

// validRoles is the single source of truth for valid roles.
var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleEndUser: true,
}

// ParseRole constructs a Role from external input (role store rows, config).
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !validRoles[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}

// Actor is an authenticated identity plus its resolved role. It is threaded
// explicitly into every store and service operation; nothing reads an ambient
// current user.
type Actor struct {
	ID   UserID
	Role Role
}

// IsAdmin reports whether the actor holds the elevated role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Role is the organisational role of a requester
type Role string

const (
	RoleStaff            Role = "STAFF"
	RoleManager          Role = "MANAGER"
	RoleDirector         Role = "DIRECTOR"
	RoleManagingDirector Role = "MANAGING_DIRECTOR"
)

// AllRoles returns all valid roles
func AllRoles() []Role {
	return []Role{
		RoleStaff,
		RoleManager,
		RoleDirector,
		RoleManagingDirector,
	}
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleStaff,
		RoleManager,
		RoleDirector,
		RoleManagingDirector:
		return true
	default:
		return false
	}
}

// SeesAllTasks reports whether the role reads the whole task set without filtering
func (r Role) SeesAllTasks() bool {
	return r == RoleManagingDirector
}

// IsPrivileged reports whether the role may shrink assignee lists
func (r Role) IsPrivileged() bool {
	switch r {
	case RoleManager, RoleDirector, RoleManagingDirector:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role name case-insensitively. "managing_director",
// "Managing_Director" and " MANAGING_DIRECTOR " all yield RoleManagingDirector.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.IsValid() {
		return "", goerr.New("invalid role", goerr.V("role", s))
	}
	return role, nil
}

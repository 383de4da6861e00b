package types

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TaskID is an opaque identifier of a task or subtask
type TaskID string

// NewTaskID generates a time-ordered task identifier
func NewTaskID() TaskID {
	return TaskID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of TaskID
func (t TaskID) String() string {
	return string(t)
}

// UserID identifies a user. It is issued by the identity provider and is opaque here.
type UserID string

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}

// ProjectID groups tasks into a project
type ProjectID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Validate checks if the ProjectID is valid. Empty means "no project" and is allowed.
func (p ProjectID) Validate() error {
	if p == "" {
		return nil
	}
	if !idPattern.MatchString(string(p)) {
		return goerr.New("project ID must be lowercase alphanumeric with hyphens", goerr.V("id", p))
	}
	return nil
}

// String returns the string representation of ProjectID
func (p ProjectID) String() string {
	return string(p)
}

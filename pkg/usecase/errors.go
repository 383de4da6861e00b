package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrValidation     = errors.New("validation failed")
	ErrEmptyAssignees = errors.New("task/subtask must have at least one assignee")

	// Not found errors
	ErrTaskNotFound   = errors.New("task not found")
	ErrParentNotFound = errors.New("parent task not found")

	// Relationship errors
	ErrInvalidParent = errors.New("parent must be an unarchived main task")

	// Authentication errors
	ErrNoIdentity   = errors.New("requester identity is required")
	ErrInvalidToken = errors.New("invalid token")
)

// Context keys for error values
const (
	TaskIDKey   = "task_id"
	ParentIDKey = "parent_id"
	UserIDKey   = "user_id"
	FieldKey    = "field"
)

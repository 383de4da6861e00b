package model

import (
	"time"

	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// TaskPatch is a sparse update request. Only non-nil fields are considered.
// AssigneeIDs is a pointer so that an explicitly empty list can be told apart from
// an absent one.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *types.TaskStatus
	Priority    *types.Priority
	ProjectID   *types.ProjectID
	IsArchived  *bool
	AssigneeIDs *[]types.UserID
}

// TaskInput holds the fields accepted when creating a task or subtask
type TaskInput struct {
	Title       string
	Description string
	AssigneeIDs []types.UserID
	Status      types.TaskStatus
	Priority    types.Priority
	ProjectID   types.ProjectID
	DueDate     *time.Time
}

package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// Task is a unit of work. A task with an empty ParentID is a main task; otherwise it is
// a subtask of the task referenced by ParentID.
type Task struct {
	ID          types.TaskID
	ParentID    types.TaskID // empty for main tasks, fixed at creation for subtasks
	OwnerUserID types.UserID // creator, immutable
	AssigneeIDs []types.UserID
	Status      types.TaskStatus
	IsArchived  bool
	Title       string
	Description string
	DueDate     *time.Time
	Priority    types.Priority
	ProjectID   types.ProjectID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsMainTask reports whether the task has no parent
func (t *Task) IsMainTask() bool {
	return t.ParentID == ""
}

// IsSubtaskOf reports whether t is a direct subtask of the task with the given ID
func (t *Task) IsSubtaskOf(parentID types.TaskID) bool {
	return t.ParentID != "" && t.ParentID == parentID
}

// HasAssignee reports whether userID is one of the task's assignees
func (t *Task) HasAssignee(userID types.UserID) bool {
	return slices.Contains(t.AssigneeIDs, userID)
}

// Clone returns a deep copy of the task
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.AssigneeIDs = slices.Clone(t.AssigneeIDs)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

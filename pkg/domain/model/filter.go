package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// TaskFilter selects tasks. Zero-valued fields do not constrain the selection.
type TaskFilter struct {
	ID          types.TaskID
	ParentID    *types.TaskID // pointer to "" selects main tasks only
	OwnerUserID types.UserID
	IsArchived  *bool
}

// MainTaskFilter selects the main task with the given ID
func MainTaskFilter(id types.TaskID) TaskFilter {
	root := types.TaskID("")
	return TaskFilter{ID: id, ParentID: &root}
}

// SubtaskFilter selects subtasks of parentID, narrowed to id when it is not empty
func SubtaskFilter(parentID, id types.TaskID) TaskFilter {
	return TaskFilter{ID: id, ParentID: &parentID}
}

// Matches reports whether the task satisfies every set field of the filter
func (f TaskFilter) Matches(t *Task) bool {
	if f.ID != "" && t.ID != f.ID {
		return false
	}
	if f.ParentID != nil && t.ParentID != *f.ParentID {
		return false
	}
	if f.OwnerUserID != "" && t.OwnerUserID != f.OwnerUserID {
		return false
	}
	if f.IsArchived != nil && t.IsArchived != *f.IsArchived {
		return false
	}
	return true
}

// TaskChanges is the change-set submitted to the store. Nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *types.TaskStatus
	Priority    *types.Priority
	ProjectID   *types.ProjectID
	IsArchived  *bool
	AssigneeIDs []types.UserID
	ParentID    *types.TaskID
}

// IsEmpty reports whether no field is set
func (c *TaskChanges) IsEmpty() bool {
	return c.Title == nil &&
		c.Description == nil &&
		c.DueDate == nil &&
		c.Status == nil &&
		c.Priority == nil &&
		c.ProjectID == nil &&
		c.IsArchived == nil &&
		c.AssigneeIDs == nil &&
		c.ParentID == nil
}

// Apply writes every set field onto t
func (c *TaskChanges) Apply(t *Task) {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.DueDate != nil {
		d := *c.DueDate
		t.DueDate = &d
	}
	if c.Status != nil {
		t.Status = *c.Status
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.ProjectID != nil {
		t.ProjectID = *c.ProjectID
	}
	if c.IsArchived != nil {
		t.IsArchived = *c.IsArchived
	}
	if c.AssigneeIDs != nil {
		t.AssigneeIDs = slices.Clone(c.AssigneeIDs)
	}
	if c.ParentID != nil {
		t.ParentID = *c.ParentID
	}
}

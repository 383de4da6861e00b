package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// AccessResolver decides which tasks a requester may read. It keeps no state between
// calls; every call works on the task snapshot it is given.
type AccessResolver struct {
	directory interfaces.DepartmentDirectory
}

func NewAccessResolver(directory interfaces.DepartmentDirectory) *AccessResolver {
	return &AccessResolver{directory: directory}
}

// ResolveVisibleTasks returns the subset of allTasks the identity may see. Archived
// tasks are not filtered here. For a managing director the input slice itself is
// returned.
func (r *AccessResolver) ResolveVisibleTasks(ctx context.Context, identity *model.Identity, allTasks []*model.Task) ([]*model.Task, error) {
	if identity == nil {
		return nil, goerr.Wrap(ErrNoIdentity, "cannot resolve visible tasks")
	}

	ctx, span := tracer.Start(ctx, "AccessResolver.ResolveVisibleTasks")
	defer span.End()
	span.SetAttributes(
		attribute.String("role", identity.Role.String()),
		attribute.Int("tasks.total", len(allTasks)),
	)

	switch {
	case identity.Role.SeesAllTasks():
		return allTasks, nil

	case identity.Role == types.RoleDirector:
		visible, err := r.resolveByDepartment(ctx, identity, allTasks)
		recordSpanError(span, err)
		return visible, err

	default:
		return resolveByAssignment(identity.UserID, allTasks), nil
	}
}

// resolveByDepartment returns tasks owned by any member of the director's departments
func (r *AccessResolver) resolveByDepartment(ctx context.Context, identity *model.Identity, allTasks []*model.Task) ([]*model.Task, error) {
	if len(identity.Departments) == 0 {
		return []*model.Task{}, nil
	}

	members := make([][]*model.User, len(identity.Departments))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, dept := range identity.Departments {
		eg.Go(func() error {
			users, err := r.directory.UsersInDepartment(egCtx, dept)
			if err != nil {
				return goerr.Wrap(err, "failed to look up department members",
					goerr.V("department", dept),
					goerr.V(UserIDKey, identity.UserID))
			}
			members[i] = users
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	owners := make(map[types.UserID]struct{})
	for _, users := range members {
		for _, u := range users {
			owners[u.ID] = struct{}{}
		}
	}
	if len(owners) == 0 {
		return []*model.Task{}, nil
	}

	visible := make([]*model.Task, 0)
	for _, t := range allTasks {
		if _, ok := owners[t.OwnerUserID]; ok {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

// resolveByAssignment returns tasks assigned to userID plus the main tasks of subtasks
// assigned to userID. Ownership is not considered.
func resolveByAssignment(userID types.UserID, allTasks []*model.Task) []*model.Task {
	parentsOfAssigned := make(map[types.TaskID]struct{})
	for _, t := range allTasks {
		if !t.IsMainTask() && t.HasAssignee(userID) {
			parentsOfAssigned[t.ParentID] = struct{}{}
		}
	}

	visible := make([]*model.Task, 0)
	for _, t := range allTasks {
		if t.HasAssignee(userID) {
			visible = append(visible, t)
			continue
		}
		if _, ok := parentsOfAssigned[t.ID]; ok && t.IsMainTask() {
			visible = append(visible, t)
		}
	}
	return visible
}

// GetTaskByID returns the visible task with the given ID, or nil. A task the identity
// cannot see is reported exactly like a missing one.
func (r *AccessResolver) GetTaskByID(ctx context.Context, id types.TaskID, identity *model.Identity, allTasks []*model.Task) (*model.Task, error) {
	visible, err := r.ResolveVisibleTasks(ctx, identity, allTasks)
	if err != nil {
		return nil, err
	}
	for _, t := range visible {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

// ResolveVisibleArchivedSubtasks returns every archived subtask in the visible set,
// each paired with its main task taken from the same visible set.
func (r *AccessResolver) ResolveVisibleArchivedSubtasks(ctx context.Context, identity *model.Identity, allTasks []*model.Task) ([]*model.ArchivedSubtask, error) {
	visible, err := r.ResolveVisibleTasks(ctx, identity, allTasks)
	if err != nil {
		return nil, err
	}

	byID := make(map[types.TaskID]*model.Task, len(visible))
	for _, t := range visible {
		byID[t.ID] = t
	}

	// memo lives only for this call; visibility is recomputed on every call
	parents := make(map[types.TaskID]*model.Task)
	lookupParent := func(parentID types.TaskID) *model.Task {
		if p, ok := parents[parentID]; ok {
			return p
		}
		p := byID[parentID]
		if p != nil && !p.IsMainTask() {
			p = nil
		}
		parents[parentID] = p
		return p
	}

	results := make([]*model.ArchivedSubtask, 0)
	for _, t := range visible {
		if !t.IsArchived || t.IsMainTask() {
			continue
		}
		results = append(results, &model.ArchivedSubtask{
			Subtask:  t,
			MainTask: lookupParent(t.ParentID),
		})
	}
	return results, nil
}

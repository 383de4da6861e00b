package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"go.opentelemetry.io/otel/attribute"
)

type TaskUseCase struct {
	repo     interfaces.Repository
	resolver *AccessResolver
}

func NewTaskUseCase(repo interfaces.Repository, resolver *AccessResolver) *TaskUseCase {
	return &TaskUseCase{
		repo:     repo,
		resolver: resolver,
	}
}

// ListOptions narrows ListTasks. The zero value lists every visible unarchived task.
type ListOptions struct {
	IncludeArchived bool
	ProjectID       types.ProjectID
	ParentID        *types.TaskID // pointer to "" lists main tasks only
}

func (uc *TaskUseCase) loadAll(ctx context.Context) ([]*model.Task, error) {
	tasks, err := uc.repo.Task().SelectAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load tasks")
	}
	return tasks, nil
}

func (uc *TaskUseCase) CreateTask(ctx context.Context, identity *model.Identity, input model.TaskInput) (*model.Task, error) {
	if identity == nil {
		return nil, goerr.Wrap(ErrNoIdentity, "cannot create task")
	}

	task, err := newTaskFromInput(identity, input)
	if err != nil {
		return nil, err
	}

	created, err := uc.repo.Task().Create(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V(UserIDKey, identity.UserID))
	}

	logging.From(ctx).Info("task created", "task_id", created.ID, "owner", created.OwnerUserID)
	return created, nil
}

// CreateSubtask adds a subtask under a visible, unarchived main task
func (uc *TaskUseCase) CreateSubtask(ctx context.Context, identity *model.Identity, parentID types.TaskID, input model.TaskInput) (*model.Task, error) {
	if identity == nil {
		return nil, goerr.Wrap(ErrNoIdentity, "cannot create subtask")
	}

	allTasks, err := uc.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	parent, err := uc.resolver.GetTaskByID(ctx, parentID, identity, allTasks)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, goerr.Wrap(ErrParentNotFound, "parent task is not visible", goerr.V(ParentIDKey, parentID))
	}
	if !parent.IsMainTask() || parent.IsArchived {
		return nil, goerr.Wrap(ErrInvalidParent, "cannot attach subtask",
			goerr.V(ParentIDKey, parentID),
			goerr.V("parent_is_archived", parent.IsArchived))
	}

	if input.ProjectID == "" {
		input.ProjectID = parent.ProjectID
	}
	task, err := newTaskFromInput(identity, input)
	if err != nil {
		return nil, err
	}
	task.ParentID = parent.ID

	created, err := uc.repo.Task().Create(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create subtask", goerr.V(ParentIDKey, parentID))
	}

	logging.From(ctx).Info("subtask created", "task_id", created.ID, "parent_id", parentID)
	return created, nil
}

func newTaskFromInput(identity *model.Identity, input model.TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, goerr.Wrap(ErrValidation, "title is required", goerr.V(FieldKey, "title"))
	}

	assignees := model.NormalizeAssignees(input.AssigneeIDs)
	if len(assignees) == 0 {
		return nil, goerr.Wrap(ErrEmptyAssignees, "cannot create task without assignee")
	}

	status := input.Status
	if status == "" {
		status = types.TaskStatusTodo
	}
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid status", goerr.V("status", status))
	}

	priority := input.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid priority", goerr.V("priority", priority))
	}

	if err := input.ProjectID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error(), goerr.V("project_id", input.ProjectID))
	}

	return &model.Task{
		OwnerUserID: identity.UserID,
		AssigneeIDs: assignees,
		Status:      status,
		Priority:    priority,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
	}, nil
}

// GetTask returns ErrTaskNotFound both for missing tasks and for tasks the identity
// cannot see.
func (uc *TaskUseCase) GetTask(ctx context.Context, identity *model.Identity, id types.TaskID) (*model.Task, error) {
	allTasks, err := uc.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	task, err := uc.resolver.GetTaskByID(ctx, id, identity, allTasks)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
	}
	return task, nil
}

func (uc *TaskUseCase) ListTasks(ctx context.Context, identity *model.Identity, opts ListOptions) ([]*model.Task, error) {
	allTasks, err := uc.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	visible, err := uc.resolver.ResolveVisibleTasks(ctx, identity, allTasks)
	if err != nil {
		return nil, err
	}

	tasks := make([]*model.Task, 0, len(visible))
	for _, t := range visible {
		if t.IsArchived && !opts.IncludeArchived {
			continue
		}
		if opts.ProjectID != "" && t.ProjectID != opts.ProjectID {
			continue
		}
		if opts.ParentID != nil && t.ParentID != *opts.ParentID {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ListSubtasks returns the visible, unarchived subtasks of a visible main task
func (uc *TaskUseCase) ListSubtasks(ctx context.Context, identity *model.Identity, parentID types.TaskID) ([]*model.Task, error) {
	allTasks, err := uc.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	visible, err := uc.resolver.ResolveVisibleTasks(ctx, identity, allTasks)
	if err != nil {
		return nil, err
	}

	var parent *model.Task
	for _, t := range visible {
		if t.ID == parentID && t.IsMainTask() {
			parent = t
			break
		}
	}
	if parent == nil {
		return nil, goerr.Wrap(ErrTaskNotFound, "parent task not found", goerr.V(ParentIDKey, parentID))
	}

	subtasks := make([]*model.Task, 0)
	for _, t := range visible {
		if t.IsSubtaskOf(parentID) && !t.IsArchived {
			subtasks = append(subtasks, t)
		}
	}
	return subtasks, nil
}

func (uc *TaskUseCase) ListArchivedSubtasks(ctx context.Context, identity *model.Identity) ([]*model.ArchivedSubtask, error) {
	allTasks, err := uc.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.resolver.ResolveVisibleArchivedSubtasks(ctx, identity, allTasks)
}

// UpdateTask applies a sparse patch to a main task
func (uc *TaskUseCase) UpdateTask(ctx context.Context, identity *model.Identity, taskID types.TaskID, patch model.TaskPatch) (*model.UpdateResult, error) {
	ctx, span := tracer.Start(ctx, "TaskUseCase.UpdateTask")
	defer span.End()
	span.SetAttributes(attribute.String("task.id", taskID.String()))

	result, err := uc.update(ctx, identity, taskID, nil, patch)
	recordSpanError(span, err)
	return result, err
}

// UpdateSubtask applies a sparse patch to a subtask of parentID. A subtask that belongs
// to another parent is reported as not found.
func (uc *TaskUseCase) UpdateSubtask(ctx context.Context, identity *model.Identity, parentID, subtaskID types.TaskID, patch model.TaskPatch) (*model.UpdateResult, error) {
	ctx, span := tracer.Start(ctx, "TaskUseCase.UpdateSubtask")
	defer span.End()
	span.SetAttributes(
		attribute.String("task.id", subtaskID.String()),
		attribute.String("task.parent_id", parentID.String()),
	)

	result, err := uc.update(ctx, identity, subtaskID, &parentID, patch)
	recordSpanError(span, err)
	return result, err
}

// update is shared by main tasks (parentID == nil) and subtasks
func (uc *TaskUseCase) update(ctx context.Context, identity *model.Identity, taskID types.TaskID, parentID *types.TaskID, patch model.TaskPatch) (*model.UpdateResult, error) {
	notFound := &model.UpdateResult{Outcome: model.UpdateOutcomeNotFound}
	if identity == nil {
		return nil, goerr.Wrap(ErrNoIdentity, "cannot update task", goerr.V(TaskIDKey, taskID))
	}
	if taskID == "" || (parentID != nil && *parentID == "") {
		return notFound, nil
	}

	allTasks, err := uc.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	target, err := uc.resolver.GetTaskByID(ctx, taskID, identity, allTasks)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return notFound, nil
	}
	if parentID == nil && !target.IsMainTask() {
		return notFound, nil
	}
	if parentID != nil && !target.IsSubtaskOf(*parentID) {
		return notFound, nil
	}

	changes, err := buildChanges(ctx, identity, target, patch, allTasks)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return &model.UpdateResult{Outcome: model.UpdateOutcomeNoOp}, nil
	}

	var filter model.TaskFilter
	if parentID == nil {
		// main tasks can never be reparented
		root := types.TaskID("")
		changes.ParentID = &root
		filter = model.MainTaskFilter(taskID)
	} else {
		filter = model.SubtaskFilter(*parentID, taskID)
	}

	updated, err := uc.repo.Task().UpdateByFilter(ctx, *changes, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V(TaskIDKey, taskID))
	}
	if len(updated) == 0 {
		return notFound, nil
	}

	return &model.UpdateResult{Outcome: model.UpdateOutcomeUpdated, Task: updated[0]}, nil
}

// buildChanges turns a patch into the change-set to write. Unauthorized assignee
// removal and premature archiving of a main task are dropped without error.
func buildChanges(ctx context.Context, identity *model.Identity, target *model.Task, patch model.TaskPatch, allTasks []*model.Task) (*model.TaskChanges, error) {
	logger := logging.From(ctx)
	changes := &model.TaskChanges{}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, goerr.Wrap(ErrValidation, "title must not be empty",
				goerr.V(FieldKey, "title"), goerr.V(TaskIDKey, target.ID))
		}
		changes.Title = patch.Title
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, goerr.Wrap(ErrValidation, "description must not be empty",
				goerr.V(FieldKey, "description"), goerr.V(TaskIDKey, target.ID))
		}
		changes.Description = patch.Description
	}
	if patch.DueDate != nil {
		changes.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, goerr.Wrap(ErrValidation, "invalid status",
				goerr.V(FieldKey, "status"), goerr.V("status", *patch.Status))
		}
		changes.Status = patch.Status
	}
	if patch.Priority != nil {
		if !patch.Priority.IsValid() {
			return nil, goerr.Wrap(ErrValidation, "invalid priority",
				goerr.V(FieldKey, "priority"), goerr.V("priority", *patch.Priority))
		}
		changes.Priority = patch.Priority
	}
	if patch.ProjectID != nil {
		if err := patch.ProjectID.Validate(); err != nil {
			return nil, goerr.Wrap(ErrValidation, err.Error(), goerr.V(FieldKey, "project_id"))
		}
		changes.ProjectID = patch.ProjectID
	}

	if patch.AssigneeIDs != nil {
		next := model.NormalizeAssignees(*patch.AssigneeIDs)
		switch {
		case len(next) == 0:
			return nil, goerr.Wrap(ErrEmptyAssignees, "cannot clear assignees", goerr.V(TaskIDKey, target.ID))
		case model.IsAssigneeRemoval(target.AssigneeIDs, next) && !model.CanRemoveAssignees(identity.Role):
			logger.Debug("assignee removal dropped",
				"task_id", target.ID, "user_id", identity.UserID, "role", identity.Role)
		default:
			changes.AssigneeIDs = next
		}
	}

	if patch.IsArchived != nil {
		if *patch.IsArchived && target.IsMainTask() && !allSubtasksArchived(target.ID, allTasks) {
			logger.Debug("archive dropped, main task has unarchived subtasks", "task_id", target.ID)
		} else {
			changes.IsArchived = patch.IsArchived
		}
	}

	return changes, nil
}

// allSubtasksArchived reports whether every subtask of parentID in tasks is archived.
// A task without subtasks qualifies.
func allSubtasksArchived(parentID types.TaskID, tasks []*model.Task) bool {
	for _, t := range tasks {
		if t.IsSubtaskOf(parentID) && !t.IsArchived {
			return false
		}
	}
	return true
}

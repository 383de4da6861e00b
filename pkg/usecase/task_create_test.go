package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
	"github.com/secmon-lab/taskhub/pkg/usecase"
)

func TestCreateTask(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	t.Run("defaults status and priority", func(t *testing.T) {
		created, err := uc.Task.CreateTask(ctx, staff("A"), model.TaskInput{
			Title:       "Prepare demo",
			AssigneeIDs: []types.UserID{"A", "A", "B"},
		})
		gt.NoError(t, err).Required()

		gt.String(t, string(created.ID)).NotEqual("")
		gt.Value(t, created.OwnerUserID).Equal(types.UserID("A"))
		gt.Value(t, created.AssigneeIDs).Equal([]types.UserID{"A", "B"})
		gt.Value(t, created.Status).Equal(types.TaskStatusTodo)
		gt.Value(t, created.Priority).Equal(types.PriorityMedium)
		gt.Bool(t, created.IsMainTask()).True()
	})

	t.Run("requires assignees", func(t *testing.T) {
		_, err := uc.Task.CreateTask(ctx, staff("A"), model.TaskInput{Title: "lonely"})
		gt.Error(t, err).Is(usecase.ErrEmptyAssignees)
	})

	t.Run("requires title", func(t *testing.T) {
		_, err := uc.Task.CreateTask(ctx, staff("A"), model.TaskInput{
			Title:       "  ",
			AssigneeIDs: []types.UserID{"A"},
		})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := uc.Task.CreateTask(ctx, staff("A"), model.TaskInput{
			Title:       "x",
			AssigneeIDs: []types.UserID{"A"},
			Status:      "DONE",
		})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("requires identity", func(t *testing.T) {
		_, err := uc.Task.CreateTask(ctx, nil, model.TaskInput{Title: "x", AssigneeIDs: []types.UserID{"A"}})
		gt.Error(t, err).Is(usecase.ErrNoIdentity)
	})
}

func TestCreateSubtask(t *testing.T) {
	archived := task("OLD", "", "A", "A")
	archived.IsArchived = true
	parent := task("M", "", "A", "A")
	parent.ProjectID = "launch"
	uc, _ := setup(t, parent, task("S", "M", "A", "A"), task("HIDDEN", "", "B", "B"), archived)
	ctx := context.Background()
	input := model.TaskInput{Title: "step", AssigneeIDs: []types.UserID{"C"}}

	t.Run("inherits project and fixes parent", func(t *testing.T) {
		created, err := uc.Task.CreateSubtask(ctx, staff("A"), "M", input)
		gt.NoError(t, err).Required()
		gt.Value(t, created.ParentID).Equal(types.TaskID("M"))
		gt.Value(t, created.ProjectID).Equal(types.ProjectID("launch"))
		gt.Value(t, created.OwnerUserID).Equal(types.UserID("A"))
	})

	t.Run("parent must be visible", func(t *testing.T) {
		_, err := uc.Task.CreateSubtask(ctx, staff("A"), "HIDDEN", input)
		gt.Error(t, err).Is(usecase.ErrParentNotFound)
	})

	t.Run("parent must be a main task", func(t *testing.T) {
		_, err := uc.Task.CreateSubtask(ctx, staff("A"), "S", input)
		gt.Error(t, err).Is(usecase.ErrInvalidParent)
	})

	t.Run("parent must not be archived", func(t *testing.T) {
		_, err := uc.Task.CreateSubtask(ctx, staff("A"), "OLD", input)
		gt.Error(t, err).Is(usecase.ErrInvalidParent)
	})
}

func TestGetTask(t *testing.T) {
	uc, _ := setup(t, task("mine", "", "A", "A"), task("other", "", "B", "B"))
	ctx := context.Background()

	got, err := uc.Task.GetTask(ctx, staff("A"), "mine")
	gt.NoError(t, err).Required()
	gt.Value(t, got.ID).Equal(types.TaskID("mine"))

	_, err = uc.Task.GetTask(ctx, staff("A"), "other")
	gt.Error(t, err).Is(usecase.ErrTaskNotFound)

	_, err = uc.Task.GetTask(ctx, staff("A"), "missing")
	gt.Error(t, err).Is(usecase.ErrTaskNotFound)
}

func TestListTasks(t *testing.T) {
	archived := task("M2", "", "A", "A")
	archived.IsArchived = true
	inProject := task("M3", "", "A", "A")
	inProject.ProjectID = "alpha"
	uc, _ := setup(t,
		task("M1", "", "A", "A"),
		task("S1", "M1", "A", "A"),
		archived,
		inProject,
		task("X", "", "B", "B"),
	)
	ctx := context.Background()
	identity := staff("A")

	all, err := uc.Task.ListTasks(ctx, identity, usecase.ListOptions{})
	gt.NoError(t, err).Required()
	gt.Value(t, taskIDs(all)).Equal([]types.TaskID{"M1", "S1", "M3"})

	withArchived, err := uc.Task.ListTasks(ctx, identity, usecase.ListOptions{IncludeArchived: true})
	gt.NoError(t, err).Required()
	gt.Value(t, taskIDs(withArchived)).Equal([]types.TaskID{"M1", "S1", "M2", "M3"})

	mains, err := uc.Task.ListTasks(ctx, identity, usecase.ListOptions{ParentID: ptr(types.TaskID(""))})
	gt.NoError(t, err).Required()
	gt.Value(t, taskIDs(mains)).Equal([]types.TaskID{"M1", "M3"})

	project, err := uc.Task.ListTasks(ctx, identity, usecase.ListOptions{ProjectID: "alpha"})
	gt.NoError(t, err).Required()
	gt.Value(t, taskIDs(project)).Equal([]types.TaskID{"M3"})
}

func TestListSubtasks(t *testing.T) {
	archivedSub := task("S2", "M", "A", "A")
	archivedSub.IsArchived = true
	uc, _ := setup(t,
		task("M", "", "A", "A"),
		task("S1", "M", "A", "A"),
		archivedSub,
		task("S3", "M", "A", "B"),
	)
	ctx := context.Background()

	subs, err := uc.Task.ListSubtasks(ctx, staff("A"), "M")
	gt.NoError(t, err).Required()
	gt.Value(t, taskIDs(subs)).Equal([]types.TaskID{"S1"})

	// B sees M through S3 but not A's subtasks
	subs, err = uc.Task.ListSubtasks(ctx, staff("B"), "M")
	gt.NoError(t, err).Required()
	gt.Value(t, taskIDs(subs)).Equal([]types.TaskID{"S3"})

	_, err = uc.Task.ListSubtasks(ctx, staff("C"), "M")
	gt.Error(t, err).Is(usecase.ErrTaskNotFound)

	_, err = uc.Task.ListSubtasks(ctx, staff("A"), "S1")
	gt.Error(t, err).Is(usecase.ErrTaskNotFound)
}

func TestListArchivedSubtasks(t *testing.T) {
	archivedSub := task("S", "M", "A", "A")
	archivedSub.IsArchived = true
	uc, _ := setup(t, task("M", "", "A", "A"), archivedSub)

	results, err := uc.Task.ListArchivedSubtasks(context.Background(), staff("A"))
	gt.NoError(t, err).Required()
	gt.A(t, results).Length(1).Required()
	gt.Value(t, results[0].Subtask.ID).Equal(types.TaskID("S"))
	gt.Value(t, results[0].MainTask.ID).Equal(types.TaskID("M"))
}

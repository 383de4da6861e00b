package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// uniqueUser keeps tests independent on shared backends
func uniqueUser(name string) types.UserID {
	return types.UserID(name + "-" + uuid.NewString()[:8])
}

func runTaskRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		owner := uniqueUser("alice")

		created, err := repo.Task().Create(ctx, &model.Task{
			OwnerUserID: owner,
			AssigneeIDs: []types.UserID{owner},
			Status:      types.TaskStatusTodo,
			Priority:    types.PriorityMedium,
			Title:       "Write report",
		})
		gt.NoError(t, err).Required()

		gt.String(t, string(created.ID)).NotEqual("")
		gt.Value(t, created.OwnerUserID).Equal(owner)
		gt.Bool(t, created.IsMainTask()).True()
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()
	})

	t.Run("Create rejects duplicate ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id := types.NewTaskID()

		_, err := repo.Task().Create(ctx, &model.Task{ID: id, OwnerUserID: uniqueUser("bob"), Title: "first"})
		gt.NoError(t, err).Required()

		_, err = repo.Task().Create(ctx, &model.Task{ID: id, OwnerUserID: uniqueUser("bob"), Title: "second"})
		gt.Value(t, err).NotNil()
	})

	t.Run("SelectByFilter narrows by owner, parent and archival", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		owner := uniqueUser("carol")

		parent, err := repo.Task().Create(ctx, &model.Task{OwnerUserID: owner, Title: "parent", Status: types.TaskStatusTodo})
		gt.NoError(t, err).Required()
		sub, err := repo.Task().Create(ctx, &model.Task{OwnerUserID: owner, ParentID: parent.ID, Title: "child", Status: types.TaskStatusTodo})
		gt.NoError(t, err).Required()
		archived, err := repo.Task().Create(ctx, &model.Task{OwnerUserID: owner, ParentID: parent.ID, Title: "old child", IsArchived: true})
		gt.NoError(t, err).Required()

		all, err := repo.Task().SelectByFilter(ctx, model.TaskFilter{OwnerUserID: owner})
		gt.NoError(t, err).Required()
		gt.A(t, all).Length(3)

		mains, err := repo.Task().SelectByFilter(ctx, model.MainTaskFilter(parent.ID))
		gt.NoError(t, err).Required()
		gt.A(t, mains).Length(1)
		gt.Value(t, mains[0].ID).Equal(parent.ID)

		// a subtask must not match a main-task filter
		none, err := repo.Task().SelectByFilter(ctx, model.MainTaskFilter(sub.ID))
		gt.NoError(t, err).Required()
		gt.A(t, none).Length(0)

		subs, err := repo.Task().SelectByFilter(ctx, model.SubtaskFilter(parent.ID, ""))
		gt.NoError(t, err).Required()
		gt.A(t, subs).Length(2)

		isArchived := true
		arch, err := repo.Task().SelectByFilter(ctx, model.TaskFilter{OwnerUserID: owner, IsArchived: &isArchived})
		gt.NoError(t, err).Required()
		gt.A(t, arch).Length(1)
		gt.Value(t, arch[0].ID).Equal(archived.ID)
	})

	t.Run("SelectAll includes created tasks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Task().Create(ctx, &model.Task{OwnerUserID: uniqueUser("dave"), Title: "visible"})
		gt.NoError(t, err).Required()

		all, err := repo.Task().SelectAll(ctx)
		gt.NoError(t, err).Required()

		found := false
		for _, task := range all {
			if task.ID == created.ID {
				found = true
			}
		}
		gt.Bool(t, found).True()
	})

	t.Run("UpdateByFilter writes only set fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		owner := uniqueUser("erin")
		due := time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)

		created, err := repo.Task().Create(ctx, &model.Task{
			OwnerUserID: owner,
			AssigneeIDs: []types.UserID{owner, "U2"},
			Title:       "draft",
			Description: "keep me",
			Status:      types.TaskStatusTodo,
			Priority:    types.PriorityLow,
		})
		gt.NoError(t, err).Required()

		title := "final"
		status := types.TaskStatusInProgress
		updated, err := repo.Task().UpdateByFilter(ctx, model.TaskChanges{
			Title:       &title,
			Status:      &status,
			DueDate:     &due,
			AssigneeIDs: []types.UserID{owner},
		}, model.MainTaskFilter(created.ID))
		gt.NoError(t, err).Required()
		gt.A(t, updated).Length(1)

		got := updated[0]
		gt.Value(t, got.Title).Equal("final")
		gt.Value(t, got.Status).Equal(types.TaskStatusInProgress)
		gt.Value(t, got.Description).Equal("keep me")
		gt.Value(t, got.Priority).Equal(types.PriorityLow)
		gt.Value(t, got.AssigneeIDs).Equal([]types.UserID{owner})
		gt.Value(t, got.DueDate).NotNil()
		gt.Bool(t, got.DueDate.Equal(due)).True()

		stored, err := repo.Task().SelectByFilter(ctx, model.TaskFilter{ID: created.ID})
		gt.NoError(t, err).Required()
		gt.A(t, stored).Length(1)
		gt.Value(t, stored[0].Title).Equal("final")
	})

	t.Run("UpdateByFilter with unmatched filter returns empty", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		owner := uniqueUser("frank")

		parent, err := repo.Task().Create(ctx, &model.Task{OwnerUserID: owner, Title: "parent"})
		gt.NoError(t, err).Required()
		sub, err := repo.Task().Create(ctx, &model.Task{OwnerUserID: owner, ParentID: parent.ID, Title: "child"})
		gt.NoError(t, err).Required()

		title := "renamed"
		updated, err := repo.Task().UpdateByFilter(ctx, model.TaskChanges{Title: &title}, model.MainTaskFilter(sub.ID))
		gt.NoError(t, err).Required()
		gt.A(t, updated).Length(0)

		stored, err := repo.Task().SelectByFilter(ctx, model.TaskFilter{ID: sub.ID})
		gt.NoError(t, err).Required()
		gt.Value(t, stored[0].Title).Equal("child")
	})
}

func TestTaskRepository_Memory(t *testing.T) {
	runTaskRepositoryTest(t, newMemory)
}

func TestTaskRepository_Firestore(t *testing.T) {
	runTaskRepositoryTest(t, firestoreFactory(t))
}

func TestTaskRepository_Postgres(t *testing.T) {
	runTaskRepositoryTest(t, postgresFactory(t))
}

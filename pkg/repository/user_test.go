package repository_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

func runUserRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("UsersInDepartment returns members only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		dept := "dept-" + uuid.NewString()[:8]
		other := "dept-" + uuid.NewString()[:8]
		u1 := uniqueUser("u1")
		u2 := uniqueUser("u2")
		u3 := uniqueUser("u3")

		gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{
			{ID: u1, Name: "User One", Departments: []string{dept}},
			{ID: u2, Name: "User Two", Departments: []string{dept, other}},
			{ID: u3, Name: "User Three", Departments: []string{other}},
		})).Required()

		members, err := repo.User().UsersInDepartment(ctx, dept)
		gt.NoError(t, err).Required()
		gt.A(t, members).Length(2)

		ids := map[types.UserID]bool{}
		for _, m := range members {
			ids[m.ID] = true
		}
		gt.Bool(t, ids[u1]).True()
		gt.Bool(t, ids[u2]).True()
		gt.Bool(t, ids[u3]).False()
	})

	t.Run("UsersInDepartment of unknown department is empty", func(t *testing.T) {
		repo := newRepo(t)
		members, err := repo.User().UsersInDepartment(context.Background(), "nobody-"+uuid.NewString())
		gt.NoError(t, err).Required()
		gt.A(t, members).Length(0)
	})

	t.Run("SaveMany overwrites existing users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		id := uniqueUser("mover")
		from := "dept-" + uuid.NewString()[:8]
		to := "dept-" + uuid.NewString()[:8]

		gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{{ID: id, Departments: []string{from}}})).Required()
		gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{{ID: id, Name: "Moved", Departments: []string{to}}})).Required()

		old, err := repo.User().UsersInDepartment(ctx, from)
		gt.NoError(t, err).Required()
		gt.A(t, old).Length(0)

		current, err := repo.User().UsersInDepartment(ctx, to)
		gt.NoError(t, err).Required()
		gt.A(t, current).Length(1)
		gt.Value(t, current[0].Name).Equal("Moved")

		all, err := repo.User().GetAll(ctx)
		gt.NoError(t, err).Required()
		found := 0
		for _, u := range all {
			if u.ID == id {
				found++
			}
		}
		gt.Number(t, found).Equal(1)
	})
}

func TestUserRepository_Memory(t *testing.T) {
	runUserRepositoryTest(t, newMemory)
}

func TestUserRepository_Firestore(t *testing.T) {
	runUserRepositoryTest(t, firestoreFactory(t))
}

func TestUserRepository_Postgres(t *testing.T) {
	runUserRepositoryTest(t, postgresFactory(t))
}

func TestUserRepository_Firestore_SaveManyReportsRejectedDocument(t *testing.T) {
	newRepo := firestoreFactory(t)
	repo := newRepo(t)
	ctx := context.Background()

	ok := uniqueUser("ok")
	oversized := uniqueUser("oversized")

	// Firestore caps a document at 1 MiB, so this one is rejected server side
	err := repo.User().SaveMany(ctx, []*model.User{
		{ID: ok, Name: "Fine"},
		{ID: oversized, Name: strings.Repeat("x", 2<<20)},
	})
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("failed to save user")
}

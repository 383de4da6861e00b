package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
	// byDepartment indexes user IDs by department name
	byDepartment map[string]map[types.UserID]struct{}
}

func newUserRepository() *userRepository {
	return &userRepository{
		users:        make(map[types.UserID]*model.User),
		byDepartment: make(map[string]map[types.UserID]struct{}),
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Departments = slices.Clone(u.Departments)
	return &c
}

// GetAll retrieves all users
func (r *userRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, copyUser(u))
	}
	slices.SortFunc(users, func(a, b *model.User) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return users, nil
}

// SaveMany upserts users and keeps the department index in sync
func (r *userRepository) SaveMany(ctx context.Context, users []*model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range users {
		if prev, ok := r.users[u.ID]; ok {
			for _, d := range prev.Departments {
				delete(r.byDepartment[d], u.ID)
			}
		}

		r.users[u.ID] = copyUser(u)
		for _, d := range u.Departments {
			if _, ok := r.byDepartment[d]; !ok {
				r.byDepartment[d] = make(map[types.UserID]struct{})
			}
			r.byDepartment[d][u.ID] = struct{}{}
		}
	}

	return nil
}

// UsersInDepartment returns the members of a department. Unknown or empty
// departments yield an empty slice.
func (r *userRepository) UsersInDepartment(ctx context.Context, name string) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.byDepartment[name]
	users := make([]*model.User, 0, len(members))
	for id := range members {
		users = append(users, copyUser(r.users[id]))
	}
	slices.SortFunc(users, func(a, b *model.User) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return users, nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[types.TaskID]*model.Task
	order []types.TaskID // insertion order, so SelectAll is stable
}

func newTaskRepository() *taskRepository {
	return &taskRepository{
		tasks: make(map[types.TaskID]*model.Task),
	}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := task.Clone()
	if created.ID == "" {
		created.ID = types.NewTaskID()
	}
	if _, exists := r.tasks[created.ID]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "task already exists", goerr.V("id", created.ID))
	}

	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.tasks[created.ID] = created
	r.order = append(r.order, created.ID)
	return created.Clone(), nil
}

func (r *taskRepository) SelectAll(ctx context.Context) ([]*model.Task, error) {
	return r.SelectByFilter(ctx, model.TaskFilter{})
}

func (r *taskRepository) SelectByFilter(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*model.Task, 0, len(r.order))
	for _, id := range r.order {
		t := r.tasks[id]
		if filter.Matches(t) {
			tasks = append(tasks, t.Clone())
		}
	}

	return tasks, nil
}

// UpdateByFilter applies the change-set under the write lock, so a single call is
// atomic with respect to other calls on the same repository.
func (r *taskRepository) UpdateByFilter(ctx context.Context, changes model.TaskChanges, filter model.TaskFilter) ([]*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	updated := make([]*model.Task, 0)
	for _, id := range r.order {
		t := r.tasks[id]
		if !filter.Matches(t) {
			continue
		}

		next := t.Clone()
		changes.Apply(next)
		next.UpdatedAt = now
		r.tasks[id] = next
		updated = append(updated, next.Clone())
	}

	return updated, nil
}

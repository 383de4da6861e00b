package interfaces

import (
	"context"

	"github.com/secmon-lab/taskhub/pkg/domain/model"
)

// TaskRepository defines the interface for Task data access
type TaskRepository interface {
	// Create stores a new task. ID and timestamps are assigned by the repository
	// when the given task does not carry them.
	Create(ctx context.Context, task *model.Task) (*model.Task, error)

	// SelectAll returns every task, archived ones included
	SelectAll(ctx context.Context) ([]*model.Task, error)

	// SelectByFilter returns tasks matching the filter
	SelectByFilter(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)

	// UpdateByFilter applies changes to every task matching the filter and returns the
	// updated records. An empty result means nothing matched; it is not an error.
	UpdateByFilter(ctx context.Context, changes model.TaskChanges, filter model.TaskFilter) ([]*model.Task, error)
}

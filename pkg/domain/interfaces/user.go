package interfaces

import (
	"context"

	"github.com/secmon-lab/taskhub/pkg/domain/model"
)

// DepartmentDirectory resolves department membership
type DepartmentDirectory interface {
	// UsersInDepartment returns the members of a department. A department without
	// members (or unknown to the directory) yields an empty slice and no error.
	UsersInDepartment(ctx context.Context, name string) ([]*model.User, error)
}

// UserRepository stores directory users
type UserRepository interface {
	DepartmentDirectory

	// GetAll retrieves all users
	GetAll(ctx context.Context) ([]*model.User, error)

	// SaveMany upserts users
	SaveMany(ctx context.Context, users []*model.User) error
}

package directory

import (
	"context"

	"github.com/secmon-lab/taskhub/pkg/domain/model"
)

// Source provides the authoritative list of directory users
type Source interface {
	// ListUsers returns every user with their department memberships
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// Entry is one [[user]] table of a directory file
type Entry struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Email       string   `toml:"email"`
	Departments []string `toml:"departments"`
}

// File is the top level of a directory file
type File struct {
	Users []Entry `toml:"user"`
}

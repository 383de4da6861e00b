package directory

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// FileSource reads the directory from a TOML file on every call, so edits are picked
// up by the next refresh.
type FileSource struct {
	path string
	now  func() time.Time
}

var _ Source = &FileSource{}

// NewFileSource creates a Source backed by the TOML file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, now: time.Now}
}

// ListUsers loads, validates and converts the file
func (s *FileSource) ListUsers(ctx context.Context) ([]*model.User, error) {
	// #nosec G304 - path is provided by CLI argument
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read directory file", goerr.V(PathKey, s.path))
	}

	f, err := Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load directory file", goerr.V(PathKey, s.path))
	}

	return f.ToUsers(s.now()), nil
}

// Parse decodes and validates directory TOML
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(ErrInvalidDirectory, "failed to parse TOML", goerr.V("cause", err.Error()))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks ids are present and unique, and that no user lists an empty or
// repeated department. Surrounding whitespace is ignored.
func (f *File) Validate() error {
	ids := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			return goerr.Wrap(ErrMissingUserID, "invalid user entry", goerr.V(UserIndexKey, i))
		}
		if ids[id] {
			return goerr.Wrap(ErrDuplicateUserID, "invalid user entry", goerr.V(UserIDKey, id))
		}
		ids[id] = true

		depts := make(map[string]bool, len(u.Departments))
		for _, d := range u.Departments {
			d = strings.TrimSpace(d)
			if d == "" {
				return goerr.Wrap(ErrEmptyDepartment, "invalid user entry", goerr.V(UserIDKey, id))
			}
			if depts[d] {
				return goerr.Wrap(ErrDuplicateDept, "invalid user entry",
					goerr.V(UserIDKey, id), goerr.V(DepartmentKey, d))
			}
			depts[d] = true
		}
	}
	return nil
}

// ToUsers converts validated entries into directory users stamped with updatedAt
func (f *File) ToUsers(updatedAt time.Time) []*model.User {
	users := make([]*model.User, len(f.Users))
	for i, u := range f.Users {
		depts := make([]string, len(u.Departments))
		for j, d := range u.Departments {
			depts[j] = strings.TrimSpace(d)
		}
		users[i] = &model.User{
			ID:          types.UserID(strings.TrimSpace(u.ID)),
			Name:        u.Name,
			Email:       u.Email,
			Departments: depts,
			UpdatedAt:   updatedAt,
		}
	}
	return users
}

package directory

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidDirectory = goerr.New("invalid directory")
	ErrMissingUserID    = goerr.New("user id is required")
	ErrDuplicateUserID  = goerr.New("duplicate user id")
	ErrEmptyDepartment  = goerr.New("department name is empty")
	ErrDuplicateDept    = goerr.New("duplicate department for user")
)

const (
	PathKey       = "path"
	UserIDKey     = "user_id"
	UserIndexKey  = "user_index"
	DepartmentKey = "department"
)

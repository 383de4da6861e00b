package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/taskhub/pkg/domain/types"
)

// User is a directory entry. Departments is the only attribute the access engine reads.
type User struct {
	ID          types.UserID
	Name        string
	Email       string
	Departments []string
	UpdatedAt   time.Time
}

// InDepartment reports whether the user belongs to the named department
func (u *User) InDepartment(name string) bool {
	return slices.Contains(u.Departments, name)
}

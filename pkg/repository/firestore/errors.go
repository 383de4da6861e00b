package firestore

import "github.com/m-mizutani/goerr/v2"

var (
	ErrAlreadyExists = goerr.New("already exists")
)

// Collection names
const (
	TasksCollection = "tasks"
	UsersCollection = "users"
)

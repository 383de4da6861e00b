package memory

import "github.com/m-mizutani/goerr/v2"

var (
	ErrAlreadyExists = goerr.New("already exists")
)

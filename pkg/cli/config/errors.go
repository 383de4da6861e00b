package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrMissingSecret   = goerr.New("jwt secret is required")
	ErrWeakSecret      = goerr.New("jwt secret is too short")
	ErrInvalidBackend  = goerr.New("invalid repository backend")
	ErrMissingBackend  = goerr.New("backend setting is required")
	ErrInvalidLogLevel = goerr.New("invalid log level")
)

// Context keys for error values
const (
	BackendKey  = "backend"
	FlagKey     = "flag"
	LogLevelKey = "log_level"
)

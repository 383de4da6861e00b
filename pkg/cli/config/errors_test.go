package config_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/cli/config"
)

func TestConfigErrors_SentinelIdentification(t *testing.T) {
	sentinels := []error{
		config.ErrInvalidConfig,
		config.ErrMissingSecret,
		config.ErrWeakSecret,
		config.ErrInvalidBackend,
		config.ErrMissingBackend,
		config.ErrInvalidLogLevel,
	}

	for i, sentinel := range sentinels {
		wrapped := goerr.Wrap(sentinel, "wrapped", goerr.V(config.FlagKey, "test"))
		for j, other := range sentinels {
			gt.Value(t, errors.Is(wrapped, other)).Equal(i == j)
		}
	}
}

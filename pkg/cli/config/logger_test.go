package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/cli/config"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
)

func TestLogger_Configure(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name: "defaults",
		},
		{
			name: "json to stderr",
			args: []string{"--log-format", "json", "--log-output", "stderr", "--log-level", "debug"},
		},
		{
			name:    "invalid level",
			args:    []string{"--log-level", "verbose"},
			wantErr: config.ErrInvalidLogLevel,
		},
		{
			name:    "invalid format",
			args:    []string{"--log-format", "xml"},
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Logger
			err := parseFlags(t, cfg.Flags(), tt.args, func(ctx context.Context) error {
				closer, err := cfg.Configure()
				if err != nil {
					return err
				}
				closer()
				return nil
			})
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err)
		})
	}
}

func TestLogger_ConfigureFileOutput(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	path := filepath.Join(t.TempDir(), "taskhub.log")

	var cfg config.Logger
	err := parseFlags(t, cfg.Flags(), []string{"--log-format", "json", "--log-output", path}, func(ctx context.Context) error {
		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("hello from test")
		closer()
		return nil
	})
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.S(t, string(data)).Contains("hello from test")
}

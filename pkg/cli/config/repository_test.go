package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/taskhub/pkg/cli/config"
)

func TestRepository_Validate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name: "memory is the default",
			args: nil,
		},
		{
			name:    "firestore without project",
			args:    []string{"--repository-backend", "firestore"},
			wantErr: config.ErrMissingBackend,
		},
		{
			name: "firestore with project",
			args: []string{"--repository-backend", "firestore", "--firestore-project-id", "my-project"},
		},
		{
			name:    "postgres without dsn",
			args:    []string{"--repository-backend", "postgres"},
			wantErr: config.ErrMissingBackend,
		},
		{
			name: "postgres with dsn",
			args: []string{"--repository-backend", "postgres", "--postgres-dsn", "postgres://localhost/taskhub"},
		},
		{
			name:    "unknown backend",
			args:    []string{"--repository-backend", "mysql"},
			wantErr: config.ErrInvalidBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Repository
			err := parseFlags(t, cfg.Flags(), tt.args, func(ctx context.Context) error {
				return cfg.Validate()
			})
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err)
		})
	}
}

func TestRepository_ConfigureMemory(t *testing.T) {
	var cfg config.Repository
	err := parseFlags(t, cfg.Flags(), nil, func(ctx context.Context) error {
		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		defer func() { gt.NoError(t, repo.Close()) }()

		users, err := repo.User().GetAll(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, users).Length(0)
		return nil
	})
	gt.NoError(t, err)
}

package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/repository/firestore"
	"github.com/secmon-lab/taskhub/pkg/repository/memory"
	"github.com/secmon-lab/taskhub/pkg/repository/postgres"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend     string
	projectID   string
	databaseID  string
	postgresDSN string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Aliases:     []string{"backend"},
			Usage:       "Repository backend type (memory, firestore or postgres)",
			Category:    "Repository",
			Value:       BackendMemory,
			Sources:     cli.EnvVars("TASKHUB_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("TASKHUB_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("TASKHUB_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL connection string (required when using postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("TASKHUB_POSTGRES_DSN"),
			Destination: &r.postgresDSN,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore_project_id", r.projectID),
		slog.String("firestore_database_id", r.databaseID),
		slog.Int("postgres_dsn.len", len(r.postgresDSN)),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// Validate checks that the settings the selected backend needs are present
func (r *Repository) Validate() error {
	switch r.backend {
	case BackendMemory:
		return nil
	case BackendFirestore:
		if r.projectID == "" {
			return goerr.Wrap(ErrMissingBackend, "firestore-project-id is required when using firestore backend",
				goerr.V(FlagKey, "firestore-project-id"))
		}
		return nil
	case BackendPostgres:
		if r.postgresDSN == "" {
			return goerr.Wrap(ErrMissingBackend, "postgres-dsn is required when using postgres backend",
				goerr.V(FlagKey, "postgres-dsn"))
		}
		return nil
	default:
		return goerr.Wrap(ErrInvalidBackend, "unknown backend", goerr.V(BackendKey, r.backend))
	}
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.backend {
	case BackendFirestore:
		repo, err := firestore.New(ctx, r.projectID, r.databaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendPostgres:
		repo, err := r.ConfigurePostgres(ctx)
		if err != nil {
			return nil, err
		}
		logging.Default().Info("Using PostgreSQL repository")
		return repo, nil

	default:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil
	}
}

// ConfigurePostgres connects to PostgreSQL regardless of the selected backend
func (r *Repository) ConfigurePostgres(ctx context.Context) (*postgres.Postgres, error) {
	if r.postgresDSN == "" {
		return nil, goerr.Wrap(ErrMissingBackend, "postgres-dsn is required", goerr.V(FlagKey, "postgres-dsn"))
	}
	repo, err := postgres.New(ctx, r.postgresDSN)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize postgres repository")
	}
	return repo, nil
}

package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/cli/config"
	"github.com/secmon-lab/taskhub/pkg/repository/firestore"
	"github.com/secmon-lab/taskhub/pkg/repository/postgres"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"github.com/secmon-lab/taskhub/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := append(repoCfg.Flags(), &cli.BoolFlag{
		Name:        "dry-run",
		Usage:       "Preview changes without applying",
		Destination: &dryRun,
	})

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create Firestore indexes or the PostgreSQL schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Migrate configuration",
				"repository", repoCfg,
				"dryRun", dryRun)

			if err := repoCfg.Validate(); err != nil {
				return err
			}

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), dryRun)
			case config.BackendPostgres:
				return migratePostgres(ctx, &repoCfg, dryRun)
			default:
				return goerr.Wrap(config.ErrInvalidBackend, "migrate supports firestore or postgres",
					goerr.V(config.BackendKey, repoCfg.Backend()))
			}
		},
	}
}

func migrateFirestore(ctx context.Context, projectID, databaseID string, dryRun bool) error {
	logger := logging.Default()
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := fireconf.New(ctx, projectID, databaseID, getIndexConfig(),
		fireconf.WithLogger(logger),
		fireconf.WithDryRun(dryRun),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}
	defer safe.Close(ctx, "fireconf client", client)

	if dryRun {
		logger.Info("Dry run mode - previewing index changes")
	} else {
		logger.Info("Applying migrations")
	}
	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations", goerr.V("dry_run", dryRun))
	}
	if !dryRun {
		logger.Info("Migrations applied successfully")
	}
	return nil
}

func migratePostgres(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	if dryRun {
		logger.Info("Dry run mode - statements that would be applied")
		for i, stmt := range postgres.Schema() {
			logger.Info("Schema statement", "index", i, "statement", stmt)
		}
		return nil
	}

	repo, err := repoCfg.ConfigurePostgres(ctx)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, "postgres repository", repo)

	if err := repo.EnsureSchema(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	logger.Info("Schema applied successfully")
	return nil
}

func taskIndex(paths ...string) fireconf.Index {
	fields := make([]fireconf.IndexField, 0, len(paths)+1)
	for _, p := range paths {
		fields = append(fields, fireconf.IndexField{Path: p, Order: fireconf.OrderAscending})
	}
	fields = append(fields, fireconf.IndexField{Path: "created_at", Order: fireconf.OrderAscending})
	return fireconf.Index{Fields: fields}
}

// getIndexConfig returns the composite indexes for the task filters, each ordered by
// created_at. Single-field equality on users needs none.
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.TasksCollection,
				Indexes: []fireconf.Index{
					// Main task / subtask lookup by id
					taskIndex("id", "parent_id"),
					// ListSubtasks, main task listing
					taskIndex("parent_id"),
					taskIndex("parent_id", "is_archived"),
					taskIndex("owner_user_id"),
					taskIndex("is_archived"),
				},
			},
		},
	}
}

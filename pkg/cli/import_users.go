package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/cli/config"
	"github.com/secmon-lab/taskhub/pkg/service/directory"
	"github.com/secmon-lab/taskhub/pkg/service/worker"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"github.com/secmon-lab/taskhub/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdImportUsers() *cli.Command {
	var repoCfg config.Repository
	var path string

	flags := append(repoCfg.Flags(), &cli.StringFlag{
		Name:        "directory",
		Usage:       "TOML file listing users and their departments",
		Required:    true,
		Sources:     cli.EnvVars("TASKHUB_DIRECTORY"),
		Destination: &path,
	})

	return &cli.Command{
		Name:  "import-users",
		Usage: "Seed the department directory from a TOML file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			n, err := worker.Refresh(ctx, repo, directory.NewFileSource(path))
			if err != nil {
				return goerr.Wrap(err, "failed to import users", goerr.V("path", path))
			}

			logging.Default().Info("Imported users", "count", n, "path", path)
			return nil
		},
	}
}

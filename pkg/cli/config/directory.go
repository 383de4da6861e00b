package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/service/directory"
	"github.com/secmon-lab/taskhub/pkg/service/worker"
	"github.com/urfave/cli/v3"
)

// Directory holds CLI flags for the department directory seed file
type Directory struct {
	path     string
	interval time.Duration
}

// Flags returns CLI flags for directory configuration
func (x *Directory) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "directory",
			Usage:       "TOML file listing users and their departments",
			Category:    "Directory",
			Sources:     cli.EnvVars("TASKHUB_DIRECTORY"),
			Destination: &x.path,
		},
		&cli.DurationFlag{
			Name:        "directory-refresh-interval",
			Usage:       "Reload the directory file periodically (0 loads it once at startup)",
			Category:    "Directory",
			Sources:     cli.EnvVars("TASKHUB_DIRECTORY_REFRESH_INTERVAL"),
			Destination: &x.interval,
		},
	}
}

func (x Directory) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.String("refresh_interval", x.interval.String()),
	)
}

// IsConfigured reports whether a directory file was given
func (x *Directory) IsConfigured() bool {
	return x.path != ""
}

// Source returns the file-backed directory source
func (x *Directory) Source() directory.Source {
	return directory.NewFileSource(x.path)
}

// Configure loads the directory into repo. With a refresh interval it returns a started
// worker the caller must Stop; otherwise the file is imported once and the worker is nil.
func (x *Directory) Configure(ctx context.Context, repo interfaces.Repository) (*worker.DirectoryRefreshWorker, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	if x.interval <= 0 {
		if _, err := worker.Refresh(ctx, repo, x.Source()); err != nil {
			return nil, goerr.Wrap(err, "failed to import directory", goerr.V("path", x.path))
		}
		return nil, nil
	}

	w := worker.NewDirectoryRefreshWorker(repo, x.Source(), x.interval)
	if err := w.Start(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to start directory refresh worker")
	}
	return w, nil
}

package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/taskhub/pkg/service/directory"
	"github.com/secmon-lab/taskhub/pkg/utils/errutil"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
)

// DirectoryRefreshWorker keeps the department directory in the repository in sync with
// a directory source.
//
// Users that disappear from the source are left in place; the repository only supports
// upserts. Assumes a single server instance.
type DirectoryRefreshWorker struct {
	repo     interfaces.Repository
	source   directory.Source
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewDirectoryRefreshWorker creates a worker syncing source into repo every interval
func NewDirectoryRefreshWorker(repo interfaces.Repository, source directory.Source, interval time.Duration) *DirectoryRefreshWorker {
	return &DirectoryRefreshWorker{
		repo:     repo,
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the initial sync and the refresh loop in a background goroutine
func (w *DirectoryRefreshWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("refresh interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Directory refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DirectoryRefreshWorker) Stop() {
	logging.Default().Info("Directory refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Directory refresh worker stopped")
}

func (w *DirectoryRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if _, err := Refresh(ctx, w.repo, w.source); err != nil {
		_ = errutil.Handle(ctx, err, "Initial directory refresh failed (will retry next interval)")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := Refresh(ctx, w.repo, w.source); err != nil {
				_ = errutil.Handle(ctx, err, "Directory refresh failed (will retry next interval)")
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Directory refresh worker context cancelled")
			return
		}
	}
}

// Refresh performs a single sync and returns the number of users written. On a source
// failure the stored directory is left untouched.
func Refresh(ctx context.Context, repo interfaces.Repository, source directory.Source) (int, error) {
	startTime := time.Now()

	users, err := source.ListUsers(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list directory users")
	}

	if err := repo.User().SaveMany(ctx, users); err != nil {
		return 0, goerr.Wrap(err, "failed to save directory users", goerr.V("count", len(users)))
	}

	logging.Default().Info("Directory refresh completed",
		"count", len(users),
		"duration", time.Since(startTime).String())

	return len(users), nil
}

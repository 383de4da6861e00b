package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/cli/config"
	httpctrl "github.com/secmon-lab/taskhub/pkg/controller/http"
	"github.com/secmon-lab/taskhub/pkg/usecase"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"github.com/secmon-lab/taskhub/pkg/utils/safe"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func cmdServe() *cli.Command {
	var addr string
	var allowedOrigins []string
	var repoCfg config.Repository
	var authCfg config.Auth
	var dirCfg config.Directory
	var telemetryCfg config.Telemetry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TASKHUB_ADDR"),
			Destination: &addr,
		},
		&cli.StringSliceFlag{
			Name:        "allowed-origins",
			Usage:       "Origins allowed by CORS (CORS is disabled when empty)",
			Sources:     cli.EnvVars("TASKHUB_ALLOWED_ORIGINS"),
			Destination: &allowedOrigins,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, dirCfg.Flags()...)
	flags = append(flags, telemetryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			shutdownTelemetry, err := telemetryCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure telemetry")
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTelemetry(shutdownCtx); err != nil {
					logging.Default().Error("failed to shutdown telemetry", "error", err.Error())
				}
			}()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			authUC, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			dirWorker, err := dirCfg.Configure(ctx, repo)
			if err != nil {
				return goerr.Wrap(err, "failed to load department directory")
			}
			if !dirCfg.IsConfigured() {
				logging.Default().Warn("No directory file configured, director visibility relies on stored users only")
			}

			uc := usecase.New(repo, usecase.WithAuth(authUC))

			httpOpts := []httpctrl.Options{
				httpctrl.WithAuth(authUC),
			}
			if len(allowedOrigins) > 0 {
				httpOpts = append(httpOpts, httpctrl.WithAllowedOrigins(allowedOrigins))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           otelhttp.NewHandler(httpctrl.New(uc, httpOpts...), "taskhub"),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"repository", repoCfg,
					"auth", authCfg,
					"directory", dirCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if dirWorker != nil {
					dirWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if dirWorker != nil {
					dirWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Telemetry holds CLI flags for trace export
type Telemetry struct {
	endpoint    string
	serviceName string
	environment string
}

// Flags returns CLI flags for telemetry configuration
func (x *Telemetry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "otlp-endpoint",
			Usage:       "OTLP gRPC endpoint for traces (tracing is disabled when empty)",
			Category:    "Telemetry",
			Sources:     cli.EnvVars("TASKHUB_OTLP_ENDPOINT"),
			Destination: &x.endpoint,
		},
		&cli.StringFlag{
			Name:        "service-name",
			Usage:       "Service name reported with traces",
			Category:    "Telemetry",
			Value:       "taskhub",
			Sources:     cli.EnvVars("TASKHUB_SERVICE_NAME"),
			Destination: &x.serviceName,
		},
		&cli.StringFlag{
			Name:        "environment",
			Usage:       "Deployment environment reported with traces",
			Category:    "Telemetry",
			Value:       "development",
			Sources:     cli.EnvVars("TASKHUB_ENVIRONMENT"),
			Destination: &x.environment,
		},
	}
}

func (x Telemetry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", x.endpoint),
		slog.String("service_name", x.serviceName),
		slog.String("environment", x.environment),
	)
}

// Enabled reports whether an OTLP endpoint is configured
func (x *Telemetry) Enabled() bool {
	return x.endpoint != ""
}

// Configure installs a global tracer provider exporting over OTLP gRPC. When disabled
// the no-op global provider stays in place. The returned shutdown flushes pending spans.
func (x *Telemetry) Configure(ctx context.Context) (func(context.Context) error, error) {
	if !x.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	conn, err := grpc.NewClient(x.endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gRPC connection", goerr.V("endpoint", x.endpoint))
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create trace exporter")
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(x.serviceName),
			semconv.DeploymentEnvironment(x.environment),
		),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logging.Default().Info("Tracing enabled", "telemetry", x)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return goerr.Wrap(err, "failed to shutdown tracer provider")
		}
		if err := conn.Close(); err != nil {
			return goerr.Wrap(err, "failed to close gRPC connection")
		}
		return nil
	}, nil
}

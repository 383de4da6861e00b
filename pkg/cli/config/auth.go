package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/types"
	"github.com/secmon-lab/taskhub/pkg/usecase"
	"github.com/secmon-lab/taskhub/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// MinSecretLength is the shortest HS256 secret accepted
const MinSecretLength = 32

// Auth holds CLI flags for identity token verification
type Auth struct {
	secret string
	issuer string
	skew   time.Duration

	noAuthUID         string
	noAuthRole        string
	noAuthDepartments []string
}

// Flags returns CLI flags for authentication
func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HS256 secret shared with the identity provider",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TASKHUB_JWT_SECRET"),
			Destination: &x.secret,
		},
		&cli.StringFlag{
			Name:        "jwt-issuer",
			Usage:       "Required iss claim (not checked when empty)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TASKHUB_JWT_ISSUER"),
			Destination: &x.issuer,
		},
		&cli.DurationFlag{
			Name:        "jwt-skew",
			Usage:       "Tolerated clock skew for exp and nbf",
			Category:    "Authentication",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("TASKHUB_JWT_SKEW"),
			Destination: &x.skew,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and act as the given user ID (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TASKHUB_NO_AUTH"),
			Destination: &x.noAuthUID,
		},
		&cli.StringFlag{
			Name:        "no-auth-role",
			Usage:       "Role of the no-auth user",
			Category:    "Authentication",
			Value:       string(types.RoleStaff),
			Sources:     cli.EnvVars("TASKHUB_NO_AUTH_ROLE"),
			Destination: &x.noAuthRole,
		},
		&cli.StringSliceFlag{
			Name:        "no-auth-department",
			Usage:       "Department of the no-auth user (repeatable)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TASKHUB_NO_AUTH_DEPARTMENTS"),
			Destination: &x.noAuthDepartments,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("secret.len", len(x.secret)),
		slog.String("issuer", x.issuer),
		slog.String("skew", x.skew.String()),
		slog.String("no_auth", x.noAuthUID),
	)
}

// IsNoAuthMode reports whether authentication is skipped
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthUID != ""
}

// Configure returns NoAuthnUseCase in no-auth mode, otherwise an AuthUseCase verifying
// tokens with the configured secret.
func (x *Auth) Configure() (usecase.AuthUseCaseInterface, error) {
	if x.IsNoAuthMode() {
		uc, err := usecase.NewNoAuthnUseCase(x.noAuthUID, x.noAuthRole, x.noAuthDepartments)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure no-auth mode")
		}
		logging.Default().Warn("Running in no-auth mode (development only)",
			"user_id", x.noAuthUID,
			"role", x.noAuthRole,
			"departments", x.noAuthDepartments,
		)
		return uc, nil
	}

	if x.secret == "" {
		return nil, goerr.Wrap(ErrMissingSecret, "set --jwt-secret or --no-auth", goerr.V(FlagKey, "jwt-secret"))
	}
	if len(x.secret) < MinSecretLength {
		return nil, goerr.Wrap(ErrWeakSecret, "jwt secret rejected",
			goerr.V(FlagKey, "jwt-secret"),
			goerr.V("min_length", MinSecretLength))
	}

	var opts []usecase.AuthOption
	if x.issuer != "" {
		opts = append(opts, usecase.WithIssuer(x.issuer))
	}
	if x.skew > 0 {
		opts = append(opts, usecase.WithAcceptableSkew(x.skew))
	}

	return usecase.NewAuthUseCase([]byte(x.secret), opts...), nil
}

package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
	"github.com/DaoSolary/Desaparecidos/pkg/usecase"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/logging"
)

// Auth holds CLI flags for session authentication
type Auth struct {
	signingSecret string
	issuer        string
	audience      string
	noAuthSub     string
	noAuthEmail   string
	noAuthName    string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-signing-secret",
			Usage:       "HMAC secret shared with the records service for verifying handoff tokens",
			Category:    "Authentication",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("DESAPARECIDOS_AUTH_SIGNING_SECRET"),
		},
		&cli.StringFlag{
			Name:        "auth-issuer",
			Usage:       "Required issuer claim of handoff tokens (empty skips the check)",
			Category:    "Authentication",
			Destination: &x.issuer,
			Sources:     cli.EnvVars("DESAPARECIDOS_AUTH_ISSUER"),
		},
		&cli.StringFlag{
			Name:        "auth-audience",
			Usage:       "Required audience claim of handoff tokens (empty skips the check)",
			Category:    "Authentication",
			Destination: &x.audience,
			Sources:     cli.EnvVars("DESAPARECIDOS_AUTH_AUDIENCE"),
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified user ID (development only). Example: --no-auth=mod-1",
			Category:    "Authentication",
			Destination: &x.noAuthSub,
			Sources:     cli.EnvVars("DESAPARECIDOS_NO_AUTH"),
		},
		&cli.StringFlag{
			Name:        "no-auth-email",
			Usage:       "Email address for the no-auth user",
			Category:    "Authentication",
			Destination: &x.noAuthEmail,
			Sources:     cli.EnvVars("DESAPARECIDOS_NO_AUTH_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "no-auth-name",
			Usage:       "Display name for the no-auth user (defaults to the user ID)",
			Category:    "Authentication",
			Destination: &x.noAuthName,
			Sources:     cli.EnvVars("DESAPARECIDOS_NO_AUTH_NAME"),
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("issuer", x.issuer),
		slog.String("audience", x.audience),
	)
}

// IsNoAuthMode returns true if no-auth mode is enabled
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthSub != ""
}

// NoAuthSub returns the no-auth user ID
func (x *Auth) NoAuthSub() string {
	return x.noAuthSub
}

// IsConfigured checks if handoff verification is configured
func (x *Auth) IsConfigured() bool {
	return x.signingSecret != ""
}

// Configure creates an AuthUseCase verifying handoff tokens, or a
// NoAuthnUseCase when no-auth mode is enabled
func (x *Auth) Configure(repo interfaces.Repository) (usecase.AuthUseCaseInterface, error) {
	// If no-auth mode is enabled, run as the specified user
	if x.noAuthSub != "" {
		// Warn if handoff verification is also configured (no-auth takes precedence)
		if x.signingSecret != "" {
			logging.Default().Warn("--no-auth is set, ignoring --auth-signing-secret")
		}

		name := x.noAuthName
		if name == "" {
			name = x.noAuthSub
		}
		return usecase.NewNoAuthnUseCase(repo, x.noAuthSub, x.noAuthEmail, name), nil
	}

	if x.signingSecret == "" {
		return nil, goerr.New("authentication configuration is required: set --auth-signing-secret, or use --no-auth for development")
	}

	var options []usecase.AuthOption
	if x.issuer != "" {
		options = append(options, usecase.WithIssuer(x.issuer))
	}
	if x.audience != "" {
		options = append(options, usecase.WithAudience(x.audience))
	}

	return usecase.NewAuthUseCase(repo, []byte(x.signingSecret), options...), nil
}

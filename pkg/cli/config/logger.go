package config

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DaoSolary/Desaparecidos/pkg/utils/logging"
)

// Logger holds CLI flags for logging configuration
type Logger struct {
	level     string
	format    string
	output    string
	sentryDSN string
	sentryEnv string
}

// Flags returns CLI flags for logging configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("DESAPARECIDOS_LOG_LEVEL"),
			Destination: &l.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console or json)",
			Value:       "console",
			Sources:     cli.EnvVars("DESAPARECIDOS_LOG_FORMAT"),
			Destination: &l.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output destination ('-' for stdout, or a file path)",
			Value:       "-",
			Sources:     cli.EnvVars("DESAPARECIDOS_LOG_OUTPUT"),
			Destination: &l.output,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error tracking (empty disables Sentry)",
			Sources:     cli.EnvVars("DESAPARECIDOS_SENTRY_DSN"),
			Destination: &l.sentryDSN,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Sources:     cli.EnvVars("DESAPARECIDOS_SENTRY_ENV"),
			Destination: &l.sentryEnv,
		},
	}
}

func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.level),
		slog.String("format", l.format),
		slog.String("output", l.output),
		slog.Bool("sentry", l.sentryDSN != ""),
	)
}

// Configure replaces the process-wide logger according to the flags and
// returns a closer that flushes pending Sentry events and closes the
// output file if one was opened. The closer must run after the last log
// call.
func (l *Logger) Configure() (func(), error) {
	level, err := parseLogLevel(l.level)
	if err != nil {
		return nil, err
	}

	format, err := parseLogFormat(l.format)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stdout
	var file *os.File
	if l.output != "" && l.output != "-" {
		// #nosec G304 - path is expected to be provided by CLI argument
		f, err := os.OpenFile(l.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log output file", goerr.V(ConfigPathKey, l.output))
		}
		file = f
		w = f
	}

	logging.SetDefault(logging.New(w, level, format))

	if l.sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         l.sentryDSN,
			Environment: l.sentryEnv,
		})
		if err != nil {
			if file != nil {
				_ = file.Close()
			}
			return nil, goerr.Wrap(err, "failed to initialize Sentry")
		}
	}

	closer := func() {
		if l.sentryDSN != "" {
			sentry.Flush(2 * time.Second)
		}
		if file != nil {
			_ = file.Close()
		}
	}

	return closer, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, goerr.Wrap(ErrInvalidLogLevel, "log level must be one of debug, info, warn, error", goerr.V(LogLevelKey, s))
	}
}

func parseLogFormat(s string) (logging.Format, error) {
	switch s {
	case "console":
		return logging.FormatConsole, nil
	case "json":
		return logging.FormatJSON, nil
	default:
		return 0, goerr.Wrap(ErrInvalidLogFormat, "log format must be console or json", goerr.V(LogFormatKey, s))
	}
}

package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tracefit/activity-metrics-api/internal/config"
)

// InitLogger initializes the application logger with the given configuration.
// In development with console format, output is pretty-printed; otherwise
// structured JSON is written to stdout.
func InitLogger(cfg *config.AppConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()

	log.Info().Msg("Logger initialized")
}

// RequestLogger creates a logger with request-specific context for use
// inside handlers.
func RequestLogger(requestID, method, path string) zerolog.Logger {
	return log.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()
}

// LogDBQuery logs a database query with its duration. Queries are logged at
// debug level on success and error level on failure. Arguments are counted,
// not printed, so credentials and payloads never reach the logs.
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	query = strings.Join(strings.Fields(query), " ")

	if err != nil {
		log.Error().
			Str("query", query).
			Int("args", len(args)).
			Dur("duration", duration).
			Err(err).
			Msg("Database query failed")
		return
	}

	log.Debug().
		Str("query", query).
		Int("args", len(args)).
		Dur("duration", duration).
		Msg("Database query executed")
}

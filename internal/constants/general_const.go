// Package constants centralizes values shared across the application:
// environment names, configuration keys, defaults, database identifiers,
// and HTTP codes. Keeping them here avoids magic strings scattered through
// the codebase and makes operational surface area auditable.
package constants

// Application environments.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Environment variables for database credentials. These follow the libpq
// naming convention so the same environment works for psql, the dashboard
// and this service.
const (
	EnvConnectionURL = "CONNECTION_URL"
	EnvPGHost        = "PGHOST"
	EnvPGPort        = "PGPORT"
	EnvPGDatabase    = "PGDATABASE"
	EnvPGUser        = "PGUSER"
	EnvPGPassword    = "PGPASSWORD"
	EnvPGSSLMode     = "PGSSLMODE"
	EnvPGChannelBind = "PGCHANNELBINDING"
	EnvTargetUserID  = "TARGET_USER_ID"
	EnvAPIKey        = "API_KEY"
	EnvSecretsFile   = "SECRETS_FILE"
	EnvFallbackKeys  = "PGKEYS_FILE"
)

// LogRedactedValue replaces sensitive values in configuration logs.
const LogRedactedValue = "[REDACTED]"

// Activity type stored in the webhooks table for Garmin activity details.
const ActivityDetailsType = "activity-details"

// Supported sports for threshold lookups.
const (
	SportRunning  = "running"
	SportCycling  = "cycling"
	SportSwimming = "swimming"
)

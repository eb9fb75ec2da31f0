package constants

import "time"

// Server defaults.
const (
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Database defaults.
const (
	DefaultDBPort           = 5432
	DefaultDBMaxConnections = 10
	DefaultDBMinConnections = 2
	DefaultConnectTimeout   = 10 * time.Second
	DefaultSecretsFile      = ".streamlit/secrets.toml"
	DefaultFallbackKeysFile = "neondb_keys.json"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Dashboard query defaults, matching the limits the dashboard UI exposes.
const (
	DefaultActivityLimit = 200
	MinActivityLimit     = 10
	MaxActivityLimit     = 5000
	DefaultCacheTTL      = 5 * time.Minute
	DefaultAthleteWeight = 73.0 // kg, used when no weight is supplied
)

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MinPageSize     = 1
	MaxPageSize     = 500
)

// Maintenance defaults.
const (
	MaintenanceInterval     = 15 * time.Minute
	CacheCleanupInterval    = 1 * time.Minute
	HealthCheckQueryTimeout = 5 * time.Second
)

// MaxRequestBodySize limits incoming request bodies (1 MiB).
const MaxRequestBodySize = 1 << 20

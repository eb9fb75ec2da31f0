package constants

// Table names.
const (
	TableWebhooks   = "webhooks"
	TableMigrations = "schema_migrations"
	TableSeeds      = "seeds"
)

// Column names for the webhooks table.
const (
	ColumnID        = "id"
	ColumnUserID    = "user_id"
	ColumnType      = "type"
	ColumnData      = "data"
	ColumnCreatedAt = "created_at"
)

// PostgreSQL error codes used for error classification.
const (
	PGErrorDuplicateConstraint = "23505"
	PGErrorForeignKey          = "23503"
	PGErrorNotNull             = "23502"
)

// Valid sslmode values accepted in credentials, mirroring libpq.
var ValidSSLModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

package migrations

// All returns every migration in application order.
func All() []Migration {
	return []Migration{
		{
			Name: "0001_create_webhooks",
			SQL: `
				CREATE TABLE IF NOT EXISTS webhooks (
					id BIGSERIAL PRIMARY KEY,
					user_id TEXT NOT NULL DEFAULT '',
					type TEXT NOT NULL,
					data JSONB NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
		},
		{
			Name: "0002_index_webhooks_type_created",
			SQL: `
				CREATE INDEX IF NOT EXISTS idx_webhooks_type_created_at
				ON webhooks (type, created_at DESC)`,
		},
		{
			Name: "0003_index_webhooks_user",
			SQL: `
				CREATE INDEX IF NOT EXISTS idx_webhooks_user_id
				ON webhooks (user_id)`,
		},
	}
}

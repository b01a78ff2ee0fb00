package store

// schema is applied by Postgres.Migrate. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS optimization_runs (
		request_id     TEXT PRIMARY KEY,
		status         TEXT NOT NULL,
		vehicles       INTEGER NOT NULL,
		jobs           INTEGER NOT NULL,
		routes         JSONB NOT NULL DEFAULT '[]'::jsonb,
		total_distance BIGINT NOT NULL DEFAULT 0,
		total_duration BIGINT NOT NULL DEFAULT 0,
		objective      BIGINT NOT NULL DEFAULT 0,
		iterations     INTEGER NOT NULL DEFAULT 0,
		solve_ms       BIGINT NOT NULL DEFAULT 0,
		error          TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS optimization_runs_created_at_idx ON optimization_runs (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS webhook_deliveries (
		id              UUID PRIMARY KEY,
		event_type      TEXT NOT NULL,
		url             TEXT NOT NULL,
		secret          TEXT,
		payload         JSONB NOT NULL,
		status          TEXT NOT NULL,
		attempts        INTEGER NOT NULL DEFAULT 0,
		next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_error      TEXT,
		response_code   INTEGER,
		latency_ms      INTEGER,
		dedup_key       TEXT NOT NULL,
		delivered_at    TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (event_type, url, dedup_key)
	)`,
	`CREATE INDEX IF NOT EXISTS webhook_deliveries_due_idx ON webhook_deliveries (status, next_attempt_at)`,
	`CREATE TABLE IF NOT EXISTS webhook_dlq (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		delivery_id   UUID,
		event_type    TEXT NOT NULL,
		url           TEXT NOT NULL,
		secret        TEXT,
		payload       JSONB NOT NULL,
		attempts      INTEGER NOT NULL,
		last_error    TEXT,
		response_code INTEGER,
		latency_ms    INTEGER,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

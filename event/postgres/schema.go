package postgres

import (
	"context"
	"fmt"
)

// Schema creates every table the gateway writes to. Idempotent; applied
// at startup and by the integration test helpers.
const Schema = `
CREATE TABLE IF NOT EXISTS webhooks (
	id UUID PRIMARY KEY,
	provider TEXT NOT NULL,
	event_type TEXT NOT NULL,
	event_id TEXT,
	payload JSONB NOT NULL,
	signature_valid BOOLEAN NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS interactions (
	id SERIAL PRIMARY KEY,
	webhook_id UUID NOT NULL,
	source TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	source_url TEXT NOT NULL DEFAULT '',
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS activities (
	id SERIAL PRIMARY KEY,
	webhook_id UUID NOT NULL,
	activity_type TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	icon TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	actor_name TEXT NOT NULL DEFAULT '',
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tasks (
	id SERIAL PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	webhook_id UUID NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	priority TEXT NOT NULL,
	due_date TEXT,
	source TEXT NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS leads (
	id SERIAL PRIMARY KEY,
	external_id TEXT,
	webhook_id UUID NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS opportunities (
	id SERIAL PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	webhook_id UUID NOT NULL,
	name TEXT NOT NULL,
	value NUMERIC NOT NULL DEFAULT 0,
	stage TEXT NOT NULL DEFAULT '',
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS clients (
	id SERIAL PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	webhook_id UUID NOT NULL,
	company TEXT NOT NULL,
	website TEXT NOT NULL DEFAULT '',
	industry TEXT NOT NULL DEFAULT '',
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id SERIAL PRIMARY KEY,
	webhook_id UUID NOT NULL,
	platform TEXT NOT NULL,
	platform_id TEXT NOT NULL,
	channel_id TEXT NOT NULL DEFAULT '',
	team_id TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	user_name TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	thread_id TEXT,
	is_bot BOOLEAN NOT NULL DEFAULT FALSE,
	metadata JSONB NOT NULL DEFAULT '{}',
	sent_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_webhooks_provider ON webhooks (provider, created_at);
CREATE INDEX IF NOT EXISTS idx_webhooks_event_id ON webhooks (event_id);
`

// EnsureSchema applies the schema, creating any missing tables
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

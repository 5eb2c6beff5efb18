package database

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
)

// Schema is idempotent. leads.email carries the natural-key uniqueness the
// sync pipeline depends on; NULL emails never collide.
const Schema = `
CREATE TABLE IF NOT EXISTS leads (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name        TEXT NOT NULL,
	email       TEXT UNIQUE,
	phone       TEXT,
	company     TEXT,
	role        TEXT,
	notes       TEXT,
	status      TEXT NOT NULL DEFAULT 'New'
	            CHECK (status IN ('New', 'Contacted', 'Qualified', 'Lost', 'Meeting', 'Won')),
	captured_at TIMESTAMPTZ,
	meta_data   JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS leads_status_idx ON leads (status);
CREATE INDEX IF NOT EXISTS leads_created_at_idx ON leads (created_at DESC);

CREATE TABLE IF NOT EXISTS interactions (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	lead_id       UUID NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	type          TEXT NOT NULL,
	summary       TEXT,
	date          TIMESTAMPTZ,
	recording_url TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS interactions_lead_id_idx ON interactions (lead_id);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return eris.Wrap(err, "database: migrate")
	}
	return nil
}

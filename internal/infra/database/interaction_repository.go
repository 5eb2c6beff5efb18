package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/leadsync/internal/entity"
)

type InteractionRepository struct {
	DB *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) Append(ctx context.Context, in *entity.Interaction) error {
	query := `
		INSERT INTO interactions (id, lead_id, type, summary, date, recording_url)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		nullString(in.ID),
		in.LeadID,
		in.Type,
		nullString(in.Summary),
		in.Date,
		nullString(in.RecordingURL),
	).Scan(&in.ID, &in.CreatedAt)

	return classifyError(err, "postgres: append interaction")
}

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"

	"github.com/xavierca1/leadsync/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Insert relies on the UNIQUE(email) index and the primary key to reject
// duplicates. There is no ON CONFLICT clause: the first writer keeps the row.
func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	query := `
		INSERT INTO leads (id, name, email, phone, company, role, notes, status, captured_at, meta_data)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, name, email, phone, company, role, notes, status, captured_at, meta_data, created_at, updated_at
	`

	row := r.DB.QueryRowContext(ctx, query,
		nullString(lead.ID),
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Company),
		nullString(lead.Role),
		nullString(lead.Notes),
		string(lead.Status),
		lead.CapturedAt,
		lead.Metadata,
	)

	saved, err := scanLead(row)
	if err != nil {
		return nil, classifyError(err, "postgres: insert lead")
	}
	return saved, nil
}

func (r *LeadRepository) PromoteStatus(ctx context.Context, id string, from, to entity.LeadStatus) (bool, error) {
	query := `
		UPDATE leads
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	res, err := r.DB.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return false, classifyError(err, "postgres: promote status")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "postgres: promote status rows affected")
	}
	return n > 0, nil
}

func (r *LeadRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func scanLead(row *sql.Row) (*entity.Lead, error) {
	var (
		l                                  entity.Lead
		email, phone, company, role, notes sql.NullString
		status                             string
		capturedAt                         sql.NullTime
		createdAt, updatedAt               time.Time
	)

	if err := row.Scan(
		&l.ID, &l.Name, &email, &phone, &company, &role, &notes,
		&status, &capturedAt, &l.Metadata, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	l.Email = email.String
	l.Phone = phone.String
	l.Company = company.String
	l.Role = role.String
	l.Notes = notes.String
	l.Status = entity.LeadStatus(status)
	if capturedAt.Valid {
		t := capturedAt.Time
		l.CapturedAt = &t
	}
	l.CreatedAt = createdAt
	l.UpdatedAt = updatedAt
	return &l, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

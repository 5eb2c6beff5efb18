package postgrest

import (
	"time"

	"github.com/xavierca1/leadsync/internal/entity"
)

// leadRow mirrors the leads table as PostgREST serializes it. Pointer
// fields are omitted on insert so column defaults apply.
type leadRow struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Email      *string         `json:"email,omitempty"`
	Phone      *string         `json:"phone,omitempty"`
	Company    *string         `json:"company,omitempty"`
	Role       *string         `json:"role,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
	Status     string          `json:"status"`
	CapturedAt *time.Time      `json:"captured_at,omitempty"`
	MetaData   entity.Metadata `json:"meta_data"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

func toRow(l *entity.Lead) leadRow {
	meta := l.Metadata
	if meta == nil {
		meta = entity.Metadata{}
	}
	return leadRow{
		ID:         l.ID,
		Name:       l.Name,
		Email:      optional(l.Email),
		Phone:      optional(l.Phone),
		Company:    optional(l.Company),
		Role:       optional(l.Role),
		Notes:      optional(l.Notes),
		Status:     string(l.Status),
		CapturedAt: l.CapturedAt,
		MetaData:   meta,
	}
}

func (r leadRow) toEntity() *entity.Lead {
	l := &entity.Lead{
		ID:         r.ID,
		Name:       r.Name,
		Email:      deref(r.Email),
		Phone:      deref(r.Phone),
		Company:    deref(r.Company),
		Role:       deref(r.Role),
		Notes:      deref(r.Notes),
		Status:     entity.LeadStatus(r.Status),
		CapturedAt: r.CapturedAt,
		Metadata:   r.MetaData,
	}
	if r.CreatedAt != nil {
		l.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		l.UpdatedAt = *r.UpdatedAt
	}
	return l
}

type interactionRow struct {
	ID           string     `json:"id,omitempty"`
	LeadID       string     `json:"lead_id"`
	Type         string     `json:"type"`
	Summary      *string    `json:"summary,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	RecordingURL *string    `json:"recording_url,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

type statusPatch struct {
	Status string `json:"status"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

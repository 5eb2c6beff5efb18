package usecase

import (
	"time"

	"github.com/xavierca1/leadsync/internal/entity"
)

// LeadSubmission is one lead as sent by a capture agent.
type LeadSubmission struct {
	ID          string            `json:"id,omitempty"` // client-generated UUID, optional
	Name        string            `json:"name"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Company     string            `json:"company,omitempty"`
	Role        string            `json:"role,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Location    string            `json:"location,omitempty"`
	Intent      string            `json:"intent,omitempty"`
	Status      string            `json:"status,omitempty"`
	CapturedAt  *time.Time        `json:"captured_at,omitempty"`
	SocialMedia map[string]string `json:"social_media,omitempty"`
	MetaData    map[string]any    `json:"meta_data,omitempty"`
}

type SyncLeadsInput struct {
	Leads []LeadSubmission `json:"leads"`
}

type LeadRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Outcome classifies what happened to one submission during a sync.
type Outcome string

const (
	OutcomeCreated          Outcome = "created"
	OutcomeEmptyEcho        Outcome = "empty_echo"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeRejected         Outcome = "rejected"
	OutcomeTransportFailure Outcome = "transport_failure"
	OutcomeInvalid          Outcome = "invalid"
)

// CountsAsRejected reports whether the outcome is folded into the
// ignored_duplicates total of the sync response.
func (o Outcome) CountsAsRejected() bool {
	switch o {
	case OutcomeDuplicate, OutcomeRejected, OutcomeTransportFailure, OutcomeInvalid:
		return true
	default:
		return false
	}
}

type LeadResult struct {
	Index   int
	Name    string
	LeadID  string
	Outcome Outcome
	Err     error
}

type SyncLeadsOutput struct {
	Created  []LeadRef
	Rejected int
	Results  []LeadResult
}

func (o *SyncLeadsOutput) NewRecords() int { return len(o.Created) }

// EnrichmentBatch is what the gateway hands off after a sync. It carries
// the persisted leads, not only their refs, so scoring sees contact fields.
type EnrichmentBatch struct {
	ID        string        `json:"id"`
	Leads     []entity.Lead `json:"leads"`
	CreatedAt time.Time     `json:"created_at"`
}

func (b EnrichmentBatch) Refs() []LeadRef {
	refs := make([]LeadRef, 0, len(b.Leads))
	for _, l := range b.Leads {
		refs = append(refs, LeadRef{ID: l.ID, Name: l.Name})
	}
	return refs
}

type EnrichmentResult struct {
	LeadID              string
	Name                string
	Score               int
	Promoted            bool
	InteractionRecorded bool
	Err                 error
}

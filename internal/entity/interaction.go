package entity

import (
	"fmt"
	"time"
)

const InteractionTypeSync = "Sync"

// Interaction is an append-only audit row in the interactions table.
type Interaction struct {
	ID           string     `json:"id,omitempty"`
	LeadID       string     `json:"lead_id"`
	Type         string     `json:"type"`
	Summary      string     `json:"summary,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	RecordingURL string     `json:"recording_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewSyncInteraction builds the record written once per enrichment pass.
func NewSyncInteraction(leadID string, score int) *Interaction {
	return &Interaction{
		LeadID:  leadID,
		Type:    InteractionTypeSync,
		Summary: fmt.Sprintf("Lead initially captured with score: %d", score),
	}
}

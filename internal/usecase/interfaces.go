package usecase

import (
	"context"

	"github.com/xavierca1/leadsync/internal/entity"
)

// LeadStore is the leads table. Insert must be the atomic arbiter of the
// natural key: implementations never check-then-insert.
type LeadStore interface {
	// Insert persists lead and echoes back the stored row. Errors wrap
	// entity.ErrDuplicateLead, entity.ErrStoreRejected or entity.ErrEmptyEcho;
	// anything else is a transport failure.
	Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)

	// PromoteStatus sets status to `to` only while it is still `from`.
	// It reports whether a row was changed.
	PromoteStatus(ctx context.Context, id string, from, to entity.LeadStatus) (bool, error)
}

type InteractionStore interface {
	Append(ctx context.Context, in *entity.Interaction) error
}

// EnrichmentDispatcher hands a batch to the background worker. Dispatch
// must return without waiting for enrichment to run.
type EnrichmentDispatcher interface {
	Dispatch(ctx context.Context, batch EnrichmentBatch) error
}

type LeadScorer interface {
	Score(lead entity.Lead) int
	Qualifies(score int) bool
}

type Recorder interface {
	RecordIngest(outcome string)
	RecordEnrichment(result string)
	RecordPromotion()
	RecordDispatchDropped()
}

type nopRecorder struct{}

func (nopRecorder) RecordIngest(string)     {}
func (nopRecorder) RecordEnrichment(string) {}
func (nopRecorder) RecordPromotion()        {}
func (nopRecorder) RecordDispatchDropped()  {}

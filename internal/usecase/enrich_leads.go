package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/entity"
)

const (
	EnrichmentOK     = "ok"
	EnrichmentFailed = "failed"
)

type EnrichLeadsUseCase struct {
	Leads        LeadStore
	Interactions InteractionStore
	Scorer       LeadScorer
	Recorder     Recorder
	Logger       *zap.Logger
	StoreTimeout time.Duration
}

func NewEnrichLeadsUseCase(
	leads LeadStore,
	interactions InteractionStore,
	scorer LeadScorer,
	recorder Recorder,
	logger *zap.Logger,
	storeTimeout time.Duration,
) *EnrichLeadsUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &EnrichLeadsUseCase{
		Leads:        leads,
		Interactions: interactions,
		Scorer:       scorer,
		Recorder:     recorder,
		Logger:       logger,
		StoreTimeout: storeTimeout,
	}
}

// Execute scores every lead of the batch, promotes New leads that qualify,
// and appends one Sync interaction per lead. A failure on one lead is
// recorded in its result and never stops the rest. Nothing is retried.
func (uc *EnrichLeadsUseCase) Execute(ctx context.Context, batch EnrichmentBatch) []EnrichmentResult {
	results := make([]EnrichmentResult, 0, len(batch.Leads))
	for _, lead := range batch.Leads {
		res := uc.enrichOne(ctx, lead)
		if res.Err != nil {
			uc.Recorder.RecordEnrichment(EnrichmentFailed)
		} else {
			uc.Recorder.RecordEnrichment(EnrichmentOK)
		}
		results = append(results, res)
	}
	return results
}

func (uc *EnrichLeadsUseCase) enrichOne(ctx context.Context, lead entity.Lead) (res EnrichmentResult) {
	res = EnrichmentResult{LeadID: lead.ID, Name: lead.DisplayName()}
	log := uc.Logger.With(zap.String("lead", res.Name), zap.String("lead_id", lead.ID))

	defer func() {
		if r := recover(); r != nil {
			res.Err = errors.Join(res.Err, eris.Errorf("enrichment panic: %v", r))
			log.Error("enrichment panicked", zap.Any("panic", r))
		}
	}()

	res.Score = uc.Scorer.Score(lead)
	log.Info("lead scored", zap.Int("score", res.Score))

	if uc.Scorer.Qualifies(res.Score) && lead.Status == entity.StatusNew {
		promoted, err := uc.promote(ctx, lead.ID)
		switch {
		case err != nil:
			res.Err = errors.Join(res.Err, err)
			log.Error("status promotion failed", zap.Error(err))
		case promoted:
			res.Promoted = true
			uc.Recorder.RecordPromotion()
			log.Info("lead promoted", zap.String("status", string(entity.StatusQualified)))
		default:
			log.Info("lead no longer New, promotion skipped")
		}
	}

	if err := uc.appendInteraction(ctx, entity.NewSyncInteraction(lead.ID, res.Score)); err != nil {
		res.Err = errors.Join(res.Err, err)
		log.Error("audit interaction write failed", zap.Error(err))
	} else {
		res.InteractionRecorded = true
	}

	return res
}

func (uc *EnrichLeadsUseCase) promote(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.StoreTimeout)
	defer cancel()

	promoted, err := uc.Leads.PromoteStatus(ctx, id, entity.StatusNew, entity.StatusQualified)
	if err != nil {
		return false, eris.Wrap(err, "promote status")
	}
	return promoted, nil
}

func (uc *EnrichLeadsUseCase) appendInteraction(ctx context.Context, in *entity.Interaction) error {
	ctx, cancel := context.WithTimeout(ctx, uc.StoreTimeout)
	defer cancel()

	if err := uc.Interactions.Append(ctx, in); err != nil {
		return eris.Wrap(err, "append interaction")
	}
	return nil
}

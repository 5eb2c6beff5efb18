package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/entity"
)

const DefaultStoreTimeout = 10 * time.Second

type SyncLeadsUseCase struct {
	Leads        LeadStore
	Dispatcher   EnrichmentDispatcher
	Recorder     Recorder
	Logger       *zap.Logger
	StoreTimeout time.Duration
}

func NewSyncLeadsUseCase(
	leads LeadStore,
	dispatcher EnrichmentDispatcher,
	recorder Recorder,
	logger *zap.Logger,
	storeTimeout time.Duration,
) *SyncLeadsUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &SyncLeadsUseCase{
		Leads:        leads,
		Dispatcher:   dispatcher,
		Recorder:     recorder,
		Logger:       logger,
		StoreTimeout: storeTimeout,
	}
}

// Execute inserts every submission once, in order, each with its own
// outcome. Leads that were created are handed to the dispatcher as a single
// batch; that handoff never delays the returned summary. An empty batch is
// a successful no-op; only a body without a leads list is an error.
func (uc *SyncLeadsUseCase) Execute(ctx context.Context, input SyncLeadsInput) (*SyncLeadsOutput, error) {
	if input.Leads == nil {
		return nil, ErrMissingLeads
	}
	if len(input.Leads) == 0 {
		return &SyncLeadsOutput{Created: []LeadRef{}, Results: []LeadResult{}}, nil
	}

	uc.Logger.Info("sync request received", zap.Int("leads", len(input.Leads)))

	// A caller hanging up mid-batch must not abort the remaining inserts.
	ctx = context.WithoutCancel(ctx)

	out := &SyncLeadsOutput{
		Created: []LeadRef{},
		Results: make([]LeadResult, 0, len(input.Leads)),
	}
	var accepted []entity.Lead

	for i, sub := range input.Leads {
		result, saved := uc.syncOne(ctx, i, sub)
		out.Results = append(out.Results, result)
		uc.Recorder.RecordIngest(string(result.Outcome))

		switch {
		case result.Outcome == OutcomeCreated:
			out.Created = append(out.Created, LeadRef{ID: saved.ID, Name: saved.Name})
			accepted = append(accepted, *saved)
		case result.Outcome.CountsAsRejected():
			out.Rejected++
		}
	}

	if len(accepted) > 0 {
		uc.dispatch(ctx, accepted)
	}

	uc.Logger.Info("sync request finished",
		zap.Int("new_records", out.NewRecords()),
		zap.Int("ignored_duplicates", out.Rejected),
	)
	return out, nil
}

func (uc *SyncLeadsUseCase) syncOne(ctx context.Context, index int, sub LeadSubmission) (LeadResult, *entity.Lead) {
	result := LeadResult{Index: index, Name: sub.Name}
	log := uc.Logger.With(zap.Int("index", index), zap.String("lead", sub.Name), zap.String("client_id", sub.ID))

	if errs := ValidateLeadSubmission(sub); len(errs) > 0 {
		result.Outcome = OutcomeInvalid
		result.Err = joinValidationErrors(errs)
		log.Warn("lead rejected by validation", zap.Error(result.Err))
		return result, nil
	}

	lead := NormalizeLead(sub)

	insertCtx, cancel := context.WithTimeout(ctx, uc.StoreTimeout)
	defer cancel()

	saved, err := uc.Leads.Insert(insertCtx, &lead)
	result.Outcome = ClassifyInsert(saved, err)
	result.Err = err

	switch result.Outcome {
	case OutcomeCreated:
		result.LeadID = saved.ID
		log.Info("lead saved", zap.String("lead_id", saved.ID))
		return result, saved
	case OutcomeEmptyEcho:
		log.Warn("insert acknowledged but no row returned", zap.Error(err))
	case OutcomeDuplicate:
		log.Info("duplicate lead ignored", zap.Error(err))
	case OutcomeRejected:
		log.Warn("store rejected lead", zap.Error(err))
	default:
		log.Error("store unreachable while inserting lead", zap.Error(err))
	}
	return result, nil
}

func (uc *SyncLeadsUseCase) dispatch(ctx context.Context, leads []entity.Lead) {
	if uc.Dispatcher == nil {
		uc.Logger.Warn("no enrichment dispatcher configured, skipping enrichment", zap.Int("leads", len(leads)))
		return
	}

	batch := EnrichmentBatch{
		ID:        uuid.NewString(),
		Leads:     leads,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Dispatcher.Dispatch(ctx, batch); err != nil {
		uc.Recorder.RecordDispatchDropped()
		uc.Logger.Error("enrichment handoff failed",
			zap.String("batch_id", batch.ID),
			zap.Int("leads", len(leads)),
			zap.Error(err),
		)
		return
	}
	uc.Logger.Debug("enrichment batch dispatched", zap.String("batch_id", batch.ID), zap.Int("leads", len(leads)))
}

package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadsync/internal/entity"
	"github.com/xavierca1/leadsync/internal/usecase"
)

type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) Insert(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadStore) PromoteStatus(ctx context.Context, id string, from, to entity.LeadStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type MockInteractionStore struct {
	mock.Mock
}

func (m *MockInteractionStore) Append(ctx context.Context, in *entity.Interaction) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, batch usecase.EnrichmentBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// capturingDispatcher keeps batches so tests can run enrichment afterwards,
// the way a worker would.
type capturingDispatcher struct {
	mu      sync.Mutex
	batches []usecase.EnrichmentBatch
}

func (d *capturingDispatcher) Dispatch(_ context.Context, batch usecase.EnrichmentBatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batches = append(d.batches, batch)
	return nil
}

func (d *capturingDispatcher) drain() []usecase.EnrichmentBatch {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.batches
	d.batches = nil
	return out
}

type countingRecorder struct {
	mu         sync.Mutex
	ingested   map[string]int
	enrichment map[string]int
	promotions int
	dropped    int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{ingested: map[string]int{}, enrichment: map[string]int{}}
}

func (r *countingRecorder) RecordIngest(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ingested[outcome]++
}

func (r *countingRecorder) RecordEnrichment(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enrichment[result]++
}

func (r *countingRecorder) RecordPromotion() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promotions++
}

func (r *countingRecorder) RecordDispatchDropped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped++
}

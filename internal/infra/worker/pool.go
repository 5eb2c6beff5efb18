package worker

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/usecase"
)

var (
	ErrQueueFull  = eris.New("enrichment queue is full")
	ErrPoolClosed = eris.New("enrichment pool is closed")
)

// Enricher runs the enrichment of one batch to completion.
type Enricher interface {
	Execute(ctx context.Context, batch usecase.EnrichmentBatch) []usecase.EnrichmentResult
}

// Pool is the in-process enrichment dispatcher. Batches wait in a bounded
// queue; when it is full Dispatch refuses the new batch instead of blocking
// the request that produced it.
type Pool struct {
	enricher Enricher
	workers  int
	queue    chan usecase.EnrichmentBatch
	logger   *zap.Logger

	mu     sync.RWMutex
	closed bool
}

func NewPool(enricher Enricher, workers, queueSize int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		enricher: enricher,
		workers:  workers,
		queue:    make(chan usecase.EnrichmentBatch, queueSize),
		logger:   logger,
	}
}

func (p *Pool) Dispatch(_ context.Context, batch usecase.EnrichmentBatch) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- batch:
		return nil
	default:
		return eris.Wrapf(ErrQueueFull, "batch %s", batch.ID)
	}
}

// Start runs the workers and blocks until ctx is cancelled and every batch
// already queued has been processed.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("enrichment pool started", zap.Int("workers", p.workers), zap.Int("queue_size", cap(p.queue)))

	// Queued batches still finish after shutdown begins.
	workCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for batch := range p.queue {
				p.process(workCtx, id, batch)
			}
		}(i)
	}

	<-ctx.Done()
	p.close()
	wg.Wait()

	p.logger.Info("enrichment pool stopped")
}

// Pending reports how many batches are waiting for a worker.
func (p *Pool) Pending() int {
	return len(p.queue)
}

func (p *Pool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.queue)
	}
}

func (p *Pool) process(ctx context.Context, workerID int, batch usecase.EnrichmentBatch) {
	log := p.logger.With(zap.Int("worker", workerID), zap.String("batch_id", batch.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("enrichment batch panicked", zap.Any("panic", r))
		}
	}()

	results := p.enricher.Execute(ctx, batch)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	log.Info("enrichment batch processed", zap.Int("leads", len(results)), zap.Int("failed", failed))
}

package queue

import (
	"context"
	"encoding/json"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/usecase"
)

type Enricher interface {
	Execute(ctx context.Context, batch usecase.EnrichmentBatch) []usecase.EnrichmentResult
}

type DeliverySource interface {
	Consume(queue, consumer string) (<-chan amqp.Delivery, error)
}

// Consumer drains the enrichment queue. Every well-formed batch is acked
// once processed, whatever its per-lead results; malformed bodies go to
// the dead-letter queue.
type Consumer struct {
	source   DeliverySource
	enricher Enricher
	workers  int
	logger   *zap.Logger
}

func NewConsumer(source DeliverySource, enricher Enricher, workers int, logger *zap.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{source: source, enricher: enricher, workers: workers, logger: logger}
}

// Start blocks until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Start(ctx context.Context, queueName string) error {
	msgs, err := c.source.Consume(queueName, "leadsync-enrichment")
	if err != nil {
		return eris.Wrapf(err, "queue: consume %s", queueName)
	}

	c.logger.Info("enrichment consumer started", zap.String("queue", queueName), zap.Int("workers", c.workers))

	workCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-msgs:
					if !ok {
						return
					}
					c.handleDelivery(workCtx, d)
				}
			}
		}()
	}
	wg.Wait()

	c.logger.Info("enrichment consumer stopped", zap.String("queue", queueName))
	return nil
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	log := c.logger.With(zap.String("message_id", d.MessageId))

	var batch usecase.EnrichmentBatch
	if err := json.Unmarshal(d.Body, &batch); err != nil {
		log.Error("malformed enrichment message, dead-lettering", zap.Error(err))
		if err := d.Nack(false, false); err != nil {
			log.Error("nack failed", zap.Error(err))
		}
		return
	}

	log = log.With(zap.String("batch_id", batch.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("enrichment batch panicked", zap.Any("panic", r))
			_ = d.Nack(false, false)
		}
	}()

	results := c.enricher.Execute(ctx, batch)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	log.Info("enrichment batch processed", zap.Int("leads", len(results)), zap.Int("failed", failed))

	if err := d.Ack(false); err != nil {
		log.Error("ack failed", zap.Error(err))
	}
}

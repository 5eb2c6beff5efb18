package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/usecase"
)

var ErrQueueFull = eris.New("enrichment queue refused the batch")

// Confirmation is the broker's answer to one publish. *amqp.DeferredConfirmation
// satisfies it.
type Confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, msg amqp.Publishing) (Confirmation, error)
}

// Producer is the broker-backed enrichment dispatcher. Publisher confirms
// are awaited in the background so the sync response never waits on the
// broker's ack.
type Producer struct {
	publisher  Publisher
	timeout    time.Duration
	logger     *zap.Logger
	onRejected func(batchID string)

	pending sync.WaitGroup
}

// NewProducer builds a Producer. onRejected, when set, is called once for
// every batch the broker nacks or never confirms.
func NewProducer(publisher Publisher, timeout time.Duration, logger *zap.Logger, onRejected func(batchID string)) *Producer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{publisher: publisher, timeout: timeout, logger: logger, onRejected: onRejected}
}

// Dispatch publishes the batch as one persistent message. Only a failed
// publish is reported to the caller; a broker nack means the queue is at
// its length limit and surfaces through onRejected.
func (p *Producer) Dispatch(ctx context.Context, batch usecase.EnrichmentBatch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return eris.Wrap(err, "queue: marshal batch")
	}

	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conf, err := p.publisher.Publish(pubCtx, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    batch.ID,
		Timestamp:    batch.CreatedAt,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return eris.Wrapf(err, "queue: publish batch %s", batch.ID)
	}
	if conf == nil {
		return nil
	}

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		p.awaitConfirm(batch.ID, conf)
	}()
	return nil
}

// Wait blocks until every outstanding confirm has resolved or timed out.
func (p *Producer) Wait() {
	p.pending.Wait()
}

func (p *Producer) awaitConfirm(batchID string, conf Confirmation) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	acked, err := conf.WaitContext(ctx)
	if err == nil && acked {
		return
	}
	if err == nil {
		err = ErrQueueFull
	}

	p.logger.Warn("enrichment batch not confirmed", zap.String("batch_id", batchID), zap.Error(err))
	if p.onRejected != nil {
		p.onRejected(batchID)
	}
}

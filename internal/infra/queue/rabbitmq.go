package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
)

const (
	ExchangeName = "ex.leads"
	QueueName    = "q.lead-enrichment"
	DLQName      = "q.lead-enrichment.dlq"
	DLXName      = "ex.leads.dlx"
	RoutingKey   = "k.enrichment"
)

// RabbitMQ holds one connection and one channel in confirm mode. The
// enrichment queue is bounded and refuses publishes once full.
type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewRabbitMQ(url string, maxLength, prefetch int) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, eris.Wrap(err, "rabbitmq: dial")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "rabbitmq: open channel")
	}

	if err := setupTopology(ch, maxLength); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			_ = conn.Close()
			return nil, eris.Wrap(err, "rabbitmq: set qos")
		}
	}

	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "rabbitmq: enable confirms")
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

func queueArgs(maxLength int) amqp.Table {
	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}
	if maxLength > 0 {
		args["x-max-length"] = int64(maxLength)
		args["x-overflow"] = "reject-publish"
	}
	return args
}

func setupTopology(ch *amqp.Channel, maxLength int) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: declare dlx")
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: declare dlq")
	}
	if err := ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: bind dlq")
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: declare exchange")
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, queueArgs(maxLength)); err != nil {
		return eris.Wrap(err, "rabbitmq: declare queue")
	}
	if err := ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: bind queue")
	}
	return nil
}

// Publish sends msg to the enrichment exchange. The returned Confirmation is
// nil when the channel is not in confirm mode.
func (r *RabbitMQ) Publish(ctx context.Context, msg amqp.Publishing) (Confirmation, error) {
	conf, err := r.Ch.PublishWithDeferredConfirmWithContext(ctx, ExchangeName, RoutingKey, false, false, msg)
	if err != nil {
		return nil, err
	}
	if conf == nil {
		return nil, nil
	}
	return conf, nil
}

func (r *RabbitMQ) Consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	return r.Ch.Consume(queue, consumer, false, false, false, false, nil)
}

func (r *RabbitMQ) IsClosed() bool {
	return r.Conn == nil || r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r.Ch != nil {
		_ = r.Ch.Close()
	}
	if r.Conn != nil && !r.Conn.IsClosed() {
		return r.Conn.Close()
	}
	return nil
}

package broker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"showcase-service/internal/infra/eventstore"
	"showcase-service/internal/pkg/config"
	"showcase-service/internal/pkg/errs"
)

const (
	prefetchCount = 50
	maxBackoff    = 30 * time.Second
)

// Handler processes one envelope. A nil return acks the delivery; an error
// nacks it back onto the queue for redelivery, so handlers must be
// idempotent.
type Handler func(ctx context.Context, env eventstore.Envelope) error

// Consumer binds a durable queue to the fanout exchange and feeds each
// delivery to the handler with manual acks. Run keeps a reconnect loop with
// exponential backoff until the context is cancelled.
type Consumer struct {
	cfg    config.BrokerConfig
	queue  string
	logger *slog.Logger
}

func NewConsumer(cfg config.BrokerConfig, queue string, logger *slog.Logger) *Consumer {
	return &Consumer{
		cfg:    cfg,
		queue:  queue,
		logger: logger.With("component", "broker-consumer", "queue", queue),
	}
}

func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := amqp.Dial(c.cfg.URL)
		if err != nil {
			c.logger.Warn("broker dial failed, retrying", "error", err, "backoff", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn, handler)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("consume loop ended, reconnecting", "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection, handler Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return errs.Wrap(err, "failed to open channel")
	}
	defer func() { _ = ch.Close() }()

	if err := declareExchange(ch, c.cfg.Exchange); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return errs.Wrap(err, "failed to declare queue")
	}
	if err := ch.QueueBind(c.queue, "", c.cfg.Exchange, false, nil); err != nil {
		return errs.Wrap(err, "failed to bind queue")
	}
	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		return errs.Wrap(err, "failed to set QoS")
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return errs.Wrap(err, "failed to start consuming")
	}

	// Dropping the connection ends the deliveries range below, which is the
	// only way to unblock it on shutdown. The watcher is released when this
	// loop returns so reconnects do not stack goroutines.
	stopWatcher := closeOnDone(ctx, conn)
	defer stopWatcher()

	for d := range deliveries {
		var env eventstore.Envelope
		if err := json.Unmarshal(d.Body, &env); err != nil {
			c.logger.Error("dropping malformed message", "message_id", d.MessageId, "error", err)
			_ = d.Nack(false, false)
			continue
		}
		if err := handler(ctx, env); err != nil {
			c.logger.Warn("handler failed, requeueing", "message_id", d.MessageId, "error", err)
			_ = d.Nack(false, true)
			continue
		}
		_ = d.Ack(false)
	}
	return errs.New("deliveries channel closed")
}

// closeOnDone closes c when ctx ends. The returned stop func releases the
// watcher without closing when the caller finishes first.
func closeOnDone(ctx context.Context, c io.Closer) (stop func()) {
	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-finished:
		}
	}()
	return func() { close(finished) }
}

// Package broker publishes and consumes showcase event envelopes over
// RabbitMQ. Events are fanned out to a durable exchange so the saga
// orchestrator and the read-model projector each receive every event on
// their own durable queue.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"showcase-service/internal/infra/eventstore"
	"showcase-service/internal/pkg/config"
	"showcase-service/internal/pkg/errs"
)

// Publisher publishes envelopes to the fanout exchange. The connection is
// dialed lazily on first publish and redialed after a failure, so a broker
// restart costs one failed publish rather than a wedged process.
type Publisher struct {
	cfg    config.BrokerConfig
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(cfg config.BrokerConfig, logger *slog.Logger) *Publisher {
	return &Publisher{
		cfg:    cfg,
		logger: logger.With("component", "broker-publisher"),
	}
}

func (p *Publisher) Publish(ctx context.Context, env eventstore.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return errs.Wrap(err, "failed to marshal envelope")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		p.cfg.Exchange,
		"", // fanout ignores the routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    fmt.Sprintf("%s:%d", env.StreamID, env.Version),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return errs.Wrap(err, "failed to publish envelope")
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// channel returns a live channel, dialing and declaring the exchange as
// needed. Caller holds p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return nil, errs.Wrap(err, "failed to dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open channel")
	}
	if err := declareExchange(ch, p.cfg.Exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.conn = conn
	p.ch = ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func declareExchange(ch *amqp.Channel, name string) error {
	err := ch.ExchangeDeclare(
		name,
		"fanout",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		return errs.Wrap(err, "failed to declare exchange")
	}
	return nil
}

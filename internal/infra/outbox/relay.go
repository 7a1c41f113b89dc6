// Package outbox drains staged event messages to the broker. Rows are
// written in the same transaction as the event append, so the relay is the
// only component that talks to the broker on the write path and a broker
// outage never loses an event, it only delays delivery.
package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"showcase-service/internal/infra"
	"showcase-service/internal/infra/eventstore"
	"showcase-service/internal/pkg/config"
)

type Publisher interface {
	Publish(ctx context.Context, env eventstore.Envelope) error
}

// Relay polls outbox_messages and publishes unpublished rows in id order.
// FOR UPDATE SKIP LOCKED lets multiple instances run without double
// publishing a batch; delivery downstream is at least once regardless.
type Relay struct {
	pool      *pgxpool.Pool
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewRelay(pool *pgxpool.Pool, publisher Publisher, cfg config.BrokerConfig, logger *slog.Logger) *Relay {
	return &Relay{
		pool:      pool,
		publisher: publisher,
		interval:  cfg.RelayInterval,
		batchSize: cfg.RelayBatchSize,
		logger:    logger.With("component", "outbox-relay"),
	}
}

// Run drains batches on a fixed interval until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := r.drainBatch(ctx); err != nil {
				r.logger.Warn("outbox drain failed", "error", err)
			} else if n > 0 {
				r.logger.Debug("outbox batch published", "count", n)
			}
		}
	}
}

func (r *Relay) drainBatch(ctx context.Context) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to begin outbox transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const selectPending = `
SELECT id, stream_id, version, event_type, payload, occurred_at
FROM outbox_messages
WHERE published_at IS NULL
ORDER BY id
LIMIT $1
FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, selectPending, r.batchSize)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to select outbox batch", err)
	}

	type message struct {
		id  int64
		env eventstore.Envelope
	}
	var batch []message
	for rows.Next() {
		var (
			m       message
			payload []byte
		)
		if err := rows.Scan(&m.id, &m.env.StreamID, &m.env.Version, &m.env.Type, &payload, &m.env.OccurredAt); err != nil {
			rows.Close()
			return 0, infra.WrapRepoErr("failed to scan outbox row", err)
		}
		m.env.Payload = json.RawMessage(payload)
		batch = append(batch, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, infra.WrapRepoErr("failed to read outbox batch", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	const markPublished = `UPDATE outbox_messages SET published_at = now() WHERE id = ANY($1)`

	published := make([]int64, 0, len(batch))
	for _, m := range batch {
		if err := r.publisher.Publish(ctx, m.env); err != nil {
			// Stop at the first failure to keep per-stream order; the rest of
			// the batch stays pending for the next tick.
			r.logger.Warn("publish failed, leaving message pending",
				"outbox_id", m.id, "stream_id", m.env.StreamID, "error", err)
			break
		}
		published = append(published, m.id)
	}
	if len(published) == 0 {
		return 0, nil
	}

	if _, err := tx.Exec(ctx, markPublished, published); err != nil {
		return 0, infra.WrapRepoErr("failed to mark outbox messages published", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, infra.WrapRepoErr("failed to commit outbox batch", err)
	}
	return len(published), nil
}

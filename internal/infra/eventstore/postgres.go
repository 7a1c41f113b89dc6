package eventstore

import (
	"context"
	"errors"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgErrCodeUniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Append appends events to the stream at expectedVersion and stages matching
// outbox rows in the same transaction, so nothing can be published that was
// not durably appended. A version collision surfaces as KindConflict.
func (s *Store) Append(ctx context.Context, streamID uuid.UUID, events []showcase.Event, expectedVersion int64) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin append transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertEvent = `
INSERT INTO showcase_events (stream_id, version, event_type, payload, occurred_at)
VALUES ($1, $2, $3, $4, $5)`

	const insertOutbox = `
INSERT INTO outbox_messages (stream_id, version, event_type, payload, occurred_at)
VALUES ($1, $2, $3, $4, $5)`

	for i, ev := range events {
		env, encErr := Encode(ev, expectedVersion+int64(i)+1)
		if encErr != nil {
			return infra.WrapRepoErr("failed to encode event", encErr)
		}
		if _, err = tx.Exec(ctx, insertEvent,
			env.StreamID, env.Version, env.Type, env.Payload, env.OccurredAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
				return infra.WrapRepoErr("stream version conflict", err, infra.KindConflict)
			}
			return infra.WrapRepoErr("failed to append event", err)
		}
		if _, err = tx.Exec(ctx, insertOutbox,
			env.StreamID, env.Version, env.Type, env.Payload, env.OccurredAt,
		); err != nil {
			return infra.WrapRepoErr("failed to stage outbox message", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit append transaction", err)
	}
	return nil
}

// Load returns the stream's events in append order. A missing stream is an
// empty slice, not an error; the caller decides whether absence matters.
func (s *Store) Load(ctx context.Context, streamID uuid.UUID) ([]showcase.Event, error) {
	const query = `
SELECT stream_id, version, event_type, payload, occurred_at
FROM showcase_events
WHERE stream_id = $1
ORDER BY version`

	rows, err := s.pool.Query(ctx, query, streamID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load event stream", err)
	}
	defer rows.Close()

	var events []showcase.Event
	for rows.Next() {
		var env Envelope
		if err := rows.Scan(&env.StreamID, &env.Version, &env.Type, &env.Payload, &env.OccurredAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan event row", err)
		}
		ev, decErr := env.Event()
		if decErr != nil {
			return nil, infra.WrapRepoErr("failed to decode stored event", decErr)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate event rows", err)
	}
	return events, nil
}

package sagastore

import (
	"context"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/saga"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists one orchestrator state row per live saga. The row is the
// saga's durable form; it is created on Scheduled and deleted when the saga
// completes.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*saga.State, error) {
	const query = `
SELECT showcase_id, tracked_status, pending_start_deadline_id, pending_finish_deadline_id
FROM saga_states
WHERE showcase_id = $1`

	var st saga.State
	var status string
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&st.ShowcaseID, &status, &st.PendingStartDeadlineID, &st.PendingFinishDeadlineID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("saga state not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get saga state", err)
	}
	st.TrackedStatus = showcase.Status(status)
	return &st, nil
}

func (s *Store) Save(ctx context.Context, st *saga.State) error {
	const stmt = `
INSERT INTO saga_states (showcase_id, tracked_status, pending_start_deadline_id, pending_finish_deadline_id, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (showcase_id) DO UPDATE
SET tracked_status = EXCLUDED.tracked_status,
    pending_start_deadline_id = EXCLUDED.pending_start_deadline_id,
    pending_finish_deadline_id = EXCLUDED.pending_finish_deadline_id,
    updated_at = now()`

	_, err := s.pool.Exec(ctx, stmt,
		st.ShowcaseID, st.TrackedStatus.String(), st.PendingStartDeadlineID, st.PendingFinishDeadlineID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save saga state", err)
	}
	return nil
}

// Delete ends the saga; deleting an already-ended saga is a no-op.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	const stmt = `DELETE FROM saga_states WHERE showcase_id = $1`

	if _, err := s.pool.Exec(ctx, stmt, id); err != nil {
		return infra.WrapRepoErr("failed to delete saga state", err)
	}
	return nil
}

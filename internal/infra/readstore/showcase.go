package readstore

import (
	"context"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ShowcaseReadStore holds the projected showcase documents. Writes are
// guarded conditional statements so duplicate or reordered deliveries cannot
// corrupt a record; rows-affected checks surface the guard outcome to the
// projector as typed kinds.
type ShowcaseReadStore struct {
	pool *pgxpool.Pool
}

func NewShowcaseReadStore(pool *pgxpool.Pool) *ShowcaseReadStore {
	return &ShowcaseReadStore{pool: pool}
}

const selectColumns = `
showcase_id, title, start_time, duration_seconds, status, scheduled_at, started_at, finished_at`

func (r *ShowcaseReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ShowcaseView, error) {
	const query = `SELECT ` + selectColumns + ` FROM showcase_views WHERE showcase_id = $1`

	view, err := scanView(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("showcase view not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get showcase view", err)
	}
	return view, nil
}

func (r *ShowcaseReadStore) FindFirstPage(ctx context.Context, filters queries.ShowcaseFilters, limit int32) ([]*queries.ShowcaseView, error) {
	const query = `
SELECT ` + selectColumns + `
FROM showcase_views
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
  AND (cardinality($2::text[]) = 0 OR status = ANY($2))
ORDER BY scheduled_at DESC, showcase_id DESC
LIMIT $3`

	rows, err := r.pool.Query(ctx, query, filters.TitleContains, statusStrings(filters.Statuses), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list showcase views", err)
	}
	defer rows.Close()
	return collectViews(rows)
}

func (r *ShowcaseReadStore) FindKeyset(ctx context.Context, filters queries.ShowcaseFilters, lastScheduledAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ShowcaseView, error) {
	const query = `
SELECT ` + selectColumns + `
FROM showcase_views
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
  AND (cardinality($2::text[]) = 0 OR status = ANY($2))
  AND (scheduled_at, showcase_id) < ($3, $4)
ORDER BY scheduled_at DESC, showcase_id DESC
LIMIT $5`

	rows, err := r.pool.Query(ctx, query, filters.TitleContains, statusStrings(filters.Statuses), lastScheduledAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list showcase views after cursor", err)
	}
	defer rows.Close()
	return collectViews(rows)
}

// Insert creates the record only if absent; an existing row is reported as
// KindDuplicateKey so the projector can treat redelivery as success.
func (r *ShowcaseReadStore) Insert(ctx context.Context, view *queries.ShowcaseView) error {
	const stmt = `
INSERT INTO showcase_views (showcase_id, title, start_time, duration_seconds, status, scheduled_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (showcase_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, stmt,
		view.ShowcaseID, view.Title, view.StartTime,
		int64(view.Duration/time.Second), view.Status.String(), view.ScheduledAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert showcase view", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("showcase view already exists", nil, infra.KindDuplicateKey)
	}
	return nil
}

// SetStarted applies only to a SCHEDULED record; anything else reports
// KindConflict and leaves the row untouched.
func (r *ShowcaseReadStore) SetStarted(ctx context.Context, id uuid.UUID, startedAt time.Time, duration time.Duration) error {
	const stmt = `
UPDATE showcase_views
SET status = $2, started_at = $3, duration_seconds = $4, updated_at = now()
WHERE showcase_id = $1 AND status = $5`

	tag, err := r.pool.Exec(ctx, stmt,
		id, showcase.StatusStarted.String(), startedAt,
		int64(duration/time.Second), showcase.StatusScheduled.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark showcase view started", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("showcase view missing or not scheduled", nil, infra.KindConflict)
	}
	return nil
}

func (r *ShowcaseReadStore) SetFinished(ctx context.Context, id uuid.UUID, finishedAt time.Time) error {
	const stmt = `
UPDATE showcase_views
SET status = $2, finished_at = $3, updated_at = now()
WHERE showcase_id = $1 AND status = $4`

	tag, err := r.pool.Exec(ctx, stmt,
		id, showcase.StatusFinished.String(), finishedAt, showcase.StatusStarted.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark showcase view finished", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("showcase view missing or not started", nil, infra.KindConflict)
	}
	return nil
}

func (r *ShowcaseReadStore) Delete(ctx context.Context, id uuid.UUID) error {
	const stmt = `DELETE FROM showcase_views WHERE showcase_id = $1`

	tag, err := r.pool.Exec(ctx, stmt, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete showcase view", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("showcase view not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanView(row pgx.Row) (*queries.ShowcaseView, error) {
	var view queries.ShowcaseView
	var durationSeconds int64
	var status string
	if err := row.Scan(
		&view.ShowcaseID, &view.Title, &view.StartTime, &durationSeconds,
		&status, &view.ScheduledAt, &view.StartedAt, &view.FinishedAt,
	); err != nil {
		return nil, err
	}
	view.Duration = time.Duration(durationSeconds) * time.Second
	view.Status = showcase.Status(status)
	return &view, nil
}

func collectViews(rows pgx.Rows) ([]*queries.ShowcaseView, error) {
	var views []*queries.ShowcaseView
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan showcase view row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate showcase view rows", err)
	}
	return views, nil
}

func statusStrings(statuses []showcase.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

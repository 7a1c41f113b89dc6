package queries

import (
	"context"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrShowcaseNotFound = errs.New("showcase not found")
	ErrInvalidCursor    = errs.New("invalid pagination cursor")
)

// ShowcaseView is the denormalized read-model record. It lags the write
// model and is deleted entirely when the showcase is removed.
type ShowcaseView struct {
	ShowcaseID  uuid.UUID       `json:"showcase_id"`
	Title       string          `json:"title"`
	StartTime   time.Time       `json:"start_time"`
	Duration    time.Duration   `json:"duration"`
	Status      showcase.Status `json:"status"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
}

type ShowcaseFilters struct {
	TitleContains string
	Statuses      []showcase.Status
}

type ShowcaseReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ShowcaseView, error)
	FindFirstPage(ctx context.Context, filters ShowcaseFilters, limit int32) ([]*ShowcaseView, error)
	FindKeyset(ctx context.Context, filters ShowcaseFilters, lastScheduledAt time.Time, lastID uuid.UUID, limit int32) ([]*ShowcaseView, error)
}

type ShowcaseQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ShowcaseView, error)
	List(ctx context.Context, filters ShowcaseFilters, cursor *Cursor, limit int) ([]*ShowcaseView, *Cursor, error)
}

type showcaseQueriesImpl struct {
	repo ShowcaseReadStore
}

func NewShowcaseQueries(repo ShowcaseReadStore) ShowcaseQueries {
	return &showcaseQueriesImpl{repo: repo}
}

func (q *showcaseQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ShowcaseView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrShowcaseNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *showcaseQueriesImpl) List(ctx context.Context, filters ShowcaseFilters, cursor *Cursor, limit int) ([]*ShowcaseView, *Cursor, error) {
	limit = ValidateLimit(limit)

	var rows []*ShowcaseView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindFirstPage(ctx, filters, int32(limit+1))
	} else {
		lastScheduledAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindKeyset(ctx, filters, lastScheduledAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.ScheduledAt, last.ShowcaseID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

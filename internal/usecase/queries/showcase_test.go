//go:build unit

package queries_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReadStore serves pages in (scheduled_at, showcase_id) descending order
// like the Postgres keyset queries.
type fakeReadStore struct {
	views []*queries.ShowcaseView
}

func (f *fakeReadStore) sorted() []*queries.ShowcaseView {
	out := append([]*queries.ShowcaseView(nil), f.views...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ShowcaseID.String() > out[j].ShowcaseID.String()
	})
	return out
}

func (f *fakeReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ShowcaseView, error) {
	for _, v := range f.views {
		if v.ShowcaseID == id {
			return v, nil
		}
	}
	return nil, infra.WrapRepoErr("view not found", assert.AnError, infra.KindNotFound)
}

func (f *fakeReadStore) FindFirstPage(_ context.Context, _ queries.ShowcaseFilters, limit int32) ([]*queries.ShowcaseView, error) {
	rows := f.sorted()
	if int32(len(rows)) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeReadStore) FindKeyset(_ context.Context, _ queries.ShowcaseFilters, lastScheduledAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ShowcaseView, error) {
	var rows []*queries.ShowcaseView
	for _, v := range f.sorted() {
		if v.ScheduledAt.After(lastScheduledAt) {
			continue
		}
		if v.ScheduledAt.Equal(lastScheduledAt) && v.ShowcaseID.String() >= lastID.String() {
			continue
		}
		rows = append(rows, v)
		if int32(len(rows)) == limit {
			break
		}
	}
	return rows, nil
}

func makeViews(n int) []*queries.ShowcaseView {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	views := make([]*queries.ShowcaseView, 0, n)
	for i := 0; i < n; i++ {
		views = append(views, &queries.ShowcaseView{
			ShowcaseID:  uuid.New(),
			Title:       "Showcase",
			StartTime:   base.Add(time.Duration(i) * time.Hour),
			Duration:    time.Hour,
			Status:      showcase.StatusScheduled,
			ScheduledAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return views
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("existing view returned", func(t *testing.T) {
		views := makeViews(1)
		q := queries.NewShowcaseQueries(&fakeReadStore{views: views})

		got, err := q.GetByID(ctx, views[0].ShowcaseID)
		require.NoError(t, err)
		assert.Equal(t, views[0], got)
	})

	t.Run("missing view maps to not found", func(t *testing.T) {
		q := queries.NewShowcaseQueries(&fakeReadStore{})

		_, err := q.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, queries.ErrShowcaseNotFound)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("single page has no next cursor", func(t *testing.T) {
		q := queries.NewShowcaseQueries(&fakeReadStore{views: makeViews(5)})

		items, next, err := q.List(ctx, queries.ShowcaseFilters{}, nil, 10)
		require.NoError(t, err)
		assert.Len(t, items, 5)
		assert.Nil(t, next)
	})

	t.Run("pages walk the whole set without overlap", func(t *testing.T) {
		views := makeViews(7)
		q := queries.NewShowcaseQueries(&fakeReadStore{views: views})

		seen := map[uuid.UUID]bool{}
		var cursor *queries.Cursor
		pages := 0
		for {
			items, next, err := q.List(ctx, queries.ShowcaseFilters{}, cursor, 3)
			require.NoError(t, err)
			for _, v := range items {
				require.False(t, seen[v.ShowcaseID], "page overlap")
				seen[v.ShowcaseID] = true
			}
			pages++
			if next == nil {
				break
			}
			cursor = next
		}
		assert.Equal(t, 3, pages)
		assert.Len(t, seen, 7)
	})

	t.Run("descending order by scheduled time", func(t *testing.T) {
		q := queries.NewShowcaseQueries(&fakeReadStore{views: makeViews(4)})

		items, _, err := q.List(ctx, queries.ShowcaseFilters{}, nil, 10)
		require.NoError(t, err)
		for i := 1; i < len(items); i++ {
			assert.False(t, items[i].ScheduledAt.After(items[i-1].ScheduledAt))
		}
	})

	t.Run("invalid cursor rejected", func(t *testing.T) {
		q := queries.NewShowcaseQueries(&fakeReadStore{views: makeViews(2)})

		_, _, err := q.List(ctx, queries.ShowcaseFilters{}, &queries.Cursor{After: "not-base64!!"}, 10)
		require.ErrorIs(t, err, queries.ErrInvalidCursor)
	})

	t.Run("limit clamped", func(t *testing.T) {
		q := queries.NewShowcaseQueries(&fakeReadStore{views: makeViews(3)})

		items, _, err := q.List(ctx, queries.ShowcaseFilters{}, nil, -5)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 34, 56, 789000, time.UTC)
	id := uuid.New()

	encoded := queries.EncodeAfterCursor(at, id)
	gotAt, gotID, err := queries.DecodeAfterCursor(encoded)
	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, id, gotID)

	t.Run("unsupported version rejected", func(t *testing.T) {
		_, _, err := queries.DecodeAfterCursor("djI6MTIzLWFiYw==") // "v2:123-abc"
		require.Error(t, err)
	})
}

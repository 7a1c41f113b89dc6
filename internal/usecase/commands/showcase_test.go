//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/pkg/clock"
	"showcase-service/internal/pkg/keylock"
	"showcase-service/internal/usecase/commands"
	"showcase-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventStore is an in-memory journal with real optimistic concurrency,
// so version-conflict paths behave as they would against Postgres.
type fakeEventStore struct {
	mu        sync.Mutex
	streams   map[uuid.UUID][]showcase.Event
	appendErr error
	loadErr   error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{streams: make(map[uuid.UUID][]showcase.Event)}
}

func (f *fakeEventStore) Append(_ context.Context, streamID uuid.UUID, events []showcase.Event, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	if int64(len(f.streams[streamID])) != expectedVersion {
		return infra.WrapRepoErr("version collision", assert.AnError, infra.KindConflict)
	}
	f.streams[streamID] = append(f.streams[streamID], events...)
	return nil
}

func (f *fakeEventStore) Load(_ context.Context, streamID uuid.UUID) ([]showcase.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]showcase.Event(nil), f.streams[streamID]...), nil
}

type fakeTitleStore struct {
	mu         sync.Mutex
	reserved   map[string]bool
	reserveErr error
	releaseErr error
	released   []string
}

func newFakeTitleStore() *fakeTitleStore {
	return &fakeTitleStore{reserved: make(map[string]bool)}
}

func (f *fakeTitleStore) Reserve(_ context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return f.reserveErr
	}
	if f.reserved[title] {
		return infra.WrapRepoErr("title taken", assert.AnError, infra.KindDuplicateKey)
	}
	f.reserved[title] = true
	return nil
}

func (f *fakeTitleStore) Release(_ context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return f.releaseErr
	}
	delete(f.reserved, title)
	f.released = append(f.released, title)
	return nil
}

type fixture struct {
	store  *fakeEventStore
	titles *fakeTitleStore
	clk    *clock.MockClock
	cmds   commands.ShowcaseCommands
}

func newFixture() *fixture {
	store := newFakeEventStore()
	titles := newFakeTitleStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	cmds := commands.NewShowcaseCommands(store, titles, keylock.New(), clk, slog.Default())
	return &fixture{store: store, titles: titles, clk: clk, cmds: cmds}
}

func TestScheduleCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("success reserves title and appends event", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()

		require.NoError(t, f.cmds.Schedule(ctx, cmd))

		assert.True(t, f.titles.reserved[cmd.Title])
		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		require.Len(t, events, 1)
	})

	t.Run("identical retry succeeds without a second event", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()

		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		require.NoError(t, f.cmds.Schedule(ctx, cmd))

		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("reschedule with different parameters rejected", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))

		cmd.Title = "Different Title"
		err := f.cmds.Schedule(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrIllegalState)
	})

	t.Run("validation failure maps to invalid command with field detail", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().WithTitle("").BuildScheduleCommand()

		err := f.cmds.Schedule(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrInvalidCommand)

		var ve showcase.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Fields, "title")
		assert.Empty(t, f.titles.reserved)
	})

	t.Run("taken title maps to title in use", func(t *testing.T) {
		f := newFixture()
		first := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, first))

		second := builder.NewShowcaseBuilder().WithTitle(first.Title).BuildScheduleCommand()
		err := f.cmds.Schedule(ctx, second)
		require.ErrorIs(t, err, commands.ErrTitleInUse)

		events, loadErr := f.store.Load(ctx, second.ShowcaseID)
		require.NoError(t, loadErr)
		assert.Empty(t, events)
	})

	t.Run("append failure rolls back the title reservation", func(t *testing.T) {
		f := newFixture()
		f.store.appendErr = infra.WrapRepoErr("db down", assert.AnError)
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()

		err := f.cmds.Schedule(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrStoreFailure)
		assert.False(t, f.titles.reserved[cmd.Title])
		assert.Contains(t, f.titles.released, cmd.Title)
	})

	t.Run("load failure maps to store failure", func(t *testing.T) {
		f := newFixture()
		f.store.loadErr = infra.WrapRepoErr("db down", assert.AnError)
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()

		require.ErrorIs(t, f.cmds.Schedule(ctx, cmd), commands.ErrStoreFailure)
	})
}

func TestStartCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("scheduled showcase starts", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))

		require.NoError(t, f.cmds.Start(ctx, cmd.ShowcaseID))

		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		require.Len(t, events, 2)
		started, ok := events[1].(showcase.Started)
		require.True(t, ok)
		assert.Equal(t, cmd.Duration, started.Duration)
	})

	t.Run("unknown showcase not found", func(t *testing.T) {
		f := newFixture()
		require.ErrorIs(t, f.cmds.Start(ctx, uuid.New()), commands.ErrShowcaseNotFound)
	})

	t.Run("duplicate start appends nothing and succeeds", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		require.NoError(t, f.cmds.Start(ctx, cmd.ShowcaseID))

		require.NoError(t, f.cmds.Start(ctx, cmd.ShowcaseID))
		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("version collision maps to concurrency conflict", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		f.store.appendErr = infra.WrapRepoErr("version collision", assert.AnError, infra.KindConflict)

		require.ErrorIs(t, f.cmds.Start(ctx, cmd.ShowcaseID), commands.ErrConcurrencyConflict)
	})

	t.Run("finished showcase maps to illegal state", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		require.NoError(t, f.cmds.Start(ctx, cmd.ShowcaseID))
		require.NoError(t, f.cmds.Finish(ctx, cmd.ShowcaseID))

		err := f.cmds.Start(ctx, cmd.ShowcaseID)
		require.ErrorIs(t, err, commands.ErrIllegalState)
		require.ErrorIs(t, err, showcase.ErrAlreadyFinished)
	})
}

func TestFinishCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("started showcase finishes", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		require.NoError(t, f.cmds.Start(ctx, cmd.ShowcaseID))

		require.NoError(t, f.cmds.Finish(ctx, cmd.ShowcaseID))

		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		require.Len(t, events, 3)
		_, ok := events[2].(showcase.Finished)
		require.True(t, ok)
	})

	t.Run("unknown showcase not found", func(t *testing.T) {
		f := newFixture()
		require.ErrorIs(t, f.cmds.Finish(ctx, uuid.New()), commands.ErrShowcaseNotFound)
	})

	t.Run("not yet started maps to illegal state", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))

		err := f.cmds.Finish(ctx, cmd.ShowcaseID)
		require.ErrorIs(t, err, commands.ErrIllegalState)
		require.ErrorIs(t, err, showcase.ErrNotStarted)
	})
}

func TestRemoveCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("scheduled showcase removed and title released", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))

		require.NoError(t, f.cmds.Remove(ctx, cmd.ShowcaseID))

		assert.False(t, f.titles.reserved[cmd.Title])
		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		require.Len(t, events, 2)
		_, ok := events[1].(showcase.Removed)
		require.True(t, ok)

		// title is immediately reusable
		again := builder.NewShowcaseBuilder().WithTitle(cmd.Title).BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, again))
	})

	t.Run("started showcase finished then removed", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		require.NoError(t, f.cmds.Start(ctx, cmd.ShowcaseID))

		require.NoError(t, f.cmds.Remove(ctx, cmd.ShowcaseID))

		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		require.Len(t, events, 4)
		_, ok := events[2].(showcase.Finished)
		require.True(t, ok)
		_, ok = events[3].(showcase.Removed)
		require.True(t, ok)
	})

	t.Run("unknown showcase is a successful no-op", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.cmds.Remove(ctx, uuid.New()))
	})

	t.Run("duplicate remove is a successful no-op", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		require.NoError(t, f.cmds.Remove(ctx, cmd.ShowcaseID))

		require.NoError(t, f.cmds.Remove(ctx, cmd.ShowcaseID))
		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("release failure aborts before events append", func(t *testing.T) {
		f := newFixture()
		cmd := builder.NewShowcaseBuilder().BuildScheduleCommand()
		require.NoError(t, f.cmds.Schedule(ctx, cmd))
		f.titles.releaseErr = infra.WrapRepoErr("db down", assert.AnError)

		require.ErrorIs(t, f.cmds.Remove(ctx, cmd.ShowcaseID), commands.ErrStoreFailure)
		events, err := f.store.Load(ctx, cmd.ShowcaseID)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}

func TestConcurrentSameTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("only one of two concurrent schedules with one title wins", func(t *testing.T) {
		f := newFixture()
		title := "Contested Title"
		a := builder.NewShowcaseBuilder().WithTitle(title).BuildScheduleCommand()
		b := builder.NewShowcaseBuilder().WithTitle(title).BuildScheduleCommand()

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, cmd := range []commands.ScheduleShowcase{a, b} {
			wg.Add(1)
			go func(i int, cmd commands.ScheduleShowcase) {
				defer wg.Done()
				errs[i] = f.cmds.Schedule(ctx, cmd)
			}(i, cmd)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				require.ErrorIs(t, err, commands.ErrTitleInUse)
			}
		}
		assert.Equal(t, 1, winners)
	})
}

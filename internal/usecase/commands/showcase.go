package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/pkg/clock"
	"showcase-service/internal/pkg/errs"
	"showcase-service/internal/pkg/keylock"

	"github.com/google/uuid"
)

var (
	ErrShowcaseNotFound    = errs.New("showcase not found")
	ErrTitleInUse          = errs.New("showcase title already in use")
	ErrIllegalState        = errs.New("command violates showcase lifecycle")
	ErrInvalidCommand      = errs.New("invalid showcase command")
	ErrConcurrencyConflict = errs.New("concurrent modification of showcase stream")
	ErrStoreFailure        = errs.New("event store operation failed")
)

type ScheduleShowcase struct {
	ShowcaseID uuid.UUID
	Title      string
	StartTime  time.Time
	Duration   time.Duration
}

type ShowcaseCommands interface {
	Schedule(ctx context.Context, cmd ScheduleShowcase) error
	Start(ctx context.Context, id uuid.UUID) error
	Finish(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type showcaseCommandsImpl struct {
	store  EventStore
	titles TitleReservations
	locks  *keylock.KeyedMutex
	clock  clock.Clock
	logger *slog.Logger
}

func NewShowcaseCommands(
	store EventStore,
	titles TitleReservations,
	locks *keylock.KeyedMutex,
	clk clock.Clock,
	logger *slog.Logger,
) ShowcaseCommands {
	return &showcaseCommandsImpl{
		store:  store,
		titles: titles,
		locks:  locks,
		clock:  clk,
		logger: logger.With("component", "showcase-commands"),
	}
}

// Schedule reserves the title before the Scheduled event is appended, so two
// concurrent schedules with the same title can never both succeed. If the
// append then fails the reservation is rolled back.
func (u *showcaseCommandsImpl) Schedule(ctx context.Context, cmd ScheduleShowcase) error {
	unlock := u.locks.Lock(cmd.ShowcaseID)
	defer unlock()

	agg, base, err := u.load(ctx, cmd.ShowcaseID)
	if err != nil {
		return err
	}
	fresh := base == 0

	if err := agg.Schedule(cmd.Title, cmd.StartTime, cmd.Duration, u.clock.Now()); err != nil {
		return mapDomainErr(err)
	}
	events := agg.DrainPending()
	if len(events) == 0 {
		// retry of the same creation request
		return nil
	}

	if fresh {
		if err := u.titles.Reserve(ctx, cmd.Title); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrTitleInUse)
			}
			return errs.Mark(err, ErrStoreFailure)
		}
	}

	if err := u.store.Append(ctx, cmd.ShowcaseID, events, base); err != nil {
		if fresh {
			if relErr := u.titles.Release(ctx, cmd.Title); relErr != nil {
				u.logger.Error("failed to roll back title reservation",
					"showcase_id", cmd.ShowcaseID, "title", cmd.Title, "error", relErr)
			}
		}
		return mapAppendErr(err)
	}
	return nil
}

func (u *showcaseCommandsImpl) Start(ctx context.Context, id uuid.UUID) error {
	unlock := u.locks.Lock(id)
	defer unlock()

	agg, base, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if base == 0 {
		return ErrShowcaseNotFound
	}

	if err := agg.Start(u.clock.Now()); err != nil {
		return mapDomainErr(err)
	}
	return u.append(ctx, id, agg, base)
}

func (u *showcaseCommandsImpl) Finish(ctx context.Context, id uuid.UUID) error {
	unlock := u.locks.Lock(id)
	defer unlock()

	agg, base, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if base == 0 {
		return ErrShowcaseNotFound
	}

	if err := agg.Finish(u.clock.Now()); err != nil {
		return mapDomainErr(err)
	}
	return u.append(ctx, id, agg, base)
}

// Remove is total: a showcase that never existed or was already removed is a
// successful no-op. The title reservation is released before the terminal
// events are appended.
func (u *showcaseCommandsImpl) Remove(ctx context.Context, id uuid.UUID) error {
	unlock := u.locks.Lock(id)
	defer unlock()

	agg, base, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if base == 0 || agg.Deleted() {
		return nil
	}

	if err := u.titles.Release(ctx, agg.Title()); err != nil {
		return errs.Mark(err, ErrStoreFailure)
	}
	if err := agg.Remove(u.clock.Now()); err != nil {
		return mapDomainErr(err)
	}
	return u.append(ctx, id, agg, base)
}

func (u *showcaseCommandsImpl) load(ctx context.Context, id uuid.UUID) (*showcase.Showcase, int64, error) {
	history, err := u.store.Load(ctx, id)
	if err != nil {
		return nil, 0, errs.Mark(err, ErrStoreFailure)
	}
	agg := showcase.Replay(id, history)
	return agg, int64(len(history)), nil
}

func (u *showcaseCommandsImpl) append(ctx context.Context, id uuid.UUID, agg *showcase.Showcase, base int64) error {
	events := agg.DrainPending()
	if len(events) == 0 {
		return nil
	}
	if err := u.store.Append(ctx, id, events, base); err != nil {
		return mapAppendErr(err)
	}
	return nil
}

func mapDomainErr(err error) error {
	var ve showcase.ValidationError
	switch {
	case errors.As(err, &ve):
		return errs.Mark(err, ErrInvalidCommand)
	default:
		return errs.Mark(err, ErrIllegalState)
	}
}

func mapAppendErr(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return errs.Mark(err, ErrConcurrencyConflict)
	}
	return errs.Mark(err, ErrStoreFailure)
}

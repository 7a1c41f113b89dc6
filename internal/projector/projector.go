// Package projector maintains the denormalized showcase read model from the
// event stream. Delivery is at least once with possible mild reordering, so
// every handler tolerates duplicates and gaps: expected races log a warning
// and succeed, and only infrastructure failures propagate so the delivery
// layer can redeliver.
package projector

import (
	"context"
	"log/slog"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/infra/eventstore"
	"showcase-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReadStore interface {
	Insert(ctx context.Context, view *queries.ShowcaseView) error
	SetStarted(ctx context.Context, id uuid.UUID, startedAt time.Time, duration time.Duration) error
	SetFinished(ctx context.Context, id uuid.UUID, finishedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Projector struct {
	store  ReadStore
	logger *slog.Logger
}

func NewProjector(store ReadStore, logger *slog.Logger) *Projector {
	return &Projector{
		store:  store,
		logger: logger.With("component", "showcase-projector"),
	}
}

func (p *Projector) Apply(ctx context.Context, env eventstore.Envelope) error {
	ev, err := env.Event()
	if err != nil {
		// permanently undecodable, do not poison the queue
		p.logger.Error("dropping undecodable event", "stream_id", env.StreamID, "type", env.Type, "error", err)
		return nil
	}

	switch e := ev.(type) {
	case showcase.Scheduled:
		return p.onScheduled(ctx, e)
	case showcase.Started:
		return p.onStarted(ctx, e)
	case showcase.Finished:
		return p.onFinished(ctx, e)
	case showcase.Removed:
		return p.onRemoved(ctx, e)
	default:
		return nil
	}
}

func (p *Projector) onScheduled(ctx context.Context, e showcase.Scheduled) error {
	err := p.store.Insert(ctx, &queries.ShowcaseView{
		ShowcaseID:  e.ShowcaseID,
		Title:       e.Title,
		StartTime:   e.StartTime,
		Duration:    e.Duration,
		Status:      showcase.StatusScheduled,
		ScheduledAt: e.ScheduledAt,
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			p.logger.Warn("duplicate Scheduled delivery ignored", "showcase_id", e.ShowcaseID)
			return nil
		}
		return err
	}
	return nil
}

// onStarted only advances a SCHEDULED record. A missing record means the
// event outran its Scheduled or the showcase was already removed; a record
// in another status means duplicate or reordered delivery. Neither case is
// written over; redelivery sorts itself out.
func (p *Projector) onStarted(ctx context.Context, e showcase.Started) error {
	if err := p.store.SetStarted(ctx, e.ShowcaseID, e.StartedAt, e.Duration); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			p.logger.Warn("Started not applicable, skipping", "showcase_id", e.ShowcaseID)
			return nil
		}
		return err
	}
	return nil
}

func (p *Projector) onFinished(ctx context.Context, e showcase.Finished) error {
	if err := p.store.SetFinished(ctx, e.ShowcaseID, e.FinishedAt); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			p.logger.Warn("Finished not applicable, skipping", "showcase_id", e.ShowcaseID)
			return nil
		}
		return err
	}
	return nil
}

func (p *Projector) onRemoved(ctx context.Context, e showcase.Removed) error {
	if err := p.store.Delete(ctx, e.ShowcaseID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			p.logger.Warn("Removed for absent record ignored", "showcase_id", e.ShowcaseID)
			return nil
		}
		return err
	}
	return nil
}

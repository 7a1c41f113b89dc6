// Package saga coordinates the wall-clock side of a showcase's lifecycle:
// it turns lifecycle events into scheduled deadlines and fired deadlines back
// into commands. It never decides domain state itself. Every command it
// issues is idempotent at the aggregate, so duplicate firings and races with
// manual commands degrade to redundant no-ops.
package saga

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/infra"
	"showcase-service/internal/infra/eventstore"

	"github.com/google/uuid"
)

const (
	DeadlineStartShowcase  = "startShowcase"
	DeadlineFinishShowcase = "finishShowcase"
)

type DeadlinePayload struct {
	ShowcaseID uuid.UUID `json:"showcase_id"`
}

// State is the persisted orchestrator record for one showcase. TrackedStatus
// mirrors the last lifecycle event this instance observed; it is a race
// guard, not a source of truth.
type State struct {
	ShowcaseID              uuid.UUID
	TrackedStatus           showcase.Status
	PendingStartDeadlineID  *uuid.UUID
	PendingFinishDeadlineID *uuid.UUID
}

type StateStore interface {
	Get(ctx context.Context, id uuid.UUID) (*State, error)
	Save(ctx context.Context, st *State) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DeadlineScheduler interface {
	Schedule(ctx context.Context, at time.Time, name string, payload []byte) (uuid.UUID, error)
	Cancel(ctx context.Context, name string, id uuid.UUID) error
}

// CommandIssuer is the pluggable boundary through which deadline firings
// re-enter the system as ordinary commands.
type CommandIssuer interface {
	Start(ctx context.Context, id uuid.UUID) error
	Finish(ctx context.Context, id uuid.UUID) error
}

type Orchestrator struct {
	states    StateStore
	scheduler DeadlineScheduler
	issuer    CommandIssuer
	logger    *slog.Logger
}

func NewOrchestrator(states StateStore, scheduler DeadlineScheduler, issuer CommandIssuer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		states:    states,
		scheduler: scheduler,
		issuer:    issuer,
		logger:    logger.With("component", "deadline-orchestrator"),
	}
}

// HandleEvent reacts to one delivered lifecycle event. Infrastructure
// failures are returned so delivery can retry; everything else is absorbed.
func (o *Orchestrator) HandleEvent(ctx context.Context, env eventstore.Envelope) error {
	ev, err := env.Event()
	if err != nil {
		// permanently undecodable, do not poison the queue
		o.logger.Error("dropping undecodable event", "stream_id", env.StreamID, "type", env.Type, "error", err)
		return nil
	}

	switch e := ev.(type) {
	case showcase.Scheduled:
		return o.onScheduled(ctx, e)
	case showcase.Started:
		return o.onStarted(ctx, e)
	case showcase.Finished:
		return o.onFinished(ctx, e)
	case showcase.Removed:
		return o.onRemoved(ctx, e)
	default:
		return nil
	}
}

func (o *Orchestrator) onScheduled(ctx context.Context, e showcase.Scheduled) error {
	if _, err := o.states.Get(ctx, e.ShowcaseID); err == nil {
		o.logger.Warn("saga already exists, duplicate Scheduled ignored", "showcase_id", e.ShowcaseID)
		return nil
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return err
	}

	deadlineID, err := o.scheduleDeadline(ctx, e.ShowcaseID, DeadlineStartShowcase, e.StartTime)
	if err != nil {
		return err
	}
	return o.states.Save(ctx, &State{
		ShowcaseID:             e.ShowcaseID,
		TrackedStatus:          showcase.StatusScheduled,
		PendingStartDeadlineID: &deadlineID,
	})
}

// onStarted runs whatever triggered the start, manual command or deadline
// firing: the pending start deadline is cancelled either way.
func (o *Orchestrator) onStarted(ctx context.Context, e showcase.Started) error {
	st, err := o.states.Get(ctx, e.ShowcaseID)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}
		// The row is created on Scheduled and destroyed on completion, so
		// a Started with no row is a redelivery after the saga already
		// ended. Recreating it would arm a finish deadline for a showcase
		// that is finished or removed.
		o.logger.Warn("saga state missing on Started, ignoring", "showcase_id", e.ShowcaseID)
		return nil
	}
	if st.TrackedStatus == showcase.StatusStarted && st.PendingFinishDeadlineID != nil {
		o.logger.Warn("duplicate Started ignored", "showcase_id", e.ShowcaseID)
		return nil
	}

	o.cancelDeadline(ctx, DeadlineStartShowcase, st.PendingStartDeadlineID, e.ShowcaseID)
	st.PendingStartDeadlineID = nil

	deadlineID, err := o.scheduleDeadline(ctx, e.ShowcaseID, DeadlineFinishShowcase, e.StartedAt.Add(e.Duration))
	if err != nil {
		return err
	}
	st.TrackedStatus = showcase.StatusStarted
	st.PendingFinishDeadlineID = &deadlineID
	return o.states.Save(ctx, st)
}

func (o *Orchestrator) onFinished(ctx context.Context, e showcase.Finished) error {
	st, err := o.states.Get(ctx, e.ShowcaseID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}
	o.cancelDeadline(ctx, DeadlineFinishShowcase, st.PendingFinishDeadlineID, e.ShowcaseID)
	return o.states.Delete(ctx, e.ShowcaseID)
}

func (o *Orchestrator) onRemoved(ctx context.Context, e showcase.Removed) error {
	st, err := o.states.Get(ctx, e.ShowcaseID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}
	o.cancelDeadline(ctx, DeadlineStartShowcase, st.PendingStartDeadlineID, e.ShowcaseID)
	o.cancelDeadline(ctx, DeadlineFinishShowcase, st.PendingFinishDeadlineID, e.ShowcaseID)
	return o.states.Delete(ctx, e.ShowcaseID)
}

// HandleDeadline is the scheduler's callback. Commands are fire-and-forget:
// they are speculative and idempotent, so a failure is logged and the saga
// proceeds. Retry policy belongs to callers of the real API, not here.
func (o *Orchestrator) HandleDeadline(ctx context.Context, name string, payload []byte) {
	var p DeadlinePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		o.logger.Error("undecodable deadline payload", "deadline", name, "error", err)
		return
	}
	logger := o.logger.With("deadline", name, "showcase_id", p.ShowcaseID)

	st, err := o.states.Get(ctx, p.ShowcaseID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			logger.Info("deadline fired after saga completed, ignoring")
			return
		}
		logger.Error("failed to load saga state", "error", err)
		return
	}

	switch name {
	case DeadlineStartShowcase:
		if st.TrackedStatus != showcase.StatusScheduled {
			logger.Info("showcase no longer scheduled, skipping start", "tracked_status", st.TrackedStatus)
			return
		}
		if err := o.issuer.Start(ctx, p.ShowcaseID); err != nil {
			logger.Error("deadline-triggered start failed", "error", err)
		}
	case DeadlineFinishShowcase:
		if st.TrackedStatus != showcase.StatusStarted {
			logger.Info("showcase no longer started, skipping finish", "tracked_status", st.TrackedStatus)
			return
		}
		if err := o.issuer.Finish(ctx, p.ShowcaseID); err != nil {
			logger.Error("deadline-triggered finish failed", "error", err)
		}
		// terminal transition: the saga ends here whether or not the
		// command landed, per the no-retry policy
		if err := o.states.Delete(ctx, p.ShowcaseID); err != nil {
			logger.Error("failed to delete saga state", "error", err)
		}
	default:
		logger.Warn("unknown deadline name")
	}
}

func (o *Orchestrator) scheduleDeadline(ctx context.Context, id uuid.UUID, name string, at time.Time) (uuid.UUID, error) {
	payload, err := json.Marshal(DeadlinePayload{ShowcaseID: id})
	if err != nil {
		return uuid.Nil, err
	}
	deadlineID, err := o.scheduler.Schedule(ctx, at, name, payload)
	if err != nil {
		return uuid.Nil, err
	}
	o.logger.Info("deadline scheduled", "deadline", name, "showcase_id", id, "fire_at", at, "deadline_id", deadlineID)
	return deadlineID, nil
}

// cancelDeadline is best effort: the deadline may already have fired or been
// cancelled, and the commands it would trigger are safe no-ops anyway.
func (o *Orchestrator) cancelDeadline(ctx context.Context, name string, id *uuid.UUID, showcaseID uuid.UUID) {
	if id == nil {
		return
	}
	if err := o.scheduler.Cancel(ctx, name, *id); err != nil {
		o.logger.Warn("failed to cancel deadline", "deadline", name, "showcase_id", showcaseID, "deadline_id", *id, "error", err)
	}
}

package showcase

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeScheduled = "showcase.scheduled"
	TypeStarted   = "showcase.started"
	TypeFinished  = "showcase.finished"
	TypeRemoved   = "showcase.removed"
)

// Event is a fact recorded in a showcase's append-only stream. Current
// aggregate state is always derived by replaying the stream; events are never
// mutated or deleted.
type Event interface {
	EventType() string
	AggregateID() uuid.UUID
}

type Scheduled struct {
	ShowcaseID  uuid.UUID     `json:"showcase_id"`
	Title       string        `json:"title"`
	StartTime   time.Time     `json:"start_time"`
	Duration    time.Duration `json:"duration"`
	ScheduledAt time.Time     `json:"scheduled_at"`
}

func (e Scheduled) EventType() string      { return TypeScheduled }
func (e Scheduled) AggregateID() uuid.UUID { return e.ShowcaseID }

// Started re-carries the duration so the deadline orchestrator can compute the
// finish deadline without re-reading aggregate state.
type Started struct {
	ShowcaseID uuid.UUID     `json:"showcase_id"`
	Duration   time.Duration `json:"duration"`
	StartedAt  time.Time     `json:"started_at"`
}

func (e Started) EventType() string      { return TypeStarted }
func (e Started) AggregateID() uuid.UUID { return e.ShowcaseID }

type Finished struct {
	ShowcaseID uuid.UUID `json:"showcase_id"`
	FinishedAt time.Time `json:"finished_at"`
}

func (e Finished) EventType() string      { return TypeFinished }
func (e Finished) AggregateID() uuid.UUID { return e.ShowcaseID }

type Removed struct {
	ShowcaseID uuid.UUID `json:"showcase_id"`
	RemovedAt  time.Time `json:"removed_at"`
}

func (e Removed) EventType() string      { return TypeRemoved }
func (e Removed) AggregateID() uuid.UUID { return e.ShowcaseID }

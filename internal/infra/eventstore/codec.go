package eventstore

import (
	"encoding/json"
	"time"

	"showcase-service/internal/domain/showcase"
	"showcase-service/internal/pkg/errs"

	"github.com/google/uuid"
)

// Envelope is the stored and published form of a domain event. The same shape
// travels through the journal, the outbox and the broker so consumers decode
// exactly what was appended.
type Envelope struct {
	StreamID   uuid.UUID       `json:"stream_id"`
	Version    int64           `json:"version"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func Encode(ev showcase.Event, version int64) (Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, errs.Wrap(err, "failed to marshal event payload")
	}
	return Envelope{
		StreamID:   ev.AggregateID(),
		Version:    version,
		Type:       ev.EventType(),
		OccurredAt: occurredAt(ev),
		Payload:    payload,
	}, nil
}

func (e Envelope) Event() (showcase.Event, error) {
	switch e.Type {
	case showcase.TypeScheduled:
		var ev showcase.Scheduled
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshal scheduled event")
		}
		return ev, nil
	case showcase.TypeStarted:
		var ev showcase.Started
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshal started event")
		}
		return ev, nil
	case showcase.TypeFinished:
		var ev showcase.Finished
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshal finished event")
		}
		return ev, nil
	case showcase.TypeRemoved:
		var ev showcase.Removed
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshal removed event")
		}
		return ev, nil
	default:
		return nil, errs.New("unknown event type: " + e.Type)
	}
}

func occurredAt(ev showcase.Event) time.Time {
	switch e := ev.(type) {
	case showcase.Scheduled:
		return e.ScheduledAt
	case showcase.Started:
		return e.StartedAt
	case showcase.Finished:
		return e.FinishedAt
	case showcase.Removed:
		return e.RemovedAt
	default:
		return time.Time{}
	}
}

package showcase

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxTitleLength = 200

// Showcase is the event-sourced aggregate for one live event. State is
// rebuilt by replaying the stream; command methods validate against current
// state and stage new events in pending, which the caller drains and appends.
type Showcase struct {
	id          uuid.UUID
	title       string
	startTime   time.Time
	duration    time.Duration
	status      Status
	scheduledAt time.Time
	startedAt   *time.Time
	finishedAt  *time.Time
	removedAt   *time.Time
	deleted     bool
	version     int64

	pending []Event
}

func New(id uuid.UUID) *Showcase {
	return &Showcase{id: id}
}

func Replay(id uuid.UUID, history []Event) *Showcase {
	s := New(id)
	for _, ev := range history {
		s.apply(ev)
	}
	return s
}

// Schedule binds this id to its first successful schedule. A retry with
// identical parameters while still SCHEDULED is an idempotent no-op; any
// other call on an existing aggregate is a reschedule attempt and is
// rejected.
func (s *Showcase) Schedule(title string, startTime time.Time, duration time.Duration, now time.Time) error {
	if s.version > 0 {
		if s.status == StatusScheduled &&
			s.title == title &&
			s.startTime.Equal(startTime) &&
			s.duration == duration {
			return nil
		}
		return ErrCannotReschedule
	}

	fields := FieldErrors{}
	if strings.TrimSpace(title) == "" {
		fields["title"] = "must not be blank"
	} else if len(title) > MaxTitleLength {
		fields["title"] = "must not exceed 200 characters"
	}
	if !startTime.After(now) {
		fields["startTime"] = "must be in the future"
	}
	if duration < MinDuration || duration > MaxDuration {
		fields["duration"] = "must be between 1 minute and 24 hours"
	}
	if len(fields) > 0 {
		return ValidationError{Fields: fields}
	}

	s.record(Scheduled{
		ShowcaseID:  s.id,
		Title:       title,
		StartTime:   startTime,
		Duration:    duration,
		ScheduledAt: now,
	})
	return nil
}

// Start is idempotent: duplicate deadline firings and manual/automatic races
// both land on the STARTED no-op branch.
func (s *Showcase) Start(now time.Time) error {
	if s.deleted {
		return ErrRemoved
	}
	switch s.status {
	case StatusFinished:
		return ErrAlreadyFinished
	case StatusStarted:
		return nil
	}
	s.record(Started{
		ShowcaseID: s.id,
		Duration:   s.duration,
		StartedAt:  now,
	})
	return nil
}

func (s *Showcase) Finish(now time.Time) error {
	if s.deleted {
		return ErrRemoved
	}
	switch s.status {
	case StatusScheduled:
		return ErrNotStarted
	case StatusFinished:
		return nil
	}
	s.record(Finished{
		ShowcaseID: s.id,
		FinishedAt: now,
	})
	return nil
}

// Remove tombstones the aggregate. A STARTED showcase is finished first with
// the same event a normal finish would emit. Removing an already-removed
// showcase is a no-op.
func (s *Showcase) Remove(now time.Time) error {
	if s.deleted {
		return nil
	}
	if s.status == StatusStarted {
		s.record(Finished{
			ShowcaseID: s.id,
			FinishedAt: now,
		})
	}
	s.record(Removed{
		ShowcaseID: s.id,
		RemovedAt:  now,
	})
	return nil
}

func (s *Showcase) record(ev Event) {
	s.apply(ev)
	s.pending = append(s.pending, ev)
}

func (s *Showcase) apply(ev Event) {
	switch e := ev.(type) {
	case Scheduled:
		s.title = e.Title
		s.startTime = e.StartTime
		s.duration = e.Duration
		s.scheduledAt = e.ScheduledAt
		s.status = StatusScheduled
	case Started:
		at := e.StartedAt
		s.startedAt = &at
		s.duration = e.Duration
		s.status = StatusStarted
	case Finished:
		at := e.FinishedAt
		s.finishedAt = &at
		s.status = StatusFinished
	case Removed:
		at := e.RemovedAt
		s.removedAt = &at
		s.status = StatusRemoved
		s.deleted = true
	}
	s.version++
}

// DrainPending returns the staged events and clears the buffer.
func (s *Showcase) DrainPending() []Event {
	p := s.pending
	s.pending = nil
	return p
}

func (s *Showcase) ID() uuid.UUID           { return s.id }
func (s *Showcase) Title() string           { return s.title }
func (s *Showcase) StartTime() time.Time    { return s.startTime }
func (s *Showcase) Duration() time.Duration { return s.duration }
func (s *Showcase) Status() Status          { return s.status }
func (s *Showcase) ScheduledAt() time.Time  { return s.scheduledAt }
func (s *Showcase) StartedAt() *time.Time   { return s.startedAt }
func (s *Showcase) FinishedAt() *time.Time  { return s.finishedAt }
func (s *Showcase) RemovedAt() *time.Time   { return s.removedAt }
func (s *Showcase) Deleted() bool           { return s.deleted }

// Version is the number of events applied, used as the expected version for
// optimistic-concurrency appends.
func (s *Showcase) Version() int64 { return s.version }

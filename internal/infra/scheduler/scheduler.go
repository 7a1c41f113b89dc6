// Package scheduler fires named deadlines at wall-clock instants. Pending
// deadlines live in a Store so a restart re-arms them; the wake-up itself is
// an in-process timer, not a polling loop.
package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Deadline struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	FireAt  time.Time       `json:"fire_at"`
}

// Store persists pending deadlines. An entry stays until its firing callback
// has returned, so a crash inside the callback re-fires after restart.
// Remove reports whether the deadline was still pending.
type Store interface {
	Put(ctx context.Context, d Deadline) error
	Remove(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]Deadline, error)
}

type Callback func(ctx context.Context, name string, payload []byte)

type TimerScheduler struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	cb     Callback
	timers map[uuid.UUID]*time.Timer
	closed bool
}

func NewTimerScheduler(store Store, logger *slog.Logger) *TimerScheduler {
	return &TimerScheduler{
		store:  store,
		logger: logger.With("component", "deadline-scheduler"),
		timers: make(map[uuid.UUID]*time.Timer),
	}
}

// Start re-arms every persisted deadline. Deadlines whose instant passed
// while the process was down fire immediately.
func (s *TimerScheduler) Start(ctx context.Context, cb Callback) error {
	pending, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cb = cb
	s.closed = false
	s.mu.Unlock()

	for _, d := range pending {
		s.arm(d)
	}
	if len(pending) > 0 {
		s.logger.Info("re-armed persisted deadlines", "count", len(pending))
	}
	return nil
}

// Stop drops the in-memory timers; persisted entries survive for the next
// Start.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *TimerScheduler) Schedule(ctx context.Context, at time.Time, name string, payload []byte) (uuid.UUID, error) {
	d := Deadline{
		ID:      uuid.New(),
		Name:    name,
		Payload: payload,
		FireAt:  at,
	}
	if err := s.store.Put(ctx, d); err != nil {
		return uuid.Nil, err
	}
	s.arm(d)
	return d.ID, nil
}

// Cancel is a safe no-op for deadlines that already fired or were already
// cancelled.
func (s *TimerScheduler) Cancel(ctx context.Context, name string, id uuid.UUID) error {
	s.mu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		s.logger.Debug("cancel of unknown deadline ignored", "deadline", name, "deadline_id", id)
	}
	return nil
}

func (s *TimerScheduler) arm(d Deadline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	delay := time.Until(d.FireAt)
	if delay < 0 {
		delay = 0
	}
	s.timers[d.ID] = time.AfterFunc(delay, func() { s.fire(d) })
}

func (s *TimerScheduler) fire(d Deadline) {
	s.mu.Lock()
	delete(s.timers, d.ID)
	cb := s.cb
	closed := s.closed
	s.mu.Unlock()
	if closed || cb == nil {
		return
	}

	ctx := context.Background()
	s.logger.Info("deadline fired", "deadline", d.Name, "deadline_id", d.ID, "fire_at", d.FireAt)

	// The store entry outlives the callback: a crash mid-callback leaves the
	// deadline persisted, so the next Start re-arms and re-fires it, and the
	// duplicate firing collapses into a no-op at the idempotent aggregate.
	// A cancel racing this firing makes it spurious; the callback side
	// ignores firings for deadlines it no longer tracks.
	cb(ctx, d.Name, d.Payload)

	removed, err := s.store.Remove(ctx, d.ID)
	if err != nil {
		s.logger.Error("failed to remove fired deadline", "deadline", d.Name, "deadline_id", d.ID, "error", err)
	} else if !removed {
		// cancelled while the callback ran
		s.logger.Debug("fired deadline already removed", "deadline", d.Name, "deadline_id", d.ID)
	}
}

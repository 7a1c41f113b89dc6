package commands

import (
	"context"

	"showcase-service/internal/domain/showcase"

	"github.com/google/uuid"
)

// EventStore is the append-only journal for showcase streams. Append must
// enforce optimistic concurrency on (stream, expectedVersion).
type EventStore interface {
	Append(ctx context.Context, streamID uuid.UUID, events []showcase.Event, expectedVersion int64) error
	Load(ctx context.Context, streamID uuid.UUID) ([]showcase.Event, error)
}

// TitleReservations is the global uniqueness store for showcase titles.
// Reserve must be atomic; a lost race surfaces as a duplicate-key error.
type TitleReservations interface {
	Reserve(ctx context.Context, title string) error
	Release(ctx context.Context, title string) error
}

package request

import (
	"time"

	"showcase-service/internal/usecase/commands"

	"github.com/google/uuid"
)

// ScheduleShowcaseRequest carries the client-chosen showcase id so retries
// of the same request converge on the same stream.
type ScheduleShowcaseRequest struct {
	ShowcaseID      uuid.UUID `json:"showcase_id" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationSeconds int64     `json:"duration_seconds" binding:"required,gt=0"`
}

func (r ScheduleShowcaseRequest) ToCommand() commands.ScheduleShowcase {
	return commands.ScheduleShowcase{
		ShowcaseID: r.ShowcaseID,
		Title:      r.Title,
		StartTime:  r.StartTime,
		Duration:   time.Duration(r.DurationSeconds) * time.Second,
	}
}

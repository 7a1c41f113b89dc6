package response

import (
	"time"

	"showcase-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type ShowcaseResponse struct {
	ShowcaseID      uuid.UUID  `json:"showcaseId"`
	Title           string     `json:"title"`
	StartTime       time.Time  `json:"startTime"`
	DurationSeconds int64      `json:"durationSeconds"`
	Status          string     `json:"status"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}

func FromShowcaseView(v *queries.ShowcaseView) *ShowcaseResponse {
	return &ShowcaseResponse{
		ShowcaseID:      v.ShowcaseID,
		Title:           v.Title,
		StartTime:       v.StartTime,
		DurationSeconds: int64(v.Duration.Seconds()),
		Status:          v.Status.String(),
		ScheduledAt:     v.ScheduledAt,
		StartedAt:       v.StartedAt,
		FinishedAt:      v.FinishedAt,
	}
}

func FromShowcaseList(views []*queries.ShowcaseView) []*ShowcaseResponse {
	out := make([]*ShowcaseResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromShowcaseView(v))
	}
	return out
}

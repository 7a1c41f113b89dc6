//go:build unit || e2e

package builder

import (
	"time"

	"showcase-service/internal/domain/showcase"
	reqdto "showcase-service/internal/handler/dto/request"
	"showcase-service/internal/usecase/commands"
	"showcase-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type ShowcaseBuilder struct {
	ShowcaseID uuid.UUID
	Title      string
	StartTime  time.Time
	Duration   time.Duration
	Now        time.Time
}

func NewShowcaseBuilder() *ShowcaseBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &ShowcaseBuilder{
		ShowcaseID: uuid.New(),
		Title:      "Spring Product Launch",
		StartTime:  now.Add(2 * time.Hour),
		Duration:   time.Hour,
		Now:        now,
	}
}

func (b *ShowcaseBuilder) With(mutate func(*ShowcaseBuilder)) *ShowcaseBuilder {
	if mutate != nil {
		mutate(b)
	}
	return b
}

func (b *ShowcaseBuilder) WithTitle(title string) *ShowcaseBuilder {
	b.Title = title
	return b
}

func (b *ShowcaseBuilder) WithStartTime(t time.Time) *ShowcaseBuilder {
	b.StartTime = t
	return b
}

func (b *ShowcaseBuilder) WithDuration(d time.Duration) *ShowcaseBuilder {
	b.Duration = d
	return b
}

// BuildDomain schedules a fresh aggregate with the builder's parameters.
func (b *ShowcaseBuilder) BuildDomain() (*showcase.Showcase, error) {
	agg := showcase.New(b.ShowcaseID)
	if err := agg.Schedule(b.Title, b.StartTime, b.Duration, b.Now); err != nil {
		return nil, err
	}
	return agg, nil
}

func (b *ShowcaseBuilder) BuildScheduleCommand() commands.ScheduleShowcase {
	return commands.ScheduleShowcase{
		ShowcaseID: b.ShowcaseID,
		Title:      b.Title,
		StartTime:  b.StartTime,
		Duration:   b.Duration,
	}
}

func (b *ShowcaseBuilder) BuildScheduleRequestDTO() reqdto.ScheduleShowcaseRequest {
	return reqdto.ScheduleShowcaseRequest{
		ShowcaseID:      b.ShowcaseID,
		Title:           b.Title,
		StartTime:       b.StartTime,
		DurationSeconds: int64(b.Duration.Seconds()),
	}
}

func (b *ShowcaseBuilder) BuildScheduledEvent() showcase.Scheduled {
	return showcase.Scheduled{
		ShowcaseID:  b.ShowcaseID,
		Title:       b.Title,
		StartTime:   b.StartTime,
		Duration:    b.Duration,
		ScheduledAt: b.Now,
	}
}

func (b *ShowcaseBuilder) BuildView() *queries.ShowcaseView {
	return &queries.ShowcaseView{
		ShowcaseID:  b.ShowcaseID,
		Title:       b.Title,
		StartTime:   b.StartTime,
		Duration:    b.Duration,
		Status:      showcase.StatusScheduled,
		ScheduledAt: b.Now,
	}
}

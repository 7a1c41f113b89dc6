package showcase

import "time"

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusStarted   Status = "STARTED"
	StatusFinished  Status = "FINISHED"
	StatusRemoved   Status = "REMOVED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusStarted, StatusFinished, StatusRemoved:
		return true
	default:
		return false
	}
}

// Duration bounds accepted by Schedule. A showcase shorter than a minute is
// meaningless for a live event; anything past a day is almost certainly a
// client-side unit mistake.
const (
	MinDuration = time.Minute
	MaxDuration = 24 * time.Hour
)

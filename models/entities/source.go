package entities

import "time"

// Source is a feed origin tracked by the registry. LastPoll/LastSuccess and
// Failures are updated by the scheduler after each poll attempt.
type Source struct {
	ID          string
	URL         string
	Interval    time.Duration
	LastPoll    time.Time
	LastSuccess time.Time
	Failures    int
}

package scheduler

import (
	"sync"
	"time"

	"newswire/models/entities"
	"newswire/repositories/sources"

	"github.com/jonboulle/clockwork"
)

// Pool is the bounded fetch pool the scheduler feeds. A false TrySubmit
// means saturation; the source simply stays due.
type Pool interface {
	TrySubmit(source entities.Source) bool
}

type Service interface {
	Dispatch(now time.Time) int
	OnPollComplete(sourceID string, success bool, at time.Time)
}

type Impl struct {
	repo  sources.Repository
	pool  Pool
	clock clockwork.Clock

	failureThreshold int
	maxBackoff       time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

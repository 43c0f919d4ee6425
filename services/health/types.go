package health

import (
	"sync"
	"time"

	"newswire/pkg/observer"
)

// Stats is a point-in-time snapshot of pipeline counters.
type Stats struct {
	Accepted      uint64
	Duplicates    uint64
	EntryFailures uint64
	PollFailures  uint64
	Delivered     uint64
	SinkFailures  uint64
	SinkDrops     uint64
}

type Service interface {
	OnNotify(observer.Event)
	Snapshot() Stats
}

type Impl struct {
	mu        sync.Mutex
	stats     Stats
	startedAt time.Time
}

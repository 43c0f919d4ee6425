package publisher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"newswire/models/entities"
	"newswire/pkg/observer"
	"newswire/sinks"
)

type Service interface {
	Start(ctx context.Context)
	Publish(article entities.Article)
	Shutdown()
}

type Impl struct {
	runners   []*sinkRunner
	observers map[observer.Observer]struct{}
	seq       atomic.Uint64

	admitWait      time.Duration
	deliverTimeout time.Duration
	drainWait      time.Duration
	retries        uint64
	retryInitial   time.Duration
	retryMax       time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// sinkRunner pairs a sink with its bounded outbound queue. Queues are
// per-sink on purpose: a stalled sink fills its own queue and nothing else.
type sinkRunner struct {
	sink  sinks.Sink
	queue chan entities.Envelope
}

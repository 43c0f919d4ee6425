package publisher

import (
	"context"
	"sync"
	"time"

	"newswire/models/constants"
	"newswire/models/entities"
	"newswire/pkg/observer"
	"newswire/sinks"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New(sinkList ...sinks.Sink) *Impl {
	service := &Impl{
		observers:      map[observer.Observer]struct{}{},
		admitWait:      viper.GetDuration(constants.SinkAdmitWait),
		deliverTimeout: viper.GetDuration(constants.SinkDeliverTimeout),
		drainWait:      viper.GetDuration(constants.SinkDrainWait),
		retries:        viper.GetUint64(constants.SinkRetries),
		retryInitial:   viper.GetDuration(constants.RetryInitialInterval),
		retryMax:       viper.GetDuration(constants.RetryMaxInterval),
	}

	queueSize := viper.GetInt(constants.SinkQueueSize)
	for _, sink := range sinkList {
		service.runners = append(service.runners, &sinkRunner{
			sink:  sink,
			queue: make(chan entities.Envelope, queueSize),
		})
	}

	return service
}

// RegisterObserver must be called before Start.
func (service *Impl) RegisterObserver(o observer.Observer) {
	service.observers[o] = struct{}{}
}

func (service *Impl) notify(e observer.Event) {
	for o := range service.observers {
		o.OnNotify(e)
	}
}

// Start launches one delivery worker per sink.
func (service *Impl) Start(ctx context.Context) {
	service.ctx, service.cancel = context.WithCancel(ctx)

	for _, runner := range service.runners {
		service.wg.Add(1)
		go service.run(runner)
	}
}

func (service *Impl) Shutdown() {
	if service.cancel != nil {
		service.cancel()
	}
	service.wg.Wait()
}

// Publish wraps an accepted article into an envelope and offers it to every
// sink queue. The article counts as seen from this point on regardless of
// delivery outcome; nothing here feeds back into the dedup cache.
//
// Sinks with room are served in one immediate pass; only the saturated ones
// get a bounded admission wait, and those waits run in parallel so a stalled
// sink never delays admission into a healthy one.
func (service *Impl) Publish(article entities.Article) {
	envelope := entities.Envelope{
		Article:     article,
		Seq:         service.seq.Add(1),
		PublishedAt: time.Now().UTC(),
	}

	var saturated []*sinkRunner
	for _, runner := range service.runners {
		select {
		case runner.queue <- envelope:
		default:
			saturated = append(saturated, runner)
		}
	}
	if len(saturated) == 0 {
		return
	}

	var waits sync.WaitGroup
	for _, runner := range saturated {
		waits.Add(1)
		go func(runner *sinkRunner) {
			defer waits.Done()
			service.await(runner, envelope)
		}(runner)
	}
	waits.Wait()
}

// await blocks on a full queue for at most admitWait, then records a drop for
// that sink only. Shutdown aborts the wait.
func (service *Impl) await(runner *sinkRunner, envelope entities.Envelope) {
	timer := time.NewTimer(service.admitWait)
	defer timer.Stop()

	select {
	case runner.queue <- envelope:
	case <-service.ctx.Done():
	case <-timer.C:
		log.Warn().
			Str(constants.LogSink, runner.sink.Name()).
			Uint64(constants.LogSeq, envelope.Seq).
			Str(constants.LogFingerprint, envelope.Fingerprint).
			Msg("Sink queue saturated beyond the admission wait, event dropped for this sink")
		service.notify(observer.NewSinkEvent(observer.SinkDroppedEvent, runner.sink.Name(), envelope.Fingerprint))
	}
}

func (service *Impl) run(runner *sinkRunner) {
	defer service.wg.Done()

	for {
		select {
		case <-service.ctx.Done():
			service.drain(runner)
			return
		case envelope := <-runner.queue:
			service.deliver(service.ctx, runner.sink, envelope)
		}
	}
}

// drain flushes what is still queued when the worker is told to stop, bounded
// by drainWait. Whatever the deadline cuts off is abandoned.
func (service *Impl) drain(runner *sinkRunner) {
	ctx, cancel := context.WithTimeout(context.Background(), service.drainWait)
	defer cancel()

	for {
		if ctx.Err() != nil {
			log.Warn().
				Str(constants.LogSink, runner.sink.Name()).
				Msg("Drain deadline reached, abandoning queued events")
			return
		}
		select {
		case envelope := <-runner.queue:
			service.deliver(ctx, runner.sink, envelope)
		default:
			return
		}
	}
}

func (service *Impl) deliver(ctx context.Context, sink sinks.Sink, envelope entities.Envelope) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = service.retryInitial
	policy.MaxInterval = service.retryMax

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, service.deliverTimeout)
		defer cancel()
		return sink.Deliver(attemptCtx, envelope)
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, service.retries), ctx))
	if err != nil {
		log.Error().Err(err).
			Str(constants.LogSink, sink.Name()).
			Uint64(constants.LogSeq, envelope.Seq).
			Str(constants.LogFingerprint, envelope.Fingerprint).
			Msg("Delivery failed after retries")
		service.notify(observer.NewSinkEvent(observer.SinkFailedEvent, sink.Name(), envelope.Fingerprint))
		return
	}

	service.notify(observer.NewSinkEvent(observer.SinkDeliveredEvent, sink.Name(), envelope.Fingerprint))
}

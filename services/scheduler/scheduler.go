package scheduler

import (
	"time"

	"newswire/models/constants"
	"newswire/models/entities"
	"newswire/repositories/sources"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New(gocronScheduler gocron.Scheduler, repo sources.Repository, pool Pool) (*Impl, error) {
	service := &Impl{
		repo:             repo,
		pool:             pool,
		clock:            clockwork.NewRealClock(),
		failureThreshold: viper.GetInt(constants.FailureThreshold),
		maxBackoff:       viper.GetDuration(constants.MaxPollBackoff),
		inFlight:         map[string]struct{}{},
	}

	_, errJob := gocronScheduler.NewJob(
		gocron.DurationJob(viper.GetDuration(constants.TickInterval)),
		gocron.NewTask(func() { service.Dispatch(service.clock.Now()) }),
		gocron.WithName("Poll due sources"),
	)
	if errJob != nil {
		return nil, errJob
	}

	return service, nil
}

// Dispatch submits every source that is due at now to the fetch pool, demoted
// sources only once their backoff interval has elapsed. A source already in
// flight is never submitted twice. On pool saturation the remaining due
// sources are left for the next tick; no work is dropped, only delayed.
func (service *Impl) Dispatch(now time.Time) int {
	submitted := 0
	for _, source := range service.repo.Due(now) {
		if !service.backoffElapsed(source, now) {
			continue
		}
		if !service.markInFlight(source.ID) {
			continue
		}
		if !service.pool.TrySubmit(source) {
			service.clearInFlight(source.ID)
			log.Debug().Msg("Fetch pool saturated, remaining due sources wait for the next tick")
			break
		}
		log.Debug().
			Str(constants.LogSourceID, source.ID).
			Msg("Source submitted for polling")
		submitted++
	}
	return submitted
}

// OnPollComplete is the fetch pool's completion hook: it records the poll
// outcome on the registry and releases the in-flight slot.
func (service *Impl) OnPollComplete(sourceID string, success bool, at time.Time) {
	if err := service.repo.RecordResult(sourceID, success, at); err != nil {
		log.Warn().Err(err).
			Str(constants.LogSourceID, sourceID).
			Msg("Poll result could not be recorded, source may have been removed mid-poll")
	}
	service.clearInFlight(sourceID)
}

// backoffElapsed gates sources past the failure threshold: the poll interval
// doubles per failure beyond the threshold, capped at maxBackoff, so a dead
// source is not hammered but still recovers eventually.
func (service *Impl) backoffElapsed(source entities.Source, now time.Time) bool {
	if source.Failures <= service.failureThreshold {
		return true
	}

	exponent := source.Failures - service.failureThreshold
	if exponent > 16 {
		exponent = 16
	}
	penalty := source.Interval << exponent
	if penalty <= 0 || penalty > service.maxBackoff {
		penalty = service.maxBackoff
	}
	return !source.LastPoll.Add(penalty).After(now)
}

func (service *Impl) markInFlight(sourceID string) bool {
	service.mu.Lock()
	defer service.mu.Unlock()
	if _, polling := service.inFlight[sourceID]; polling {
		return false
	}
	service.inFlight[sourceID] = struct{}{}
	return true
}

func (service *Impl) clearInFlight(sourceID string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.inFlight, sourceID)
}

package health

import (
	"time"

	"newswire/models/constants"
	"newswire/pkg/observer"

	"github.com/dustin/go-humanize"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// New builds the pipeline stats aggregator. Every pipeline stage notifies it
// through the observer interface; a periodic job logs the running totals.
func New(scheduler gocron.Scheduler) (*Impl, error) {
	service := &Impl{startedAt: time.Now()}

	_, errJob := scheduler.NewJob(
		gocron.CronJob(viper.GetString(constants.StatsCronTab), true),
		gocron.NewTask(func() { service.logSummary() }),
		gocron.WithName("Log pipeline stats"),
	)
	if errJob != nil {
		return nil, errJob
	}

	return service, nil
}

func (service *Impl) OnNotify(e observer.Event) {
	service.mu.Lock()
	defer service.mu.Unlock()

	switch e.E {
	case observer.ArticleAcceptedEvent:
		service.stats.Accepted++
	case observer.ArticleDuplicateEvent:
		service.stats.Duplicates++
	case observer.EntryFailedEvent:
		service.stats.EntryFailures++
	case observer.PollFailedEvent:
		service.stats.PollFailures++
	case observer.SinkDeliveredEvent:
		service.stats.Delivered++
	case observer.SinkFailedEvent:
		service.stats.SinkFailures++
	case observer.SinkDroppedEvent:
		service.stats.SinkDrops++
	}
}

func (service *Impl) Snapshot() Stats {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.stats
}

func (service *Impl) logSummary() {
	stats := service.Snapshot()
	log.Info().
		Str("uptime", humanize.Time(service.startedAt)).
		Str("accepted", humanize.Comma(int64(stats.Accepted))).
		Str("duplicates", humanize.Comma(int64(stats.Duplicates))).
		Str("entryFailures", humanize.Comma(int64(stats.EntryFailures))).
		Str("pollFailures", humanize.Comma(int64(stats.PollFailures))).
		Str("delivered", humanize.Comma(int64(stats.Delivered))).
		Str("sinkFailures", humanize.Comma(int64(stats.SinkFailures))).
		Str("sinkDrops", humanize.Comma(int64(stats.SinkDrops))).
		Msg("Pipeline is running")
}

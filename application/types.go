package application

import (
	"context"
	"errors"

	"newswire/repositories/sources"
	"newswire/services/fetcher"
	"newswire/services/health"
	"newswire/services/publisher"
	"newswire/sinks"
	"newswire/utils/databases"
	"newswire/utils/insights"

	"github.com/go-co-op/gocron/v2"
)

var (
	ErrNoSources = errors.New("source list is empty, nothing to poll")
	ErrNoSinks   = errors.New("sink list is empty, nowhere to publish")
)

type Application interface {
	Run()
	Shutdown()
}

type Impl struct {
	scheduler     gocron.Scheduler
	sourceRepo    sources.Repository
	fetchPool     *fetcher.Impl
	publisher     *publisher.Impl
	healthService health.Service
	wsSink        *sinks.WebSocketSink
	db            databases.SqlConnection
	probes        insights.Probes
	cancel        context.CancelFunc
}

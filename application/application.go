package application

import (
	"context"
	"fmt"
	"strings"

	"newswire/models/constants"
	"newswire/models/entities"
	"newswire/pkg/dedup"
	articlesRepo "newswire/repositories/articles"
	sourcesRepo "newswire/repositories/sources"
	"newswire/services/extractor"
	"newswire/services/fetcher"
	"newswire/services/health"
	"newswire/services/publisher"
	"newswire/services/scheduler"
	"newswire/sinks"
	"newswire/utils/databases"
	"newswire/utils/insights"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New() (*Impl, error) {
	gocronScheduler, errScheduler := gocron.NewScheduler()
	if errScheduler != nil {
		return nil, errScheduler
	}

	sourceRepo := sourcesRepo.New()
	if err := seedSources(sourceRepo); err != nil {
		return nil, err
	}
	if sourceRepo.Count() == 0 {
		return nil, ErrNoSources
	}

	dedupCache, errDedup := dedup.New(
		viper.GetInt(constants.DedupCacheSize),
		viper.GetDuration(constants.DedupMaxAge))
	if errDedup != nil {
		return nil, errDedup
	}

	statsService, errStats := health.New(gocronScheduler)
	if errStats != nil {
		return nil, errStats
	}

	sinkList, db, wsSink, errSinks := buildSinks()
	if errSinks != nil {
		return nil, errSinks
	}

	publisherService := publisher.New(sinkList...)
	publisherService.RegisterObserver(statsService)

	fetchPool := fetcher.New(extractor.New(), dedupCache, publisherService)
	fetchPool.RegisterObserver(statsService)

	schedulerService, errSched := scheduler.New(gocronScheduler, sourceRepo, fetchPool)
	if errSched != nil {
		return nil, errSched
	}
	fetchPool.RegisterCompletionHook(schedulerService.OnPollComplete)

	readiness := []func() bool{}
	if db != nil {
		readiness = append(readiness, db.IsConnected)
	}

	return &Impl{
		scheduler:     gocronScheduler,
		sourceRepo:    sourceRepo,
		fetchPool:     fetchPool,
		publisher:     publisherService,
		healthService: statsService,
		wsSink:        wsSink,
		db:            db,
		probes:        insights.NewProbes(readiness...),
	}, nil
}

func (app *Impl) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	app.publisher.Start(ctx)
	app.fetchPool.Start(ctx)
	if app.wsSink != nil {
		app.wsSink.ListenAndServe()
	}
	app.scheduler.Start()

	for _, job := range app.scheduler.Jobs() {
		scheduledTime, err := job.NextRun()
		if err == nil {
			log.Info().Msgf("%v scheduled at %v", job.Name(), scheduledTime)
		}
	}
	log.Info().Msgf("Polling %d source(s)", app.sourceRepo.Count())

	app.probes.ListenAndServe()
}

func (app *Impl) Shutdown() {
	if err := app.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown scheduler, continuing...")
	}
	if app.cancel != nil {
		app.cancel()
	}
	app.fetchPool.Shutdown()
	app.publisher.Shutdown()
	if app.db != nil {
		app.db.Shutdown()
	}
	log.Info().Msgf("Application is no longer running")
}

// seedSources fills the registry from the configured YAML file, or from the
// built-in defaults when no file is configured.
func seedSources(repo sourcesRepo.Repository) error {
	configs := constants.GetDefaultSources()
	if path := viper.GetString(constants.SourcesFile); path != "" {
		loaded, err := loadSourcesFile(path)
		if err != nil {
			return err
		}
		configs = loaded
	}

	for _, config := range configs {
		source := entities.Source{ID: config.ID, URL: config.URL, Interval: config.Interval}
		if err := repo.Add(source); err != nil {
			return fmt.Errorf("source %q: %w", config.ID, err)
		}
	}
	return nil
}

func loadSourcesFile(path string) ([]constants.SourceConfig, error) {
	sourcesViper := viper.New()
	sourcesViper.SetConfigFile(path)
	if err := sourcesViper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var configs []constants.SourceConfig
	if err := sourcesViper.UnmarshalKey("sources", &configs); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	return configs, nil
}

// buildSinks instantiates the sink variants named in configuration. The
// sqlite connection and websocket listener are returned as well so the
// application can manage their lifecycle.
func buildSinks() ([]sinks.Sink, databases.SqlConnection, *sinks.WebSocketSink, error) {
	var (
		sinkList []sinks.Sink
		db       databases.SqlConnection
		wsSink   *sinks.WebSocketSink
	)

	for _, name := range strings.Split(viper.GetString(constants.Sinks), ",") {
		switch strings.TrimSpace(name) {
		case "":
			continue
		case "log":
			sinkList = append(sinkList, sinks.NewLog())
		case "sqlite":
			db = databases.New()
			if errDB := db.Run(); errDB != nil {
				return nil, nil, nil, errDB
			}
			if errMigration := db.GetDB().AutoMigrate(&entities.StoredArticle{}); errMigration != nil {
				return nil, nil, nil, errMigration
			}
			repo := articlesRepo.New(db)
			log.Info().Msgf("Sqlite sink ready, %d article(s) already stored", repo.Count())
			sinkList = append(sinkList, sinks.NewSQLite(repo))
		case "websocket":
			wsSink = sinks.NewWebSocket()
			sinkList = append(sinkList, wsSink)
		case "telegram":
			telegramSink, errTg := sinks.NewTelegram(
				viper.GetString(constants.TelegramBotToken),
				viper.GetInt64(constants.TelegramChatID))
			if errTg != nil {
				return nil, nil, nil, errTg
			}
			sinkList = append(sinkList, telegramSink)
		default:
			return nil, nil, nil, fmt.Errorf("%w: %q", sinks.ErrUnknownSink, name)
		}
	}

	if len(sinkList) == 0 {
		return nil, nil, nil, ErrNoSinks
	}
	return sinkList, db, wsSink, nil
}

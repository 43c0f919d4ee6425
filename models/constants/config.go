package constants

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	ExternalName = "newswire"
	Version      = "1.0.0"

	ConfigFileName = ".env"

	// Zerolog values from [trace, debug, info, warn, error, fatal, panic].
	LogLevel = "LOG_LEVEL"

	// Probe port.
	ProbePort = "PROBE_PORT"

	// SQLITE_URL URL, used when the sqlite sink is enabled.
	SqliteURL = "SQLITE_URL"

	// Optional YAML file holding the source list; defaults are used when absent.
	SourcesFile = "SOURCES_FILE"

	// Scheduler tick. Duration type.
	TickInterval = "TICK_INTERVAL"

	// Number of concurrent fetch workers.
	FetchWorkers = "FETCH_WORKERS"

	// Capacity of the fetch job queue.
	FetchQueueSize = "FETCH_QUEUE_SIZE"

	// Per-attempt HTTP timeout. Duration type.
	HTTPTimeout = "HTTP_TIMEOUT"

	// Retries after the first failed attempt of a network call.
	FetchRetries = "FETCH_RETRIES"

	// Exponential backoff between retry attempts. Duration types.
	RetryInitialInterval = "RETRY_INITIAL_INTERVAL"
	RetryMaxInterval     = "RETRY_MAX_INTERVAL"

	// Consecutive failures before a source is demoted to backoff polling.
	FailureThreshold = "FAILURE_THRESHOLD"

	// Ceiling of the demoted poll interval. Duration type.
	MaxPollBackoff = "MAX_POLL_BACKOFF"

	// How long ETag/Last-Modified validators are kept. Duration type.
	ConditionalCacheTTL = "CONDITIONAL_CACHE_TTL"

	// Dedup cache bound (entries) and optional time horizon (0 disables it).
	DedupCacheSize = "DEDUP_CACHE_SIZE"
	DedupMaxAge    = "DEDUP_MAX_AGE"

	// Comma-separated sink list from [log, sqlite, websocket, telegram].
	Sinks = "SINKS"

	// Per-sink outbound queue capacity.
	SinkQueueSize = "SINK_QUEUE_SIZE"

	// Delivery retries after the first failed attempt, per sink.
	SinkRetries = "SINK_RETRIES"

	// Bounded wait before an event is dropped for a saturated sink. Duration type.
	SinkAdmitWait = "SINK_ADMIT_WAIT"

	// Per-attempt delivery timeout. Duration type.
	SinkDeliverTimeout = "SINK_DELIVER_TIMEOUT"

	// Bounded wait to flush still-queued events on shutdown. Duration type.
	SinkDrainWait = "SINK_DRAIN_WAIT"

	// Port the websocket sink subscribers connect to.
	WebSocketPort = "WEBSOCKET_PORT"

	// TELEGRAM BOT, used when the telegram sink is enabled.
	TelegramBotToken = "TELEGRAM_BOT_TOKEN"
	TelegramChatID   = "TELEGRAM_CHAT_ID"

	// User agent sent on feed and article requests.
	UserAgent = "USER_AGENT"

	// Cron tab for the periodic pipeline stats summary.
	StatsCronTab = "STATS_CRON_TAB"

	defaultProbePort            = 9090
	defaultSqliteURL            = "newswire.db"
	defaultSourcesFile          = ""
	defaultTickInterval         = 5 * time.Second
	defaultFetchWorkers         = 8
	defaultFetchQueueSize       = 32
	defaultHTTPTimeout          = 15 * time.Second
	defaultFetchRetries         = 2
	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxInterval     = 10 * time.Second
	defaultFailureThreshold     = 3
	defaultMaxPollBackoff       = 1 * time.Hour
	defaultConditionalCacheTTL  = 12 * time.Hour
	defaultDedupCacheSize       = 65536
	defaultDedupMaxAge          = time.Duration(0)
	defaultSinks                = "log"
	defaultSinkQueueSize        = 64
	defaultSinkRetries          = 3
	defaultSinkAdmitWait        = 2 * time.Second
	defaultSinkDeliverTimeout   = 10 * time.Second
	defaultSinkDrainWait        = 5 * time.Second
	defaultWebSocketPort        = 9091
	defaultTelegramBotToken     = ""
	defaultTelegramChatID       = int64(0)
	defaultUserAgent            = "newswire/" + Version
	defaultStatsCronTab         = "*/5 * * * *"
	defaultLogLevel             = zerolog.InfoLevel
)

func GetDefaultConfigValues() map[string]any {
	return map[string]any{
		ProbePort:            defaultProbePort,
		SqliteURL:            defaultSqliteURL,
		SourcesFile:          defaultSourcesFile,
		TickInterval:         defaultTickInterval,
		FetchWorkers:         defaultFetchWorkers,
		FetchQueueSize:       defaultFetchQueueSize,
		HTTPTimeout:          defaultHTTPTimeout,
		FetchRetries:         defaultFetchRetries,
		RetryInitialInterval: defaultRetryInitialInterval,
		RetryMaxInterval:     defaultRetryMaxInterval,
		FailureThreshold:     defaultFailureThreshold,
		MaxPollBackoff:       defaultMaxPollBackoff,
		ConditionalCacheTTL:  defaultConditionalCacheTTL,
		DedupCacheSize:       defaultDedupCacheSize,
		DedupMaxAge:          defaultDedupMaxAge,
		Sinks:                defaultSinks,
		SinkQueueSize:        defaultSinkQueueSize,
		SinkRetries:          defaultSinkRetries,
		SinkAdmitWait:        defaultSinkAdmitWait,
		SinkDeliverTimeout:   defaultSinkDeliverTimeout,
		SinkDrainWait:        defaultSinkDrainWait,
		WebSocketPort:        defaultWebSocketPort,
		TelegramBotToken:     defaultTelegramBotToken,
		TelegramChatID:       defaultTelegramChatID,
		UserAgent:            defaultUserAgent,
		StatsCronTab:         defaultStatsCronTab,
		LogLevel:             defaultLogLevel.String(),
	}
}

package constants

import "github.com/rs/zerolog"

const (
	LogFileName      = "fileName"
	LogSourceID      = "sourceID"
	LogFeedURL       = "feedURL"
	LogEntryURL      = "entryURL"
	LogFingerprint   = "fingerprint"
	LogSink          = "sink"
	LogSeq           = "seq"
	LogEntryNumber   = "entryNumber"
	LogWorkerID      = "workerID"
	LogLevelFallback = zerolog.InfoLevel
)

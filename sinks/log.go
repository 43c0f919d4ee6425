package sinks

import (
	"context"

	"newswire/models/constants"
	"newswire/models/entities"

	"github.com/rs/zerolog/log"
)

// LogSink writes every event to the application log. Mainly useful for
// inspection and as the default sink in development.
type LogSink struct{}

func NewLog() *LogSink {
	return &LogSink{}
}

func (sink *LogSink) Name() string {
	return "log"
}

func (sink *LogSink) Deliver(_ context.Context, event entities.Envelope) error {
	log.Info().
		Uint64(constants.LogSeq, event.Seq).
		Str(constants.LogSourceID, event.SourceID).
		Str(constants.LogFingerprint, event.Fingerprint).
		Str(constants.LogEntryURL, event.URL).
		Msgf("Article published: %s", event.Title)
	return nil
}

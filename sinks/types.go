package sinks

import (
	"context"
	"errors"

	"newswire/models/entities"
)

var (
	ErrTokenIsMissing  = errors.New("telegram token is missing")
	ErrChatIDIsMissing = errors.New("telegram chat id is missing")
	ErrUnknownSink     = errors.New("unknown sink name")
)

// Sink is one delivery target for published article events. Implementations
// are independent transports behind this single capability; the publisher
// treats every configured sink the same way. Deliver must honor the context
// deadline and may be retried, so it has to tolerate redelivery.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event entities.Envelope) error
}

package fetcher

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"newswire/models/entities"
	"newswire/pkg/dedup"
	"newswire/pkg/observer"
	"newswire/services/extractor"

	"github.com/patrickmn/go-cache"
)

var errFeedNotModified = errors.New("feed not modified since last poll")

type entryOutcome int

const (
	entryPublished entryOutcome = iota
	entryDuplicate
	entryFailed
)

// Publisher is the downstream the pool hands accepted articles to.
type Publisher interface {
	Publish(article entities.Article)
}

// CompletionHook is invoked once per finished poll cycle, successful or not.
type CompletionHook func(sourceID string, success bool, at time.Time)

type Service interface {
	Start(ctx context.Context)
	TrySubmit(source entities.Source) bool
	Shutdown()
}

type Impl struct {
	client    *http.Client
	condCache *cache.Cache
	extractor extractor.Service
	dedup     *dedup.Cache
	publisher Publisher

	jobs      chan entities.Source
	workers   int
	userAgent string

	requestTimeout time.Duration
	retries        uint64
	retryInitial   time.Duration
	retryMax       time.Duration

	hooks     []CompletionHook
	observers map[observer.Observer]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// validators are the conditional-request headers remembered per feed URL.
type validators struct {
	etag         string
	lastModified string
}

package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"newswire/models/constants"
	"newswire/models/entities"
	"newswire/pkg/dedup"
	"newswire/pkg/observer"
	"newswire/services/extractor"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New(extractorService extractor.Service, dedupCache *dedup.Cache, pub Publisher) *Impl {
	condTTL := viper.GetDuration(constants.ConditionalCacheTTL)

	return &Impl{
		client: &http.Client{
			Timeout: viper.GetDuration(constants.HTTPTimeout),
		},
		condCache:      cache.New(condTTL, 2*condTTL),
		extractor:      extractorService,
		dedup:          dedupCache,
		publisher:      pub,
		jobs:           make(chan entities.Source, viper.GetInt(constants.FetchQueueSize)),
		workers:        viper.GetInt(constants.FetchWorkers),
		userAgent:      viper.GetString(constants.UserAgent),
		requestTimeout: viper.GetDuration(constants.HTTPTimeout),
		retries:        viper.GetUint64(constants.FetchRetries),
		retryInitial:   viper.GetDuration(constants.RetryInitialInterval),
		retryMax:       viper.GetDuration(constants.RetryMaxInterval),
		observers:      map[observer.Observer]struct{}{},
	}
}

// RegisterCompletionHook must be called before Start.
func (service *Impl) RegisterCompletionHook(hook CompletionHook) {
	service.hooks = append(service.hooks, hook)
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

func (service *Impl) Start(ctx context.Context) {
	service.ctx, service.cancel = context.WithCancel(ctx)

	for i := 0; i < service.workers; i++ {
		service.wg.Add(1)
		go service.worker(i)
	}
}

func (service *Impl) Shutdown() {
	if service.cancel != nil {
		service.cancel()
	}
	service.wg.Wait()
}

// TrySubmit enqueues a poll job without blocking. A false return means the
// pool is saturated; the caller keeps the source due and retries later.
func (service *Impl) TrySubmit(source entities.Source) bool {
	select {
	case service.jobs <- source:
		return true
	default:
		return false
	}
}

func (service *Impl) worker(id int) {
	defer service.wg.Done()

	for {
		select {
		case <-service.ctx.Done():
			log.Debug().Int(constants.LogWorkerID, id).Msg("Fetch worker shutting down")
			return
		case source := <-service.jobs:
			service.poll(source)
		}
	}
}

// poll runs one full cycle for one source: feed fetch, parse, per-entry
// article fetch/extract/dedup/publish. Entry-level problems are contained to
// the entry; only feed-level problems fail the cycle.
func (service *Impl) poll(source entities.Source) {
	success := service.pollCycle(source)
	now := time.Now().UTC()
	for _, hook := range service.hooks {
		hook(source.ID, success, now)
	}
}

func (service *Impl) pollCycle(source entities.Source) bool {
	document, err := service.fetchFeed(source.URL)
	if errors.Is(err, errFeedNotModified) {
		log.Debug().
			Str(constants.LogSourceID, source.ID).
			Str(constants.LogFeedURL, source.URL).
			Msg("Feed unchanged since last poll")
		return true
	}
	if err != nil {
		log.Warn().Err(err).
			Str(constants.LogSourceID, source.ID).
			Str(constants.LogFeedURL, source.URL).
			Msg("Feed fetch failed")
		service.notify(observer.NewArticleEvent(observer.PollFailedEvent, source.ID, "", source.URL))
		return false
	}

	entries, err := service.extractor.Entries(source, document)
	if err != nil {
		log.Warn().Err(err).
			Str(constants.LogSourceID, source.ID).
			Str(constants.LogFeedURL, source.URL).
			Msg("Feed unparsable, poll counted as failed")
		service.notify(observer.NewArticleEvent(observer.PollFailedEvent, source.ID, "", source.URL))
		return false
	}

	published, failed := 0, 0
	for _, entry := range entries {
		if service.ctx.Err() != nil {
			return true
		}
		switch service.processEntry(entry) {
		case entryPublished:
			published++
		case entryFailed:
			failed++
		}
	}

	log.Info().
		Str(constants.LogSourceID, source.ID).
		Int(constants.LogEntryNumber, len(entries)).
		Msgf("Poll cycle finished, %d article(s) published", published)

	// A cycle where every single entry failed demotes the source; scattered
	// entry failures or duplicates do not.
	return len(entries) == 0 || failed < len(entries)
}

func (service *Impl) processEntry(entry entities.FeedEntry) entryOutcome {
	page, err := service.fetchPage(entry.URL)
	if err != nil {
		log.Warn().Err(err).
			Str(constants.LogSourceID, entry.SourceID).
			Str(constants.LogEntryURL, entry.URL).
			Msg("Entry skipped, article page could not be fetched")
		service.notify(observer.NewArticleEvent(observer.EntryFailedEvent, entry.SourceID, "", entry.URL))
		return entryFailed
	}

	article, err := service.extractor.Article(entry, page)
	if err != nil {
		log.Warn().Err(err).
			Str(constants.LogSourceID, entry.SourceID).
			Str(constants.LogEntryURL, entry.URL).
			Msg("Entry skipped, extraction failed")
		service.notify(observer.NewArticleEvent(observer.EntryFailedEvent, entry.SourceID, "", entry.URL))
		return entryFailed
	}

	if service.dedup.CheckAndInsert(article.Fingerprint) == dedup.Duplicate {
		log.Debug().
			Str(constants.LogSourceID, entry.SourceID).
			Str(constants.LogFingerprint, article.Fingerprint).
			Msg("Duplicate article suppressed")
		service.notify(observer.NewArticleEvent(observer.ArticleDuplicateEvent, entry.SourceID, article.Fingerprint, article.URL))
		return entryDuplicate
	}

	service.publisher.Publish(article)
	service.notify(observer.NewArticleEvent(observer.ArticleAcceptedEvent, entry.SourceID, article.Fingerprint, article.URL))
	return entryPublished
}

func (service *Impl) fetchFeed(url string) ([]byte, error) {
	return service.fetch(url, true)
}

func (service *Impl) fetchPage(url string) ([]byte, error) {
	return service.fetch(url, false)
}

// fetch retrieves url with a per-attempt timeout and bounded exponential
// backoff between attempts. 5xx and transport errors are retried; 4xx are
// permanent because retrying will not fix them. Cancellation is checked
// between attempts through the retry context.
func (service *Impl) fetch(url string, conditional bool) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = service.retryInitial
	policy.MaxInterval = service.retryMax

	var body []byte
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(service.ctx, service.requestTimeout)
		defer cancel()

		request, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		request.Header.Set("User-Agent", service.userAgent)
		if conditional {
			if cached, found := service.condCache.Get(url); found {
				known := cached.(validators)
				if known.etag != "" {
					request.Header.Set("If-None-Match", known.etag)
				}
				if known.lastModified != "" {
					request.Header.Set("If-Modified-Since", known.lastModified)
				}
			}
		}

		response, err := service.client.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		if conditional && response.StatusCode == http.StatusNotModified {
			return backoff.Permanent(errFeedNotModified)
		}
		if response.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("server error %d from %s", response.StatusCode, url)
		}
		if response.StatusCode >= http.StatusMultipleChoices {
			return backoff.Permanent(fmt.Errorf("unexpected status %d from %s", response.StatusCode, url))
		}

		data, err := io.ReadAll(response.Body)
		if err != nil {
			return err
		}

		if conditional {
			service.condCache.SetDefault(url, validators{
				etag:         response.Header.Get("ETag"),
				lastModified: response.Header.Get("Last-Modified"),
			})
		}

		body = data
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, service.retries), service.ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}
